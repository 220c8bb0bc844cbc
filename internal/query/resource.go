package query

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/khatapp/khata/internal/core/domain"
)

// A resource adapts one typed document collection to the dynamic map view the
// engine filters, sorts and merges on. The round trip through JSON keeps the
// engine generic over entity types while the document stays fully typed.
type resource interface {
	items(doc *domain.Document) ([]map[string]any, error)
	replace(doc *domain.Document, items []map[string]any) error
}

type table[T any] struct {
	slice func(*domain.Document) *[]T
}

func (t table[T]) items(doc *domain.Document) ([]map[string]any, error) {
	raw, err := json.Marshal(*t.slice(doc))
	if err != nil {
		return nil, fmt.Errorf("encode collection: %w", err)
	}
	var out []map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}
	if out == nil {
		out = []map[string]any{}
	}
	return out, nil
}

func (t table[T]) replace(doc *domain.Document, items []map[string]any) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}
	typed := make([]T, 0, len(items))
	if err := json.Unmarshal(raw, &typed); err != nil {
		return fmt.Errorf("decode collection: %w", err)
	}
	*t.slice(doc) = typed
	return nil
}

// ResourceNames lists the addressable collections, for route registration.
func ResourceNames() []string {
	names := make([]string, 0, len(resources))
	for name := range resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// resources is the closed set of addressable collections. An unknown resource
// name is rejected rather than silently treated as an empty collection.
var resources = map[string]resource{
	"accounts":     table[domain.Account]{func(d *domain.Document) *[]domain.Account { return &d.Accounts }},
	"categories":   table[domain.Category]{func(d *domain.Document) *[]domain.Category { return &d.Categories }},
	"transactions": table[domain.Transaction]{func(d *domain.Document) *[]domain.Transaction { return &d.Transactions }},
	"budgets":      table[domain.Budget]{func(d *domain.Document) *[]domain.Budget { return &d.Budgets }},
	"attachments":  table[domain.Attachment]{func(d *domain.Document) *[]domain.Attachment { return &d.Attachments }},
	"recurringRules": table[json.RawMessage]{
		func(d *domain.Document) *[]json.RawMessage { return &d.RecurringRules },
	},
	"transactionTemplates": table[json.RawMessage]{
		func(d *domain.Document) *[]json.RawMessage { return &d.TransactionTemplates },
	},
}
