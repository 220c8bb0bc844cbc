package domain

import (
	"encoding/json"
	"time"
)

// BaselineVersion is the document schema version written by the seeder and by
// restore; a future migration step keys off it.
const BaselineVersion = "1.0.0"

// Document is the single persisted unit: every entity collection plus
// metadata, serialized as one JSON blob under one storage key. Recurring
// rules and transaction templates have no finalized shape yet and are carried
// as opaque blobs.
type Document struct {
	Accounts             []Account         `json:"accounts"`
	Categories           []Category        `json:"categories"`
	Transactions         []Transaction     `json:"transactions"`
	Budgets              []Budget          `json:"budgets"`
	Attachments          []Attachment      `json:"attachments"`
	RecurringRules       []json.RawMessage `json:"recurringRules"`
	TransactionTemplates []json.RawMessage `json:"transactionTemplates"`
	Version              string            `json:"version"`
	CreatedAt            time.Time         `json:"createdAt"`
	UpdatedAt            time.Time         `json:"updatedAt"`
}

// NewDocument returns an empty document at the baseline version. All
// collections are non-nil so the persisted JSON always carries arrays.
func NewDocument(now time.Time) *Document {
	return &Document{
		Accounts:             []Account{},
		Categories:           []Category{},
		Transactions:         []Transaction{},
		Budgets:              []Budget{},
		Attachments:          []Attachment{},
		RecurringRules:       []json.RawMessage{},
		TransactionTemplates: []json.RawMessage{},
		Version:              BaselineVersion,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

// Clone returns a copy whose collection slices are independent of the
// receiver, so callers can read or mutate it while another goroutine replaces
// collections on the original.
func (d *Document) Clone() *Document {
	out := *d
	out.Accounts = append([]Account(nil), d.Accounts...)
	out.Categories = append([]Category(nil), d.Categories...)
	out.Transactions = append([]Transaction(nil), d.Transactions...)
	out.Budgets = append([]Budget(nil), d.Budgets...)
	out.Attachments = append([]Attachment(nil), d.Attachments...)
	out.RecurringRules = append([]json.RawMessage(nil), d.RecurringRules...)
	out.TransactionTemplates = append([]json.RawMessage(nil), d.TransactionTemplates...)
	return &out
}

// AccountByID does a linear scan; collections are small enough that an index
// is not worth keeping consistent.
func (d *Document) AccountByID(id string) (*Account, bool) {
	for i := range d.Accounts {
		if d.Accounts[i].ID == id {
			return &d.Accounts[i], true
		}
	}
	return nil, false
}

// CategoryByID does a linear scan over categories.
func (d *Document) CategoryByID(id string) (*Category, bool) {
	for i := range d.Categories {
		if d.Categories[i].ID == id {
			return &d.Categories[i], true
		}
	}
	return nil, false
}
