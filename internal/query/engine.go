package query

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/khatapp/khata/internal/apperrors"
	"github.com/khatapp/khata/internal/core/domain"
	"github.com/khatapp/khata/internal/store"
)

const (
	defaultSortField = "createdAt"
	defaultSortOrder = "desc"
	defaultPageLimit = 1000
)

// timestampLayout keeps the fractional second at a fixed nine digits.
// RFC3339Nano trims trailing zeros, which breaks the lexical ordering the
// default createdAt sort relies on ('Z' sorts after every digit).
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Engine interprets resource requests against the record store. Reads are
// served straight from the loaded document; every mutation runs exactly one
// load-mutate-save cycle, serialized by a single in-process mutex so two
// rapid mutations cannot silently drop each other's whole-document write.
type Engine struct {
	records  *store.RecordStore
	logger   *slog.Logger
	validate *entityValidator

	writeMu sync.Mutex
}

// NewEngine builds an engine over the given record store.
func NewEngine(records *store.RecordStore, logger *slog.Logger) *Engine {
	return &Engine{
		records:  records,
		logger:   logger,
		validate: newEntityValidator(),
	}
}

// Do executes one request and always resolves to a Response; unexpected
// failures, including panics, come back as internal-error responses.
func (e *Engine) Do(ctx context.Context, req Request) (resp Response) {
	defer func() {
		if rec := recover(); rec != nil {
			e.logger.Error("Query engine panic", slog.Any("panic", rec),
				slog.String("method", req.Method), slog.String("path", req.Path))
			resp = failureErr(http.StatusInternalServerError,
				fmt.Errorf("%w: %v", apperrors.ErrInternal, rec))
		}
	}()

	name, id, ok := splitPath(req.Path)
	if !ok {
		return failureErr(http.StatusNotFound, apperrors.ErrNotFound)
	}
	res, known := resources[name]
	if !known {
		return failureErr(http.StatusNotFound, apperrors.ErrNotFound)
	}

	switch strings.ToUpper(req.Method) {
	case http.MethodGet:
		return e.get(ctx, res, id, req.Params)
	case http.MethodPost:
		if id != "" {
			return failureErr(http.StatusMethodNotAllowed, apperrors.ErrMethodNotAllowed)
		}
		return e.create(ctx, name, res, req)
	case http.MethodPut, http.MethodPatch:
		if id == "" {
			return failureErr(http.StatusMethodNotAllowed, apperrors.ErrMethodNotAllowed)
		}
		return e.update(ctx, name, res, id, req)
	case http.MethodDelete:
		if id == "" {
			return failureErr(http.StatusMethodNotAllowed, apperrors.ErrMethodNotAllowed)
		}
		return e.delete(ctx, res, id)
	default:
		return failureErr(http.StatusMethodNotAllowed, apperrors.ErrMethodNotAllowed)
	}
}

func (e *Engine) get(ctx context.Context, res resource, id string, params url.Values) Response {
	doc, err := e.records.Load(ctx)
	if err != nil {
		return failure(http.StatusInternalServerError, err.Error())
	}
	items, err := res.items(doc)
	if err != nil {
		return failure(http.StatusInternalServerError, err.Error())
	}

	if id != "" {
		item, _, found := findByID(items, id)
		if !found {
			return failureErr(http.StatusNotFound, apperrors.ErrNotFound)
		}
		return success(http.StatusOK, item)
	}

	items = applyFilters(items, params)
	sortItems(items, params.Get("_sort"), params.Get("_order"))
	return success(http.StatusOK, paginate(items, params.Get("_page"), params.Get("_limit")))
}

func (e *Engine) create(ctx context.Context, name string, res resource, req Request) Response {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	doc, err := e.records.Load(ctx)
	if err != nil {
		return failure(http.StatusInternalServerError, err.Error())
	}

	body, err := decodeBody(req.Body)
	if err != nil {
		return failure(http.StatusBadRequest, err.Error())
	}

	now := time.Now().UTC().Format(timestampLayout)
	item := make(map[string]any, len(body)+3)
	for k, v := range body {
		item[k] = v
	}
	// id and both timestamps are always engine-assigned, whatever the caller sent.
	item["id"] = uuid.NewString()
	item["createdAt"] = now
	item["updatedAt"] = now

	if err := e.validate.check(name, doc, item); err != nil {
		return failure(http.StatusBadRequest, err.Error())
	}

	items, err := res.items(doc)
	if err != nil {
		return failure(http.StatusInternalServerError, err.Error())
	}
	items = append(items, item)
	return e.persist(ctx, res, doc, items, http.StatusCreated, item)
}

func (e *Engine) update(ctx context.Context, name string, res resource, id string, req Request) Response {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	doc, err := e.records.Load(ctx)
	if err != nil {
		return failure(http.StatusInternalServerError, err.Error())
	}
	items, err := res.items(doc)
	if err != nil {
		return failure(http.StatusInternalServerError, err.Error())
	}

	existing, idx, found := findByID(items, id)
	if !found {
		return failureErr(http.StatusNotFound, apperrors.ErrNotFound)
	}

	body, err := decodeBody(req.Body)
	if err != nil {
		return failure(http.StatusBadRequest, err.Error())
	}

	merged := make(map[string]any, len(existing)+len(body))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range body {
		merged[k] = v
	}
	// Identity and creation time are immutable.
	merged["id"] = existing["id"]
	merged["createdAt"] = existing["createdAt"]
	merged["updatedAt"] = time.Now().UTC().Format(timestampLayout)

	if err := e.validate.check(name, doc, merged); err != nil {
		return failure(http.StatusBadRequest, err.Error())
	}

	items[idx] = merged
	return e.persist(ctx, res, doc, items, http.StatusOK, merged)
}

func (e *Engine) delete(ctx context.Context, res resource, id string) Response {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	doc, err := e.records.Load(ctx)
	if err != nil {
		return failure(http.StatusInternalServerError, err.Error())
	}
	items, err := res.items(doc)
	if err != nil {
		return failure(http.StatusInternalServerError, err.Error())
	}

	_, idx, found := findByID(items, id)
	if !found {
		return failureErr(http.StatusNotFound, apperrors.ErrNotFound)
	}

	items = append(items[:idx], items[idx+1:]...)
	return e.persist(ctx, res, doc, items, http.StatusOK, map[string]any{"id": id})
}

// persist writes the mutated collection back into the document and saves it.
// This is the single Save per mutating operation.
func (e *Engine) persist(ctx context.Context, res resource, doc *domain.Document, items []map[string]any, status int, payload any) Response {
	if err := res.replace(doc, items); err != nil {
		return failure(http.StatusBadRequest, err.Error())
	}
	if err := e.records.Save(ctx, doc); err != nil {
		e.logger.Error("Failed to persist document", slog.String("error", err.Error()))
		return failure(http.StatusInternalServerError, err.Error())
	}
	return success(status, payload)
}

func decodeBody(body []byte) (map[string]any, error) {
	if len(body) == 0 {
		return map[string]any{}, nil
	}
	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("invalid request body: %v", err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

func findByID(items []map[string]any, id string) (map[string]any, int, bool) {
	for i, item := range items {
		if v, ok := item["id"].(string); ok && v == id {
			return item, i, true
		}
	}
	return nil, -1, false
}

// applyFilters keeps the recognized equality and date-range parameters, in
// the order the wire contract defines them.
func applyFilters(items []map[string]any, params url.Values) []map[string]any {
	for _, field := range []string{"type", "categoryId", "month"} {
		if want := params.Get(field); want != "" {
			items = keep(items, func(item map[string]any) bool {
				got, ok := item[field].(string)
				return ok && got == want
			})
		}
	}
	if gte := params.Get("date_gte"); gte != "" {
		items = keep(items, func(item map[string]any) bool {
			date, ok := item["date"].(string)
			return ok && date >= gte
		})
	}
	if lte := params.Get("date_lte"); lte != "" {
		items = keep(items, func(item map[string]any) bool {
			date, ok := item["date"].(string)
			return ok && date <= lte
		})
	}
	return items
}

func keep(items []map[string]any, pred func(map[string]any) bool) []map[string]any {
	out := items[:0:0]
	for _, item := range items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

// sortItems orders by the named field, stable so equal keys keep insertion
// order. JSON gives three comparable shapes: numbers, strings and bools;
// ISO timestamps and dates compare correctly as strings.
func sortItems(items []map[string]any, field, order string) {
	if field == "" {
		field = defaultSortField
	}
	if order == "" {
		order = defaultSortOrder
	}
	desc := order == "desc"
	sort.SliceStable(items, func(i, j int) bool {
		less := compareValues(items[i][field], items[j][field]) < 0
		if desc {
			less = compareValues(items[j][field], items[i][field]) < 0
		}
		return less
	})
}

func compareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	if na, aok := a.(float64); aok {
		if nb, bok := b.(float64); bok {
			switch {
			case na < nb:
				return -1
			case na > nb:
				return 1
			default:
				return 0
			}
		}
	}
	if sa, aok := a.(string); aok {
		if sb, bok := b.(string); bok {
			return strings.Compare(sa, sb)
		}
	}
	if ba, aok := a.(bool); aok {
		if bb, bok := b.(bool); bok {
			switch {
			case !ba && bb:
				return -1
			case ba && !bb:
				return 1
			default:
				return 0
			}
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func paginate(items []map[string]any, pageParam, limitParam string) []map[string]any {
	page := parsePositive(pageParam, 1)
	limit := parsePositive(limitParam, defaultPageLimit)

	start := (page - 1) * limit
	if start >= len(items) {
		return []map[string]any{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func parsePositive(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
