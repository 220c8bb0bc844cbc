package domain

import (
	"github.com/shopspring/decimal"
)

// Budget is a spending target for one category in one YYYY-MM period.
// Rollover carries the unused part of the target into the next period that
// has a budget for the same category.
type Budget struct {
	Meta
	CategoryID string          `json:"categoryId"`
	Month      string          `json:"month"` // YYYY-MM
	Amount     decimal.Decimal `json:"amount"`
	Rollover   bool            `json:"rollover"`
}
