// Package dto holds the wire-facing payload shapes the query engine validates
// mutations against, plus the parameter structs the report handlers bind.
package dto

import (
	"github.com/shopspring/decimal"
)

// AccountPayload is the validated shape of an account entity. The engine
// validates the merged result of a mutation, so required fields are enforced
// for partial updates too.
type AccountPayload struct {
	Name           string          `json:"name" validate:"required"`
	Type           string          `json:"type" validate:"required,oneof=cash bank wallet card other"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	CurrencyCode   string          `json:"currencyCode" validate:"required"`
	IsArchived     bool            `json:"isArchived"`
}
