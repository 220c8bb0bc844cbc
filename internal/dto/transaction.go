package dto

import (
	"github.com/shopspring/decimal"
)

// TransactionPayload is the validated shape of a transaction entity. The
// cross-field transfer rules (distinct legs, live accounts, no category) are
// coded checks in the engine's validator since they need the document.
type TransactionPayload struct {
	Type          string          `json:"type" validate:"required,oneof=income expense transfer"`
	AccountID     string          `json:"accountId" validate:"required"`
	AccountIDTo   *string         `json:"accountIdTo"`
	CategoryID    *string         `json:"categoryId"`
	Amount        decimal.Decimal `json:"amount"`
	CurrencyCode  string          `json:"currencyCode" validate:"required"`
	Date          string          `json:"date" validate:"required,datetime=2006-01-02"`
	Note          string          `json:"note"`
	Tags          []string        `json:"tags"`
	AttachmentIDs []string        `json:"attachmentIds"`
}
