package domain

import (
	"github.com/shopspring/decimal"
)

// TransactionType distinguishes the three kinds of ledger entry.
type TransactionType string

const (
	TypeIncome   TransactionType = "income"
	TypeExpense  TransactionType = "expense"
	TypeTransfer TransactionType = "transfer"
)

// Transaction is one ledger entry. Amount is unsigned; its effect on an
// account's balance is implied by Type and by which leg (AccountID or
// AccountIDTo) the account sits on. AccountIDTo is meaningful only for
// transfers, and CategoryID must be null for transfers.
type Transaction struct {
	Meta
	Type          TransactionType `json:"type"`
	AccountID     string          `json:"accountId"`
	AccountIDTo   *string         `json:"accountIdTo"`
	CategoryID    *string         `json:"categoryId"`
	Amount        decimal.Decimal `json:"amount"`
	CurrencyCode  string          `json:"currencyCode"`
	Date          string          `json:"date"` // ISO day, YYYY-MM-DD
	Note          string          `json:"note,omitempty"`
	Tags          []string        `json:"tags"`
	AttachmentIDs []string        `json:"attachmentIds"`
}

// Month returns the YYYY-MM period the transaction falls in.
func (t Transaction) Month() string {
	if len(t.Date) < 7 {
		return t.Date
	}
	return t.Date[:7]
}
