package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType classifies where the money lives.
type AccountType string

const (
	AccountCash   AccountType = "cash"
	AccountBank   AccountType = "bank"
	AccountWallet AccountType = "wallet"
	AccountCard   AccountType = "card"
	AccountOther  AccountType = "other"
)

// Account represents a place money is held. Its balance is never stored; it is
// always derived from OpeningBalance plus the fold over the transaction ledger.
type Account struct {
	Meta
	Name           string          `json:"name"`
	Type           AccountType     `json:"type"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	CurrencyCode   string          `json:"currencyCode"`
	IsArchived     bool            `json:"isArchived"`
}
