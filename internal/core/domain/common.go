package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The persisted document stores monetary amounts as JSON numbers, and the
	// query engine's dynamic sort compares them numerically. Quoted decimals
	// would break both.
	decimal.MarshalJSONWithoutQuotes = true
}

// Meta holds the fields shared by every persisted entity. The query engine
// assigns all three; callers never supply them on create.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
