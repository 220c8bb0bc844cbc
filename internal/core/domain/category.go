package domain

// CategoryType splits categories into the two sides of the ledger.
type CategoryType string

const (
	CategoryIncome  CategoryType = "income"
	CategoryExpense CategoryType = "expense"
)

// Category groups transactions for budgeting and reporting. ParentID allows
// hierarchical grouping; the store does not enforce acyclicity.
type Category struct {
	Meta
	Name       string       `json:"name"`
	Type       CategoryType `json:"type"`
	ParentID   *string      `json:"parentId"`
	Color      string       `json:"color"`
	Icon       string       `json:"icon"`
	IsArchived bool         `json:"isArchived"`
}
