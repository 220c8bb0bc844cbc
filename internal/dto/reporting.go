package dto

// MonthParams selects one YYYY-MM period for a report.
type MonthParams struct {
	Month string `form:"month" binding:"required,datetime=2006-01"`
	Top   int    `form:"top" binding:"omitempty,gte=1"`
}

// BreakdownParams selects the period and side of the ledger to aggregate.
type BreakdownParams struct {
	Month string `form:"month" binding:"required,datetime=2006-01"`
	Kind  string `form:"kind" binding:"omitempty,oneof=income expense"`
	Top   int    `form:"top" binding:"omitempty,gte=1"`
}

// FilterParams is the transaction-view filter as query parameters. Repeated
// accountId, categoryId and tag parameters form the membership sets.
type FilterParams struct {
	Type        string   `form:"type" binding:"omitempty,oneof=income expense transfer"`
	AccountIDs  []string `form:"accountId"`
	CategoryIDs []string `form:"categoryId"`
	DateFrom    string   `form:"date_gte" binding:"omitempty,datetime=2006-01-02"`
	DateTo      string   `form:"date_lte" binding:"omitempty,datetime=2006-01-02"`
	Tags        []string `form:"tag"`
	Search      string   `form:"q"`
}

// CompleteSetupRequest finishes onboarding: the chosen currency and the
// user-typed opening balances, keyed by account name.
type CompleteSetupRequest struct {
	CurrencyCode    string            `json:"currencyCode" binding:"required"`
	OpeningBalances map[string]string `json:"openingBalances"`
}

// RestoreRequest wraps a backup blob for the restore endpoint.
type RestoreRequest struct {
	Backup string `json:"backup" binding:"required"`
}

// DriveConnectRequest carries the OAuth authorization code from the consent
// redirect.
type DriveConnectRequest struct {
	Code string `json:"code" binding:"required"`
}

// DriveRestoreRequest names the Drive file to restore from.
type DriveRestoreRequest struct {
	FileID string `json:"fileId" binding:"required"`
}
