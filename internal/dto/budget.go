package dto

import (
	"github.com/shopspring/decimal"
)

// BudgetPayload is the validated shape of a budget entity.
type BudgetPayload struct {
	CategoryID string          `json:"categoryId" validate:"required"`
	Month      string          `json:"month" validate:"required,datetime=2006-01"`
	Amount     decimal.Decimal `json:"amount"`
	Rollover   bool            `json:"rollover"`
}

// AttachmentPayload is the validated shape of an attachment entity.
type AttachmentPayload struct {
	TransactionID string `json:"transactionId" validate:"required"`
	FileName      string `json:"fileName" validate:"required"`
	FilePath      string `json:"filePath"`
	FileSize      int64  `json:"fileSize" validate:"gte=0"`
	MimeType      string `json:"mimeType"`
}
