package domain

// Attachment is a file (receipt photo, document) linked to a transaction.
// The file bytes live on the device filesystem; only metadata is stored here.
type Attachment struct {
	Meta
	TransactionID string `json:"transactionId"`
	FileName      string `json:"fileName"`
	FilePath      string `json:"filePath"`
	FileSize      int64  `json:"fileSize"`
	MimeType      string `json:"mimeType"`
}
