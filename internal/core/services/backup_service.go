package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/khatapp/khata/internal/apperrors"
	"github.com/khatapp/khata/internal/core/domain"
	"github.com/khatapp/khata/internal/store"
)

// BackupPayload is the exported form: the whole document plus backup
// metadata, serialized as text.
type BackupPayload struct {
	domain.Document
	BackupTimestamp time.Time `json:"backupTimestamp"`
	BackupVersion   string    `json:"backupVersion"`
}

// Stats summarizes the stored data for the settings screen and the CLI.
type Stats struct {
	Accounts     int    `json:"accounts"`
	Categories   int    `json:"categories"`
	Transactions int    `json:"transactions"`
	Budgets      int    `json:"budgets"`
	SizeBytes    int    `json:"sizeBytes"`
	Version      string `json:"version"`
}

// BackupService exports, restores and resets the stored data.
type BackupService struct {
	records *store.RecordStore
	logger  *slog.Logger
}

func NewBackupService(records *store.RecordStore, logger *slog.Logger) *BackupService {
	return &BackupService{records: records, logger: logger}
}

// Export serializes the full document with a backup timestamp and version
// tag, and records the backup time on its own key. A failure to record the
// timestamp does not fail the export.
func (s *BackupService) Export(ctx context.Context) (string, error) {
	doc, err := s.records.Load(ctx)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	payload := BackupPayload{
		Document:        *doc,
		BackupTimestamp: now,
		BackupVersion:   domain.BaselineVersion,
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode backup: %w", err)
	}

	if err := s.records.Backend().Set(ctx, store.KeyLastBackupTimestamp, []byte(now.Format(time.RFC3339))); err != nil {
		s.logger.Warn("Failed to record backup timestamp", slog.String("error", err.Error()))
	}
	return string(data), nil
}

// Restore validates and installs a backup as the live document. The three
// core collections must be present; the optional ones default to empty.
// Nothing is replaced until the payload has passed validation.
func (s *BackupService) Restore(ctx context.Context, backup string) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(backup), &fields); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidBackup, err)
	}
	for _, required := range []string{"accounts", "categories", "transactions"} {
		raw, present := fields[required]
		if !present || string(raw) == "null" {
			return fmt.Errorf("%w: missing %s", apperrors.ErrInvalidBackup, required)
		}
	}

	var payload BackupPayload
	if err := json.Unmarshal([]byte(backup), &payload); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidBackup, err)
	}

	now := time.Now().UTC()
	doc := domain.NewDocument(now)
	doc.Accounts = payload.Accounts
	doc.Categories = payload.Categories
	doc.Transactions = payload.Transactions
	if payload.Budgets != nil {
		doc.Budgets = payload.Budgets
	}
	if payload.Attachments != nil {
		doc.Attachments = payload.Attachments
	}
	if payload.RecurringRules != nil {
		doc.RecurringRules = payload.RecurringRules
	}
	if payload.TransactionTemplates != nil {
		doc.TransactionTemplates = payload.TransactionTemplates
	}
	if !payload.CreatedAt.IsZero() {
		doc.CreatedAt = payload.CreatedAt
	}

	if err := s.records.Save(ctx, doc); err != nil {
		return err
	}
	s.logger.Info("Document restored from backup",
		slog.Int("accounts", len(doc.Accounts)),
		slog.Int("transactions", len(doc.Transactions)))
	return nil
}

// ExportTransactionsCSV writes the transaction ledger as CSV.
func (s *BackupService) ExportTransactionsCSV(ctx context.Context, w io.Writer) error {
	doc, err := s.records.Load(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := []string{"id", "type", "accountId", "accountIdTo", "categoryId", "amount", "currencyCode", "date", "note", "tags"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, t := range doc.Transactions {
		accountTo := ""
		if t.AccountIDTo != nil {
			accountTo = *t.AccountIDTo
		}
		category := ""
		if t.CategoryID != nil {
			category = *t.CategoryID
		}
		row := []string{
			t.ID, string(t.Type), t.AccountID, accountTo, category,
			t.Amount.String(), t.CurrencyCode, t.Date, t.Note, strings.Join(t.Tags, ";"),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Stats reports collection counts and the serialized document size.
func (s *BackupService) Stats(ctx context.Context) (Stats, error) {
	doc, err := s.records.Load(ctx)
	if err != nil {
		return Stats{}, err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return Stats{}, fmt.Errorf("encode document: %w", err)
	}
	return Stats{
		Accounts:     len(doc.Accounts),
		Categories:   len(doc.Categories),
		Transactions: len(doc.Transactions),
		Budgets:      len(doc.Budgets),
		SizeBytes:    len(data),
		Version:      doc.Version,
	}, nil
}

// Reset removes every storage key the app owns and drops the cache. The next
// load starts from the empty default document.
func (s *BackupService) Reset(ctx context.Context) error {
	if err := s.records.Backend().Delete(ctx, store.AllKeys...); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageWrite, err)
	}
	s.records.Invalidate()
	s.logger.Info("App data reset")
	return nil
}
