package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/khatapp/khata/internal/apperrors"
	"github.com/khatapp/khata/internal/core/domain"
	"github.com/khatapp/khata/internal/store"
)

type seedCategory struct {
	name  string
	kind  domain.CategoryType
	color string
	icon  string
}

var defaultCategories = []seedCategory{
	{"Food & Dining", domain.CategoryExpense, "#F97316", "restaurant-outline"},
	{"Groceries", domain.CategoryExpense, "#10B981", "bag-outline"},
	{"Transportation", domain.CategoryExpense, "#3B82F6", "car-outline"},
	{"Utilities", domain.CategoryExpense, "#8B5CF6", "flash-outline"},
	{"Entertainment", domain.CategoryExpense, "#EC4899", "game-controller-outline"},
	{"Healthcare", domain.CategoryExpense, "#EF4444", "medical-outline"},
	{"Shopping", domain.CategoryExpense, "#F59E0B", "bag-handle-outline"},
	{"Education", domain.CategoryExpense, "#06B6D4", "school-outline"},
	{"Personal Care", domain.CategoryExpense, "#84CC16", "person-outline"},
	{"Other", domain.CategoryExpense, "#6B7280", "ellipsis-horizontal-outline"},
	{"Salary", domain.CategoryIncome, "#10B981", "card-outline"},
	{"Business", domain.CategoryIncome, "#3B82F6", "business-outline"},
	{"Investment", domain.CategoryIncome, "#8B5CF6", "trending-up-outline"},
	{"Freelance", domain.CategoryIncome, "#F59E0B", "laptop-outline"},
	{"Gift", domain.CategoryIncome, "#EC4899", "gift-outline"},
	{"Other Income", domain.CategoryIncome, "#6B7280", "add-circle-outline"},
}

var defaultAccounts = []struct {
	name string
	kind domain.AccountType
}{
	{"Bank Account", domain.AccountBank},
	{"Cash", domain.AccountCash},
	{"Credit/Debit Card", domain.AccountCard},
	{"Digital Wallet", domain.AccountWallet},
	{"Other", domain.AccountOther},
}

// SeedService populates a fresh install: the fixed default categories and one
// account per account type, denominated in the user's currency. Seeding keys
// off the presence of a stored document, not collection emptiness, so a user
// who deleted every entity never gets re-seeded.
type SeedService struct {
	records *store.RecordStore
	logger  *slog.Logger
}

func NewSeedService(records *store.RecordStore, logger *slog.Logger) *SeedService {
	return &SeedService{records: records, logger: logger}
}

// Initialize creates and persists the default document on first run. It is
// idempotent: if a document already exists it is returned untouched.
func (s *SeedService) Initialize(ctx context.Context, currency string) (*domain.Document, error) {
	exists, err := s.records.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		s.logger.Info("Document already exists, skipping initialization")
		return s.records.Load(ctx)
	}

	now := time.Now().UTC()
	doc := domain.NewDocument(now)
	meta := func() domain.Meta {
		return domain.Meta{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	}

	for _, c := range defaultCategories {
		doc.Categories = append(doc.Categories, domain.Category{
			Meta:  meta(),
			Name:  c.name,
			Type:  c.kind,
			Color: c.color,
			Icon:  c.icon,
		})
	}
	for _, a := range defaultAccounts {
		doc.Accounts = append(doc.Accounts, domain.Account{
			Meta:           meta(),
			Name:           a.name,
			Type:           a.kind,
			OpeningBalance: decimal.Zero,
			CurrencyCode:   currency,
		})
	}

	if err := s.records.Save(ctx, doc); err != nil {
		return nil, err
	}
	s.logger.Info("Document initialized with defaults",
		slog.Int("categories", len(doc.Categories)),
		slog.Int("accounts", len(doc.Accounts)),
		slog.String("currency", currency))
	return doc, nil
}

// CompleteSetup applies the onboarding choices: opening balances (given as
// user-typed strings, keyed by account name) and currency. Every balance is
// parsed before anything is mutated, so a bad value leaves the document
// untouched. Finishing marks onboarding complete.
func (s *SeedService) CompleteSetup(ctx context.Context, currency string, openingBalances map[string]string) error {
	parsed := make(map[string]decimal.Decimal, len(openingBalances))
	for name, raw := range openingBalances {
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("%w: opening balance for %q is not a number: %q", apperrors.ErrValidation, name, raw)
		}
		parsed[name] = value
	}

	doc, err := s.records.Load(ctx)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for i := range doc.Accounts {
		account := &doc.Accounts[i]
		if currency != "" {
			account.CurrencyCode = currency
		}
		if value, ok := parsed[account.Name]; ok {
			account.OpeningBalance = value
		}
		account.UpdatedAt = now
	}

	if err := s.records.Save(ctx, doc); err != nil {
		return err
	}
	return s.MarkOnboardingComplete(ctx)
}

// OnboardingComplete reports whether setup has finished. Read failures count
// as not complete, matching the degrade-to-empty-state policy.
func (s *SeedService) OnboardingComplete(ctx context.Context) bool {
	value, err := s.records.Backend().Get(ctx, store.KeyOnboardingComplete)
	if err != nil {
		return false
	}
	return string(value) == "true"
}

func (s *SeedService) MarkOnboardingComplete(ctx context.Context) error {
	if err := s.records.Backend().Set(ctx, store.KeyOnboardingComplete, []byte("true")); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageWrite, err)
	}
	return nil
}
