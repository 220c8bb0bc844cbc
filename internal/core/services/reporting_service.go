package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/khatapp/khata/internal/apperrors"
	"github.com/khatapp/khata/internal/core/domain"
	"github.com/khatapp/khata/internal/store"
	"github.com/khatapp/khata/internal/utils/ledger"
)

// ReportingService answers the derived-state questions the UI asks: account
// balances, period totals, category breakdowns, budget positions and the
// filtered transaction view. It holds no state of its own; every answer is
// recomputed from the current document.
type ReportingService struct {
	records *store.RecordStore
}

func NewReportingService(records *store.RecordStore) *ReportingService {
	return &ReportingService{records: records}
}

func (s *ReportingService) AccountBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	doc, err := s.records.Load(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	balance, found := ledger.AccountBalance(doc, accountID)
	if !found {
		return decimal.Zero, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return balance, nil
}

func (s *ReportingService) TotalBalance(ctx context.Context) (decimal.Decimal, error) {
	doc, err := s.records.Load(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return ledger.TotalBalance(doc), nil
}

func (s *ReportingService) MonthlyTotals(ctx context.Context, month string) (ledger.MonthlyTotals, error) {
	doc, err := s.records.Load(ctx)
	if err != nil {
		return ledger.MonthlyTotals{}, err
	}
	return ledger.TotalsForMonth(doc, month), nil
}

func (s *ReportingService) CategoryBreakdown(ctx context.Context, month string, kind domain.TransactionType, topN int) ([]ledger.CategoryTotal, error) {
	doc, err := s.records.Load(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.CategoryBreakdown(doc, month, kind, topN), nil
}

func (s *ReportingService) FilteredTransactions(ctx context.Context, filter ledger.Filter) ([]domain.Transaction, error) {
	doc, err := s.records.Load(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.FilterTransactions(doc, filter), nil
}

func (s *ReportingService) BudgetStatuses(ctx context.Context, month string) ([]ledger.BudgetStatus, error) {
	doc, err := s.records.Load(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.BudgetStatuses(doc, month), nil
}

// MonthlyReport bundles the numbers one report screen needs.
type MonthlyReport struct {
	Month            string                 `json:"month"`
	Totals           ledger.MonthlyTotals   `json:"totals"`
	ExpenseBreakdown []ledger.CategoryTotal `json:"expenseBreakdown"`
	IncomeBreakdown  []ledger.CategoryTotal `json:"incomeBreakdown"`
	TransactionCount int                    `json:"transactionCount"`
}

func (s *ReportingService) MonthlyReport(ctx context.Context, month string, topN int) (MonthlyReport, error) {
	doc, err := s.records.Load(ctx)
	if err != nil {
		return MonthlyReport{}, err
	}
	count := 0
	for _, t := range doc.Transactions {
		if t.Month() == month {
			count++
		}
	}
	return MonthlyReport{
		Month:            month,
		Totals:           ledger.TotalsForMonth(doc, month),
		ExpenseBreakdown: ledger.CategoryBreakdown(doc, month, domain.TypeExpense, topN),
		IncomeBreakdown:  ledger.CategoryBreakdown(doc, month, domain.TypeIncome, topN),
		TransactionCount: count,
	}, nil
}
