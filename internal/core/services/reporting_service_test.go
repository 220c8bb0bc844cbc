package services_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khatapp/khata/internal/apperrors"
	"github.com/khatapp/khata/internal/core/domain"
	"github.com/khatapp/khata/internal/core/services"
	"github.com/khatapp/khata/internal/query"
	"github.com/khatapp/khata/internal/store"
)

// TestFreshInstallLifecycle walks the whole first-run story: seed, record a
// salary and a grocery run, then check every derived number.
func TestFreshInstallLifecycle(t *testing.T) {
	ctx := context.Background()
	records := store.NewRecordStore(store.NewMemoryStore(), discardLogger())
	engine := query.NewEngine(records, discardLogger())
	seeder := services.NewSeedService(records, discardLogger())
	reporting := services.NewReportingService(records)

	doc, err := seeder.Initialize(ctx, "BDT")
	require.NoError(t, err)

	var bank, salaryCat, foodCat string
	for _, a := range doc.Accounts {
		if a.Type == domain.AccountBank {
			bank = a.ID
		}
	}
	for _, c := range doc.Categories {
		switch c.Name {
		case "Salary":
			salaryCat = c.ID
		case "Groceries":
			foodCat = c.ID
		}
	}
	require.NotEmpty(t, bank)
	require.NotEmpty(t, salaryCat)
	require.NotEmpty(t, foodCat)

	post := func(body map[string]any) {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		resp := engine.Do(ctx, query.Request{Path: "/transactions", Method: http.MethodPost, Body: raw})
		require.Equal(t, http.StatusCreated, resp.Status, resp.Err)
	}
	post(map[string]any{
		"type": "income", "accountId": bank, "categoryId": salaryCat,
		"amount": 500, "currencyCode": "BDT", "date": "2024-03-01",
	})
	post(map[string]any{
		"type": "expense", "accountId": bank, "categoryId": foodCat,
		"amount": 120, "currencyCode": "BDT", "date": "2024-03-08",
	})

	balance, err := reporting.AccountBalance(ctx, bank)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(380)), "0 + 500 - 120, got %s", balance)

	total, err := reporting.TotalBalance(ctx)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(380)), "only the bank account holds money")

	report, err := reporting.MonthlyReport(ctx, "2024-03", 0)
	require.NoError(t, err)
	assert.True(t, report.Totals.Income.Equal(decimal.NewFromInt(500)))
	assert.True(t, report.Totals.Expense.Equal(decimal.NewFromInt(120)))
	assert.Equal(t, 2, report.TransactionCount)
	require.Len(t, report.ExpenseBreakdown, 1)
	assert.Equal(t, "Groceries", report.ExpenseBreakdown[0].Name)
	require.Len(t, report.IncomeBreakdown, 1)
	assert.Equal(t, "Salary", report.IncomeBreakdown[0].Name)

	empty, err := reporting.MonthlyTotals(ctx, "2024-04")
	require.NoError(t, err)
	assert.True(t, empty.Income.IsZero())
}

func TestAccountBalanceUnknownAccount(t *testing.T) {
	records := store.NewRecordStore(store.NewMemoryStore(), discardLogger())
	reporting := services.NewReportingService(records)

	_, err := reporting.AccountBalance(context.Background(), "no-such-account")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
