// Package ledger holds the pure derived-state calculations: balances, period
// totals, category aggregates and the filtered transaction view. Everything
// here is a side-effect-free fold over loaded collections, recomputed from
// scratch on demand.
package ledger

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/khatapp/khata/internal/core/domain"
)

// Contribution is the signed effect of one transaction on one account:
// income +, expense -, outgoing transfer leg -, incoming transfer leg +,
// otherwise zero. A degenerate self-transfer nets to zero rather than
// counting either leg.
func Contribution(t domain.Transaction, accountID string) decimal.Decimal {
	if t.Type == domain.TypeTransfer && t.AccountIDTo != nil &&
		t.AccountID == accountID && *t.AccountIDTo == accountID {
		return decimal.Zero
	}

	if t.AccountID == accountID {
		switch t.Type {
		case domain.TypeIncome:
			return t.Amount
		case domain.TypeExpense, domain.TypeTransfer:
			return t.Amount.Neg()
		}
	}
	if t.Type == domain.TypeTransfer && t.AccountIDTo != nil && *t.AccountIDTo == accountID {
		return t.Amount
	}
	return decimal.Zero
}

// AccountBalance folds the whole transaction collection over the account's
// opening balance. The bool reports whether the account exists.
func AccountBalance(doc *domain.Document, accountID string) (decimal.Decimal, bool) {
	account, found := doc.AccountByID(accountID)
	if !found {
		return decimal.Zero, false
	}
	balance := account.OpeningBalance
	for _, t := range doc.Transactions {
		balance = balance.Add(Contribution(t, accountID))
	}
	return balance, true
}

// TotalBalance sums account balances over all non-archived accounts.
func TotalBalance(doc *domain.Document) decimal.Decimal {
	total := decimal.Zero
	for _, account := range doc.Accounts {
		if account.IsArchived {
			continue
		}
		balance, _ := AccountBalance(doc, account.ID)
		total = total.Add(balance)
	}
	return total
}

// MonthlyTotals are the income and expense sums for one YYYY-MM period.
// Transfers never contribute, whatever period they fall in.
type MonthlyTotals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// TotalsForMonth computes the totals for the given period.
func TotalsForMonth(doc *domain.Document, month string) MonthlyTotals {
	totals := MonthlyTotals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, t := range doc.Transactions {
		if t.Month() != month {
			continue
		}
		switch t.Type {
		case domain.TypeIncome:
			totals.Income = totals.Income.Add(t.Amount)
		case domain.TypeExpense:
			totals.Expense = totals.Expense.Add(t.Amount)
		}
	}
	totals.Net = totals.Income.Sub(totals.Expense)
	return totals
}

// CategoryTotal is one slice of a period's category breakdown.
type CategoryTotal struct {
	CategoryID string          `json:"categoryId"`
	Name       string          `json:"name"`
	Color      string          `json:"color"`
	Total      decimal.Decimal `json:"total"`
}

// CategoryBreakdown groups one period's transactions of the given kind by
// category, sorted descending by summed amount (stable on ties). topN > 0
// truncates the result.
func CategoryBreakdown(doc *domain.Document, month string, kind domain.TransactionType, topN int) []CategoryTotal {
	sums := map[string]decimal.Decimal{}
	var order []string
	for _, t := range doc.Transactions {
		if t.Month() != month || t.Type != kind || t.CategoryID == nil {
			continue
		}
		id := *t.CategoryID
		if _, seen := sums[id]; !seen {
			order = append(order, id)
		}
		sums[id] = sums[id].Add(t.Amount)
	}

	out := make([]CategoryTotal, 0, len(order))
	for _, id := range order {
		entry := CategoryTotal{CategoryID: id, Total: sums[id]}
		if category, found := doc.CategoryByID(id); found {
			entry.Name = category.Name
			entry.Color = category.Color
		}
		out = append(out, entry)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// Filter is the transaction-view filter. All filter kinds are conjunctive;
// within the account, category and tag sets, membership is disjunctive.
type Filter struct {
	Type        domain.TransactionType
	AccountIDs  []string
	CategoryIDs []string
	DateFrom    string
	DateTo      string
	Tags        []string
	Search      string
}

// FilterTransactions applies every active filter in sequence. Removing any
// one active filter can only widen the result.
func FilterTransactions(doc *domain.Document, f Filter) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(doc.Transactions))
	for _, t := range doc.Transactions {
		if matches(t, f) {
			out = append(out, t)
		}
	}
	return out
}

func matches(t domain.Transaction, f Filter) bool {
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if len(f.AccountIDs) > 0 {
		hit := contains(f.AccountIDs, t.AccountID) ||
			(t.AccountIDTo != nil && contains(f.AccountIDs, *t.AccountIDTo))
		if !hit {
			return false
		}
	}
	if len(f.CategoryIDs) > 0 {
		if t.CategoryID == nil || !contains(f.CategoryIDs, *t.CategoryID) {
			return false
		}
	}
	if f.DateFrom != "" && t.Date < f.DateFrom {
		return false
	}
	if f.DateTo != "" && t.Date > f.DateTo {
		return false
	}
	if len(f.Tags) > 0 {
		hit := false
		for _, tag := range f.Tags {
			if contains(t.Tags, tag) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		hit := strings.Contains(strings.ToLower(t.Note), q)
		for _, tag := range t.Tags {
			if hit {
				break
			}
			hit = strings.Contains(strings.ToLower(tag), q)
		}
		if !hit {
			return false
		}
	}
	return true
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// BudgetStatus is one budget's position within its period: what was spent,
// what rolled over from earlier periods, and what remains.
type BudgetStatus struct {
	Budget    domain.Budget   `json:"budget"`
	Spent     decimal.Decimal `json:"spent"`
	Carried   decimal.Decimal `json:"carried"`
	Remaining decimal.Decimal `json:"remaining"`
}

// BudgetStatuses computes the status of every budget in the given period.
// Rollover carries the unused part (floored at zero) forward through earlier
// budgets of the same category, in period order, for budgets with the flag.
func BudgetStatuses(doc *domain.Document, month string) []BudgetStatus {
	out := []BudgetStatus{}
	for _, budget := range doc.Budgets {
		if budget.Month != month {
			continue
		}
		carried := carriedOver(doc, budget.CategoryID, month)
		spent := spentInPeriod(doc, budget.CategoryID, month)
		out = append(out, BudgetStatus{
			Budget:    budget,
			Spent:     spent,
			Carried:   carried,
			Remaining: budget.Amount.Add(carried).Sub(spent),
		})
	}
	return out
}

func carriedOver(doc *domain.Document, categoryID, month string) decimal.Decimal {
	earlier := []domain.Budget{}
	for _, b := range doc.Budgets {
		if b.CategoryID == categoryID && b.Month < month {
			earlier = append(earlier, b)
		}
	}
	sort.SliceStable(earlier, func(i, j int) bool { return earlier[i].Month < earlier[j].Month })

	carry := decimal.Zero
	for _, b := range earlier {
		if !b.Rollover {
			carry = decimal.Zero
			continue
		}
		remaining := b.Amount.Add(carry).Sub(spentInPeriod(doc, categoryID, b.Month))
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		carry = remaining
	}
	return carry
}

func spentInPeriod(doc *domain.Document, categoryID, month string) decimal.Decimal {
	spent := decimal.Zero
	for _, t := range doc.Transactions {
		if t.Type != domain.TypeExpense || t.Month() != month {
			continue
		}
		if t.CategoryID == nil || *t.CategoryID != categoryID {
			continue
		}
		spent = spent.Add(t.Amount)
	}
	return spent
}
