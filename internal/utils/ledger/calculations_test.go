package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khatapp/khata/internal/core/domain"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func strPtr(s string) *string { return &s }

func expense(id, accountID, categoryID, date string, amount int64) domain.Transaction {
	t := domain.Transaction{
		Meta:      domain.Meta{ID: id},
		Type:      domain.TypeExpense,
		AccountID: accountID,
		Amount:    dec(amount),
		Date:      date,
	}
	if categoryID != "" {
		t.CategoryID = strPtr(categoryID)
	}
	return t
}

func income(id, accountID, categoryID, date string, amount int64) domain.Transaction {
	t := expense(id, accountID, categoryID, date, amount)
	t.Type = domain.TypeIncome
	return t
}

func transfer(id, from, to, date string, amount int64) domain.Transaction {
	return domain.Transaction{
		Meta:        domain.Meta{ID: id},
		Type:        domain.TypeTransfer,
		AccountID:   from,
		AccountIDTo: strPtr(to),
		Amount:      dec(amount),
		Date:        date,
	}
}

func testDoc() *domain.Document {
	doc := domain.NewDocument(time.Now().UTC())
	doc.Accounts = []domain.Account{
		{Meta: domain.Meta{ID: "bank"}, Name: "Bank", Type: domain.AccountBank, OpeningBalance: dec(100)},
		{Meta: domain.Meta{ID: "cash"}, Name: "Cash", Type: domain.AccountCash, OpeningBalance: dec(0)},
		{Meta: domain.Meta{ID: "old"}, Name: "Closed", Type: domain.AccountOther, OpeningBalance: dec(999), IsArchived: true},
	}
	doc.Categories = []domain.Category{
		{Meta: domain.Meta{ID: "food"}, Name: "Food", Type: domain.CategoryExpense, Color: "#F97316"},
		{Meta: domain.Meta{ID: "rent"}, Name: "Rent", Type: domain.CategoryExpense, Color: "#3B82F6"},
		{Meta: domain.Meta{ID: "salary"}, Name: "Salary", Type: domain.CategoryIncome, Color: "#10B981"},
	}
	return doc
}

func TestContribution(t *testing.T) {
	inc := income("t1", "bank", "salary", "2024-03-01", 50)
	exp := expense("t2", "bank", "food", "2024-03-02", 20)
	tr := transfer("t3", "bank", "cash", "2024-03-03", 30)

	assert.True(t, Contribution(inc, "bank").Equal(dec(50)))
	assert.True(t, Contribution(exp, "bank").Equal(dec(-20)))
	assert.True(t, Contribution(tr, "bank").Equal(dec(-30)), "outgoing transfer leg")
	assert.True(t, Contribution(tr, "cash").Equal(dec(30)), "incoming transfer leg")
	assert.True(t, Contribution(inc, "cash").IsZero(), "unrelated account")

	self := transfer("t4", "bank", "bank", "2024-03-04", 10)
	assert.True(t, Contribution(self, "bank").IsZero(), "a self-transfer nets to zero")
}

func TestAccountBalance(t *testing.T) {
	doc := testDoc()
	doc.Transactions = []domain.Transaction{
		income("t1", "bank", "salary", "2024-03-01", 50),
		expense("t2", "bank", "food", "2024-03-02", 20),
	}

	balance, found := AccountBalance(doc, "bank")
	require.True(t, found)
	assert.True(t, balance.Equal(dec(130)), "100 + 50 - 20 = 130, got %s", balance)

	_, found = AccountBalance(doc, "ghost")
	assert.False(t, found)
}

func TestTransferMovesMoneyWithoutChangingTotal(t *testing.T) {
	doc := testDoc()
	doc.Transactions = []domain.Transaction{transfer("t1", "bank", "cash", "2024-03-01", 40)}

	bank, _ := AccountBalance(doc, "bank")
	cash, _ := AccountBalance(doc, "cash")
	assert.True(t, bank.Equal(dec(60)))
	assert.True(t, cash.Equal(dec(40)))
	assert.True(t, TotalBalance(doc).Equal(dec(100)), "a transfer never changes the total")
}

func TestTotalBalanceSkipsArchivedAccounts(t *testing.T) {
	doc := testDoc()
	assert.True(t, TotalBalance(doc).Equal(dec(100)), "the archived account's 999 must not count")
}

func TestTotalsForMonth(t *testing.T) {
	doc := testDoc()
	doc.Transactions = []domain.Transaction{
		income("t1", "bank", "salary", "2024-03-01", 500),
		expense("t2", "bank", "food", "2024-03-10", 120),
		transfer("t3", "bank", "cash", "2024-03-15", 1000),
		expense("t4", "bank", "food", "2024-04-01", 77),
	}

	totals := TotalsForMonth(doc, "2024-03")
	assert.True(t, totals.Income.Equal(dec(500)))
	assert.True(t, totals.Expense.Equal(dec(120)), "the transfer and the April expense must not count")
	assert.True(t, totals.Net.Equal(dec(380)))

	empty := TotalsForMonth(doc, "2024-01")
	assert.True(t, empty.Income.IsZero())
	assert.True(t, empty.Expense.IsZero())
}

func TestCategoryBreakdown(t *testing.T) {
	doc := testDoc()
	doc.Transactions = []domain.Transaction{
		expense("t1", "bank", "food", "2024-03-01", 30),
		expense("t2", "bank", "rent", "2024-03-02", 200),
		expense("t3", "bank", "food", "2024-03-03", 50),
		expense("t4", "bank", "", "2024-03-04", 999), // uncategorized
		income("t5", "bank", "salary", "2024-03-05", 500),
	}

	breakdown := CategoryBreakdown(doc, "2024-03", domain.TypeExpense, 0)
	require.Len(t, breakdown, 2, "uncategorized and income entries are excluded")
	assert.Equal(t, "rent", breakdown[0].CategoryID, "largest total first")
	assert.True(t, breakdown[0].Total.Equal(dec(200)))
	assert.Equal(t, "food", breakdown[1].CategoryID)
	assert.True(t, breakdown[1].Total.Equal(dec(80)))
	assert.Equal(t, "Rent", breakdown[0].Name)
	assert.Equal(t, "#3B82F6", breakdown[0].Color)

	top1 := CategoryBreakdown(doc, "2024-03", domain.TypeExpense, 1)
	require.Len(t, top1, 1)
	assert.Equal(t, "rent", top1[0].CategoryID)
}

func TestFilterTransactionsConjunction(t *testing.T) {
	doc := testDoc()
	doc.Transactions = []domain.Transaction{
		expense("t1", "bank", "food", "2024-03-01", 10),
		expense("t2", "cash", "food", "2024-03-05", 20),
		income("t3", "bank", "salary", "2024-03-10", 500),
	}

	both := FilterTransactions(doc, Filter{Type: domain.TypeExpense, AccountIDs: []string{"bank"}})
	require.Len(t, both, 1)
	assert.Equal(t, "t1", both[0].ID)

	// Dropping one of the two active filters can only widen the result.
	typeOnly := FilterTransactions(doc, Filter{Type: domain.TypeExpense})
	assert.GreaterOrEqual(t, len(typeOnly), len(both))
	accountOnly := FilterTransactions(doc, Filter{AccountIDs: []string{"bank"}})
	assert.GreaterOrEqual(t, len(accountOnly), len(both))
}

func TestFilterAccountSetMatchesEitherTransferLeg(t *testing.T) {
	doc := testDoc()
	doc.Transactions = []domain.Transaction{
		transfer("t1", "bank", "cash", "2024-03-01", 40),
		expense("t2", "old", "food", "2024-03-02", 5),
	}

	got := FilterTransactions(doc, Filter{AccountIDs: []string{"cash"}})
	require.Len(t, got, 1)
	assert.Equal(t, "t1", got[0].ID, "the incoming leg counts as a match")
}

func TestFilterDateRangeInclusive(t *testing.T) {
	doc := testDoc()
	doc.Transactions = []domain.Transaction{
		expense("t1", "bank", "food", "2024-03-01", 1),
		expense("t2", "bank", "food", "2024-03-15", 2),
		expense("t3", "bank", "food", "2024-03-31", 3),
	}

	got := FilterTransactions(doc, Filter{DateFrom: "2024-03-01", DateTo: "2024-03-15"})
	require.Len(t, got, 2)
	assert.Equal(t, "t1", got[0].ID)
	assert.Equal(t, "t2", got[1].ID)
}

func TestFilterTagsAndSearch(t *testing.T) {
	doc := testDoc()
	tagged := expense("t1", "bank", "food", "2024-03-01", 10)
	tagged.Tags = []string{"work", "lunch"}
	tagged.Note = "Team Lunch at cafe"
	other := expense("t2", "bank", "food", "2024-03-02", 20)
	other.Tags = []string{"home"}
	doc.Transactions = []domain.Transaction{tagged, other}

	byTag := FilterTransactions(doc, Filter{Tags: []string{"lunch", "travel"}})
	require.Len(t, byTag, 1, "tag membership is disjunctive within the set")
	assert.Equal(t, "t1", byTag[0].ID)

	bySearch := FilterTransactions(doc, Filter{Search: "CAFE"})
	require.Len(t, bySearch, 1, "note search is case-insensitive")

	byTagSearch := FilterTransactions(doc, Filter{Search: "home"})
	require.Len(t, byTagSearch, 1, "search also matches tags")
	assert.Equal(t, "t2", byTagSearch[0].ID)
}

func TestBudgetStatusRollover(t *testing.T) {
	doc := testDoc()
	doc.Budgets = []domain.Budget{
		{Meta: domain.Meta{ID: "b1"}, CategoryID: "food", Month: "2024-01", Amount: dec(100), Rollover: true},
		{Meta: domain.Meta{ID: "b2"}, CategoryID: "food", Month: "2024-02", Amount: dec(100), Rollover: true},
		{Meta: domain.Meta{ID: "b3"}, CategoryID: "food", Month: "2024-03", Amount: dec(100)},
	}
	doc.Transactions = []domain.Transaction{
		expense("t1", "bank", "food", "2024-01-10", 40),  // leaves 60
		expense("t2", "bank", "food", "2024-02-10", 200), // overspends: carry floors at 0
	}

	feb := BudgetStatuses(doc, "2024-02")
	require.Len(t, feb, 1)
	assert.True(t, feb[0].Carried.Equal(dec(60)))
	assert.True(t, feb[0].Spent.Equal(dec(200)))
	assert.True(t, feb[0].Remaining.Equal(dec(-40)), "100 + 60 - 200")

	mar := BudgetStatuses(doc, "2024-03")
	require.Len(t, mar, 1)
	assert.True(t, mar[0].Carried.IsZero(), "an overspent period carries nothing forward")
	assert.True(t, mar[0].Remaining.Equal(dec(100)))
}

func TestBudgetRolloverChainBrokenByNonRolloverPeriod(t *testing.T) {
	doc := testDoc()
	doc.Budgets = []domain.Budget{
		{Meta: domain.Meta{ID: "b1"}, CategoryID: "food", Month: "2024-01", Amount: dec(100), Rollover: true},
		{Meta: domain.Meta{ID: "b2"}, CategoryID: "food", Month: "2024-02", Amount: dec(100)}, // no rollover
		{Meta: domain.Meta{ID: "b3"}, CategoryID: "food", Month: "2024-03", Amount: dec(100), Rollover: true},
	}

	mar := BudgetStatuses(doc, "2024-03")
	require.Len(t, mar, 1)
	assert.True(t, mar[0].Carried.IsZero(), "February's non-rollover budget resets the chain")
}

func TestBudgetStatusesOnlyForRequestedMonth(t *testing.T) {
	doc := testDoc()
	doc.Budgets = []domain.Budget{
		{Meta: domain.Meta{ID: "b1"}, CategoryID: "food", Month: "2024-01", Amount: dec(100)},
		{Meta: domain.Meta{ID: "b2"}, CategoryID: "rent", Month: "2024-02", Amount: dec(300)},
	}

	got := BudgetStatuses(doc, "2024-02")
	require.Len(t, got, 1)
	assert.Equal(t, "b2", got[0].Budget.ID)
	assert.Empty(t, BudgetStatuses(doc, "2024-05"))
}
