// Package storetest holds the behavioural contract every store.Store
// implementation must satisfy. Backends call Run from their own tests.
package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizspese/internal/core"
	"bizspese/internal/store"
)

// Factory returns an empty store. It is called once per subtest.
type Factory func(t *testing.T) store.Store

var base = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func Run(t *testing.T, newStore Factory) {
	t.Run("Categories", func(t *testing.T) { testCategories(t, newStore(t)) })
	t.Run("WalletEntries", func(t *testing.T) { testWalletEntries(t, newStore(t)) })
	t.Run("ExpenseCRUD", func(t *testing.T) { testExpenseCRUD(t, newStore(t)) })
	t.Run("ExpenseQuery", func(t *testing.T) { testExpenseQuery(t, newStore(t)) })
	t.Run("ExpenseSearchEscaping", func(t *testing.T) { testSearchEscaping(t, newStore(t)) })
	t.Run("MaximumAmounts", func(t *testing.T) { testMaximumAmounts(t, newStore(t)) })
	t.Run("ExpenseCursor", func(t *testing.T) { testExpenseCursor(t, newStore(t)) })
}

func strptr(s string) *string { return &s }

func category(id, name string, active bool) core.Category {
	return core.Category{ID: id, Name: name, Color: core.DefaultCategoryColor, IsActive: active}
}

func expense(n int, desc string, amount int64, categoryID string, date time.Time) core.Expense {
	created := base.Add(time.Duration(n) * time.Minute)
	return core.Expense{
		ID:          fmt.Sprintf("exp-%02d", n),
		Description: desc,
		Amount:      core.Money{Cents: amount},
		CategoryID:  categoryID,
		Date:        date,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func expenseIDs(rows []core.ExpenseWithCategory) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func testCategories(t *testing.T, s store.Store) {
	ctx := context.Background()

	require.NoError(t, s.CreateCategory(ctx, category("c1", "Travel", true)))
	withDesc := category("c2", "Utilities", true)
	withDesc.Description = strptr("Power and internet")
	require.NoError(t, s.CreateCategory(ctx, withDesc))
	require.NoError(t, s.CreateCategory(ctx, category("c3", "Legacy", false)))

	err := s.CreateCategory(ctx, category("c4", "Travel", true))
	assert.ErrorIs(t, err, core.ErrConflict)

	active, err := s.ListCategories(ctx, true)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	all, err := s.ListCategories(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 3)

	got, err := s.GetCategory(ctx, "c2")
	require.NoError(t, err)
	assert.Equal(t, withDesc, got)

	_, err = s.GetCategory(ctx, "nope")
	assert.ErrorIs(t, err, core.ErrNotFound)

	got.IsActive = false
	got.Description = nil
	require.NoError(t, s.UpdateCategory(ctx, got))
	reloaded, err := s.GetCategory(ctx, "c2")
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)
	assert.Nil(t, reloaded.Description)

	renamed := category("c3", "Travel", false)
	assert.ErrorIs(t, s.UpdateCategory(ctx, renamed), core.ErrConflict)
	assert.ErrorIs(t, s.UpdateCategory(ctx, category("missing", "X", true)), core.ErrNotFound)
}

func testWalletEntries(t *testing.T, s store.Store) {
	ctx := context.Background()

	w1 := core.WalletEntry{ID: "w1", Amount: core.Money{Cents: 500000}, CreatedAt: base, UpdatedAt: base}
	w2 := core.WalletEntry{ID: "w2", Amount: core.Money{Cents: 12345}, Description: strptr("Top-up"), CreatedAt: base.Add(time.Hour), UpdatedAt: base.Add(time.Hour)}
	require.NoError(t, s.CreateWalletEntry(ctx, w1))
	require.NoError(t, s.CreateWalletEntry(ctx, w2))

	entries, err := s.ListWalletEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "w1", entries[0].ID)
	assert.Equal(t, w2, entries[1])

	w1.Amount = core.Money{Cents: 1}
	w1.UpdatedAt = base.Add(2 * time.Hour)
	require.NoError(t, s.UpdateWalletEntry(ctx, w1))
	got, err := s.GetWalletEntry(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, w1, got)

	require.NoError(t, s.DeleteWalletEntry(ctx, "w2"))
	assert.ErrorIs(t, s.DeleteWalletEntry(ctx, "w2"), core.ErrNotFound)
	_, err = s.GetWalletEntry(ctx, "w2")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, s.UpdateWalletEntry(ctx, w2), core.ErrNotFound)
}

func testExpenseCRUD(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.CreateCategory(ctx, category("travel", "Travel", true)))
	require.NoError(t, s.CreateCategory(ctx, category("office", "Office Supplies", true)))

	e := expense(1, "Hotel Milano", 25050, "travel", time.Date(2025, 3, 4, 18, 30, 0, 0, time.UTC))
	e.Vendor = strptr("Hotel Centrale")
	e.Notes = strptr("two nights")
	require.NoError(t, s.CreateExpense(ctx, e))

	orphan := expense(2, "Ghost", 100, "missing", base)
	assert.ErrorIs(t, s.CreateExpense(ctx, orphan), core.ErrUnknownCategory)

	got, err := s.GetExpense(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e, got.Expense)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Travel", got.Category.Name)

	e.CategoryID = "office"
	e.Amount = core.Money{Cents: 4999}
	e.Vendor = nil
	e.UpdatedAt = base.Add(24 * time.Hour)
	require.NoError(t, s.UpdateExpense(ctx, e))
	got, err = s.GetExpense(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e, got.Expense)
	assert.Equal(t, "Office Supplies", got.Category.Name)

	bad := e
	bad.CategoryID = "missing"
	assert.ErrorIs(t, s.UpdateExpense(ctx, bad), core.ErrUnknownCategory)

	require.NoError(t, s.DeleteExpense(ctx, e.ID))
	assert.ErrorIs(t, s.DeleteExpense(ctx, e.ID), core.ErrNotFound)
	_, err = s.GetExpense(ctx, e.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, s.UpdateExpense(ctx, e), core.ErrNotFound)
}

func testMaximumAmounts(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.CreateCategory(ctx, category("travel", "Travel", true)))

	e := expense(1, "Fleet purchase", core.MaxAmountCents, "travel", base)
	require.NoError(t, s.CreateExpense(ctx, e))
	got, err := s.GetExpense(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, core.MaxAmountCents, got.Amount.Cents)

	w := core.WalletEntry{ID: "w1", Amount: core.Money{Cents: core.MaxAmountCents}, CreatedAt: base, UpdatedAt: base}
	require.NoError(t, s.CreateWalletEntry(ctx, w))
	gotW, err := s.GetWalletEntry(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, core.MaxAmountCents, gotW.Amount.Cents)
}

func testExpenseCursor(t *testing.T, s store.Store) {
	ctx := context.Background()
	seedQueryFixture(t, s)

	q := core.ExpenseQuery{Sort: core.SortSpec{Key: core.SortByDate, Order: core.Ascending}, Page: core.Page{Limit: 2}}
	var walked []string
	for {
		page, err := s.ListExpenses(ctx, q)
		require.NoError(t, err)
		walked = append(walked, expenseIDs(page)...)
		if len(page) < q.Page.Limit {
			break
		}
		if len(walked) == 2 {
			require.NoError(t, s.DeleteExpense(ctx, "exp-02"))
		}
		last := core.KeyOf(page[len(page)-1].Expense)
		q.After = &last
	}
	// exp-03 and exp-04 share a date and are split by creation order.
	assert.Equal(t, []string{"exp-02", "exp-05", "exp-01", "exp-03", "exp-04"}, walked)
}

func seedQueryFixture(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.CreateCategory(ctx, category("travel", "Travel", true)))
	require.NoError(t, s.CreateCategory(ctx, category("office", "office Supplies", true)))

	day := func(d int) time.Time { return time.Date(2025, 3, d, 12, 0, 0, 0, time.UTC) }
	rows := []core.Expense{
		expense(1, "Train to Rome", 4999, "travel", day(3)),
		expense(2, "paper", 5000, "office", day(1)),
		expense(3, "Taxi", 10000, "travel", day(5)),
		expense(4, "Toner", 10001, "office", day(5)),
		expense(5, "Coffee beans", 1250, "office", day(2)),
	}
	rows[0].Vendor = strptr("Trenitalia")
	rows[2].Vendor = strptr("Radio Taxi Roma")
	for _, e := range rows {
		require.NoError(t, s.CreateExpense(ctx, e))
	}
}

func testExpenseQuery(t *testing.T, s store.Store) {
	ctx := context.Background()
	seedQueryFixture(t, s)
	asc := func(k core.SortKey) core.SortSpec { return core.SortSpec{Key: k, Order: core.Ascending} }
	desc := func(k core.SortKey) core.SortSpec { return core.SortSpec{Key: k, Order: core.Descending} }
	start := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		query core.ExpenseQuery
		want  []string
		total int
	}{
		{"default newest first", core.ExpenseQuery{Page: core.AllRows}, []string{"exp-03", "exp-04", "exp-01", "exp-05", "exp-02"}, 5},
		{"amount range inclusive", core.ExpenseQuery{
			Filter: core.ExpenseFilter{MinAmount: &core.Money{Cents: 5000}, MaxAmount: &core.Money{Cents: 10000}},
			Sort:   asc(core.SortByAmount), Page: core.AllRows,
		}, []string{"exp-02", "exp-03"}, 2},
		{"search description or vendor case-insensitive", core.ExpenseQuery{Filter: core.ExpenseFilter{Search: "ROM"}, Sort: asc(core.SortByDate), Page: core.AllRows}, []string{"exp-01", "exp-03"}, 2},
		{"category filter", core.ExpenseQuery{Filter: core.ExpenseFilter{CategoryID: "office"}, Sort: asc(core.SortByDescription), Page: core.AllRows}, []string{"exp-05", "exp-02", "exp-04"}, 3},
		{"date range inclusive", core.ExpenseQuery{Filter: core.ExpenseFilter{StartDate: &start, EndDate: &end}, Sort: asc(core.SortByDate), Page: core.AllRows}, []string{"exp-05", "exp-01"}, 2},
		{"category name sort", core.ExpenseQuery{Sort: asc(core.SortByCategory), Page: core.AllRows}, []string{"exp-02", "exp-04", "exp-05", "exp-01", "exp-03"}, 5},
		{"category name sort desc keeps ties", core.ExpenseQuery{Sort: desc(core.SortByCategory), Page: core.AllRows}, []string{"exp-01", "exp-03", "exp-02", "exp-04", "exp-05"}, 5},
		{"date ties keep creation order", core.ExpenseQuery{Filter: core.ExpenseFilter{Search: "t"}, Sort: desc(core.SortByDate), Page: core.AllRows}, []string{"exp-03", "exp-04", "exp-01"}, 3},
		{"first page", core.ExpenseQuery{Sort: asc(core.SortByAmount), Page: core.Page{Limit: 2}}, []string{"exp-05", "exp-01"}, 5},
		{"last partial page", core.ExpenseQuery{Sort: asc(core.SortByAmount), Page: core.Page{Limit: 2, Offset: 4}}, []string{"exp-04"}, 5},
		{"offset past the end", core.ExpenseQuery{Page: core.Page{Limit: 2, Offset: 10}}, []string{}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := s.ListExpenses(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, expenseIDs(rows))

			total, err := s.CountExpenses(ctx, tt.query.Filter)
			require.NoError(t, err)
			assert.Equal(t, tt.total, total)
		})
	}

	rows, err := s.ListExpenses(ctx, core.ExpenseQuery{Filter: core.ExpenseFilter{Search: "train"}, Page: core.AllRows})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].Category)
	assert.Equal(t, "Travel", rows[0].Category.Name)
	assert.Equal(t, int64(4999), rows[0].Amount.Cents)
}

func testSearchEscaping(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.CreateCategory(ctx, category("misc", "Other", true)))
	require.NoError(t, s.CreateExpense(ctx, expense(1, "50% discount", 100, "misc", base)))
	require.NoError(t, s.CreateExpense(ctx, expense(2, "500 flyers", 100, "misc", base)))
	require.NoError(t, s.CreateExpense(ctx, expense(3, "snake_case", 100, "misc", base)))
	require.NoError(t, s.CreateExpense(ctx, expense(4, "snakescase", 100, "misc", base)))

	for search, want := range map[string][]string{
		"50%":     {"exp-01"},
		"e_c":     {"exp-03"},
		"500":     {"exp-02"},
		"nothing": {},
	} {
		rows, err := s.ListExpenses(ctx, core.ExpenseQuery{Filter: core.ExpenseFilter{Search: search}, Sort: core.SortSpec{Order: core.Ascending}, Page: core.AllRows})
		require.NoError(t, err)
		assert.Equal(t, want, expenseIDs(rows), "search %q", search)
	}
}
