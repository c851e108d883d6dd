package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizspese/internal/core"
)

func TestAnalyticsService_WalletSummary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Date(2024, 3, 15, 11, 0, 0, 0, rome))
	cat := f.category(t, "Office Supplies")

	_, err := f.wallet.Create(ctx, WalletInput{Amount: money(t, "10000")})
	require.NoError(t, err)
	f.expense(t, cat.ID, "Paper", "100", time.Date(2024, 3, 2, 10, 0, 0, 0, rome))
	f.expense(t, cat.ID, "Toner", "150", time.Date(2024, 3, 10, 10, 0, 0, 0, rome))
	f.expense(t, cat.ID, "Chair", "150", time.Date(2024, 3, 14, 10, 0, 0, 0, rome))
	f.expense(t, cat.ID, "Desk", "600", time.Date(2024, 2, 20, 10, 0, 0, 0, rome))

	s, err := f.analytics.WalletSummary(ctx, 2024, 3)
	require.NoError(t, err)

	assert.Equal(t, "10000.00", s.WalletAmount.String())
	assert.Equal(t, "400.00", s.TotalExpenses.String())
	assert.Equal(t, "1000.00", s.AllTimeExpenses.String())
	assert.Equal(t, "9000.00", s.RemainingAmount.String())
	assert.Equal(t, 3, s.ExpenseCount)
	assert.Equal(t, "133.33", s.AverageExpense.String())
	assert.Equal(t, "4.00", s.PercentageUsed.String())
	assert.Equal(t, 31, s.DaysInMonth)
	assert.Equal(t, 15, s.DaysPassed)
	assert.Equal(t, 16, s.DaysLeft)
	require.NotNil(t, s.CurrentEntry)
}

func TestAnalyticsService_WalletSummaryValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Date(2024, 3, 15, 11, 0, 0, 0, rome))

	_, err := f.analytics.WalletSummary(ctx, 2024, 13)
	assert.ErrorIs(t, err, core.ErrInvalidMonth)
	_, err = f.analytics.WalletSummary(ctx, 99, 3)
	assert.ErrorIs(t, err, core.ErrInvalidYear)
}

func TestAnalyticsService_CategoryBreakdown(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Date(2024, 3, 15, 11, 0, 0, 0, rome))
	travel := f.category(t, "Travel")
	office := f.category(t, "Office Supplies")
	old := f.category(t, "Old")
	gone := f.category(t, "Gone")

	f.expense(t, travel.ID, "Train", "75", time.Date(2024, 3, 1, 0, 30, 0, 0, rome))
	f.expense(t, office.ID, "Paper", "25", time.Date(2024, 3, 31, 23, 30, 0, 0, rome))
	f.expense(t, office.ID, "Pens", "50", time.Date(2024, 2, 29, 23, 30, 0, 0, rome))
	f.expense(t, old.ID, "Fax", "500", time.Date(2024, 3, 5, 0, 0, 0, 0, rome))
	f.expense(t, gone.ID, "Lost", "500", time.Date(2024, 3, 5, 0, 0, 0, 0, rome))
	require.NoError(t, f.categories.Deactivate(ctx, old.ID))
	f.store.ForgetCategory(gone.ID)

	month, err := core.NewMonth(2024, 3)
	require.NoError(t, err)
	rows, err := f.analytics.CategoryBreakdown(ctx, &month)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Travel", rows[0].Name)
	assert.Equal(t, "75.00", rows[0].TotalAmount.String())
	assert.Equal(t, "75.00", rows[0].Percentage.String())
	assert.Equal(t, "Office Supplies", rows[1].Name)
	assert.Equal(t, "25.00", rows[1].Percentage.String())
	assert.Equal(t, 1, rows[1].ExpenseCount)

	rows, err = f.analytics.CategoryBreakdown(ctx, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Office Supplies", rows[0].Name)
	assert.Equal(t, "75.00", rows[0].TotalAmount.String())
	assert.Equal(t, 2, rows[0].ExpenseCount)
	assert.Equal(t, "50.00", rows[0].Percentage.String())
	assert.Equal(t, "Travel", rows[1].Name, "ties on total are ordered by name")
}

func TestAnalyticsService_ExpenseTrends(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Date(2024, 3, 15, 11, 0, 0, 0, rome))
	cat := f.category(t, "Travel")

	f.expense(t, cat.ID, "Today", "10", time.Date(2024, 3, 15, 9, 0, 0, 0, rome))
	f.expense(t, cat.ID, "Today again", "5.50", time.Date(2024, 3, 15, 0, 0, 0, 0, rome))
	f.expense(t, cat.ID, "First day", "7", time.Date(2024, 3, 9, 0, 0, 0, 0, rome))
	f.expense(t, cat.ID, "Too early", "99", time.Date(2024, 3, 8, 23, 59, 0, 0, rome))

	series, err := f.analytics.ExpenseTrends(ctx, 7)
	require.NoError(t, err)
	require.Len(t, series, 7)
	assert.Equal(t, "2024-03-09", series[0].Date)
	assert.Equal(t, "7.00", series[0].Amount.String())
	assert.Equal(t, "0.00", series[1].Amount.String())
	assert.Equal(t, "2024-03-15", series[6].Date)
	assert.Equal(t, "15.50", series[6].Amount.String())

	_, err = f.analytics.ExpenseTrends(ctx, 0)
	assert.ErrorIs(t, err, core.ErrInvalidDays)
	_, err = f.analytics.ExpenseTrends(ctx, core.MaxTrendDays+1)
	assert.ErrorIs(t, err, core.ErrInvalidDays)
}
