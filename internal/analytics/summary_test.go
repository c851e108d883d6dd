package analytics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizspese/internal/core"
)

func wallet(id string, amount int64, updated time.Time) core.WalletEntry {
	return core.WalletEntry{ID: id, Amount: cents(amount), CreatedAt: updated, UpdatedAt: updated}
}

func TestSummarizeScenario(t *testing.T) {
	entries := []core.WalletEntry{
		wallet("w1", 600000, day(2025, 1, 1)),
		wallet("w2", 400000, day(2025, 2, 1)),
	}
	expenses := []core.Expense{
		expense("e1", "a", 10000, catTravel.ID, day(2025, 3, 3)),
		expense("e2", "b", 25050, catTravel.ID, day(2025, 3, 4)),
		expense("e3", "c", 4950, catOffice.ID, day(2025, 3, 5)),
		expense("prev", "d", 7000, catOffice.ID, day(2025, 2, 20)),
	}
	march, _ := core.NewMonth(2025, 3)
	now := time.Date(2025, 5, 2, 9, 0, 0, 0, time.UTC)

	s := Summarize(entries, expenses, march, now)

	assert.Equal(t, int64(1000000), s.WalletAmount.Cents)
	assert.Equal(t, int64(40000), s.TotalExpenses.Cents)
	assert.Equal(t, 3, s.ExpenseCount)
	assert.Equal(t, int64(13333), s.AverageExpense.Cents)
	assert.Equal(t, "4.00", s.PercentageUsed.String())
	// the February expense still reduces the remaining balance
	assert.Equal(t, int64(47000), s.AllTimeExpenses.Cents)
	assert.Equal(t, int64(1000000-47000), s.RemainingAmount.Cents)
	require.NotNil(t, s.CurrentEntry)
	assert.Equal(t, "w2", s.CurrentEntry.ID)
}

func TestSummarizeZeroWallet(t *testing.T) {
	march, _ := core.NewMonth(2025, 3)
	s := Summarize(nil, []core.Expense{expense("e", "x", 5000, catTravel.ID, day(2025, 3, 3))}, march, day(2025, 4, 1))

	assert.True(t, s.PercentageUsed.Decimal().IsZero())
	assert.Equal(t, int64(-5000), s.RemainingAmount.Cents)
	assert.Nil(t, s.CurrentEntry)
}

func TestSummarizeNoExpenses(t *testing.T) {
	march, _ := core.NewMonth(2025, 3)
	s := Summarize([]core.WalletEntry{wallet("w", 1000, day(2025, 1, 1))}, nil, march, day(2025, 3, 15))

	assert.Zero(t, s.ExpenseCount)
	assert.Zero(t, s.AverageExpense.Cents)
	assert.Zero(t, s.DailyAverage.Cents)
	assert.Zero(t, s.ProjectedTotal.Cents)
}

func TestSummarizeDays(t *testing.T) {
	march, _ := core.NewMonth(2025, 3)
	expenses := []core.Expense{expense("e", "x", 10000, catTravel.ID, day(2025, 3, 1))}

	t.Run("current month", func(t *testing.T) {
		s := Summarize(nil, expenses, march, time.Date(2025, 3, 3, 18, 0, 0, 0, time.UTC))
		assert.Equal(t, 31, s.DaysInMonth)
		assert.Equal(t, 3, s.DaysPassed)
		assert.Equal(t, 28, s.DaysLeft)
		assert.Equal(t, int64(3333), s.DailyAverage.Cents)
		// projected from the unrounded daily average
		assert.Equal(t, int64(103333), s.ProjectedTotal.Cents)
	})

	t.Run("past month", func(t *testing.T) {
		s := Summarize(nil, expenses, march, day(2025, 6, 1))
		assert.Equal(t, 31, s.DaysPassed)
		assert.Equal(t, 0, s.DaysLeft)
		assert.Equal(t, int64(323), s.DailyAverage.Cents)
		assert.Equal(t, int64(10000), s.ProjectedTotal.Cents)
	})

	t.Run("future month", func(t *testing.T) {
		s := Summarize(nil, expenses, march, day(2025, 1, 10))
		assert.Equal(t, 31, s.DaysPassed)
		assert.Equal(t, 31, s.DaysLeft)
		assert.Equal(t, s.TotalExpenses, s.ProjectedTotal)
	})
}

func TestSummarizeUsesLocationOfNow(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skip("tzdata not available")
	}
	march, _ := core.NewMonth(2025, 3)
	// 2025-02-28 16:00 UTC is already 1 March in Tokyo
	e := expense("e", "x", 1000, catTravel.ID, time.Date(2025, 2, 28, 16, 0, 0, 0, time.UTC))

	s := Summarize(nil, []core.Expense{e}, march, time.Date(2025, 3, 2, 0, 0, 0, 0, tokyo))
	assert.Equal(t, 1, s.ExpenseCount)
	assert.Equal(t, 2, s.DaysPassed)

	s = Summarize(nil, []core.Expense{e}, march, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 0, s.ExpenseCount)
}

func TestSummarizeIsDeterministic(t *testing.T) {
	entries := []core.WalletEntry{wallet("w1", 12345, day(2025, 1, 1))}
	expenses := []core.Expense{
		expense("e1", "a", 333, catTravel.ID, day(2025, 3, 3)),
		expense("e2", "b", 667, catTravel.ID, day(2025, 3, 4)),
	}
	march, _ := core.NewMonth(2025, 3)
	now := day(2025, 3, 20)

	first, err := json.Marshal(Summarize(entries, expenses, march, now))
	require.NoError(t, err)
	second, err := json.Marshal(Summarize(entries, expenses, march, now))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
	assert.Contains(t, string(first), `"totalExpenses":10.00`)
}

func TestCurrentEntry(t *testing.T) {
	older := wallet("a", 100, day(2025, 1, 1))
	newer := wallet("b", 200, day(2025, 1, 1))
	newer.UpdatedAt = day(2025, 2, 1)

	got := CurrentEntry([]core.WalletEntry{newer, older})
	require.NotNil(t, got)
	assert.Equal(t, "b", got.ID)
	assert.Nil(t, CurrentEntry(nil))
}
