package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"bizspese/internal/core"
)

// WalletSummary is the budget view of one calendar month. The wallet is
// modelled as a prepaid balance: WalletAmount sums every entry ever made
// and RemainingAmount subtracts every expense ever made, while the
// per-month figures only look at expenses dated inside the month.
type WalletSummary struct {
	Month           int               `json:"month"`
	Year            int               `json:"year"`
	WalletAmount    core.Money        `json:"walletAmount"`
	TotalExpenses   core.Money        `json:"totalExpenses"`
	AllTimeExpenses core.Money        `json:"allTimeExpenses"`
	RemainingAmount core.Money        `json:"remainingAmount"`
	ExpenseCount    int               `json:"expenseCount"`
	AverageExpense  core.Money        `json:"averageExpense"`
	PercentageUsed  core.Percent      `json:"percentageUsed"`
	DailyAverage    core.Money        `json:"dailyAverage"`
	ProjectedTotal  core.Money        `json:"projectedTotal"`
	DaysInMonth     int               `json:"daysInMonth"`
	DaysPassed      int               `json:"daysPassed"`
	DaysLeft        int               `json:"daysLeft"`
	CurrentEntry    *core.WalletEntry `json:"currentEntry"`
}

// Summarize computes the summary of month m as seen at now. The calendar
// zone is now.Location().
func Summarize(entries []core.WalletEntry, expenses []core.Expense, m core.Month, now time.Time) WalletSummary {
	loc := now.Location()
	s := WalletSummary{
		Month:        int(m.Month),
		Year:         m.Year,
		DaysInMonth:  m.Days(),
		CurrentEntry: CurrentEntry(entries),
	}

	for _, w := range entries {
		s.WalletAmount = s.WalletAmount.Add(w.Amount)
	}
	start, end := m.Start(loc), m.End(loc)
	for _, e := range expenses {
		s.AllTimeExpenses = s.AllTimeExpenses.Add(e.Amount)
		if !e.Date.Before(start) && e.Date.Before(end) {
			s.TotalExpenses = s.TotalExpenses.Add(e.Amount)
			s.ExpenseCount++
		}
	}
	s.RemainingAmount = s.WalletAmount.Sub(s.AllTimeExpenses)

	total := s.TotalExpenses.Decimal()
	if s.ExpenseCount > 0 {
		s.AverageExpense = core.MoneyFromDecimal(total.Div(decimal.NewFromInt(int64(s.ExpenseCount))))
	}
	s.PercentageUsed = core.PercentOf(s.TotalExpenses, s.WalletAmount)

	current := core.MonthOf(now)
	switch m.Compare(current) {
	case 0:
		s.DaysPassed = now.Day()
		s.DaysLeft = s.DaysInMonth - now.Day()
	case 1:
		// not-yet-started months average over the full month, like closed ones
		s.DaysPassed = s.DaysInMonth
		s.DaysLeft = s.DaysInMonth
	default:
		s.DaysPassed = s.DaysInMonth
	}

	daily := total.Div(decimal.NewFromInt(int64(s.DaysPassed)))
	s.DailyAverage = core.MoneyFromDecimal(daily)
	if m.Compare(current) == 0 {
		s.ProjectedTotal = core.MoneyFromDecimal(daily.Mul(decimal.NewFromInt(int64(s.DaysInMonth))))
	} else {
		s.ProjectedTotal = s.TotalExpenses
	}
	return s
}

// CurrentEntry returns the most recently updated wallet entry, or nil.
// Ties on UpdatedAt go to the later CreatedAt, then the greater id.
func CurrentEntry(entries []core.WalletEntry) *core.WalletEntry {
	var cur *core.WalletEntry
	for i := range entries {
		w := &entries[i]
		if cur == nil || newerEntry(w, cur) {
			cur = w
		}
	}
	if cur == nil {
		return nil
	}
	out := *cur
	return &out
}

func newerEntry(a, b *core.WalletEntry) bool {
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}
