package analytics

import (
	"time"

	"bizspese/internal/core"
)

const dayLayout = "2006-01-02"

type TrendPoint struct {
	Date   string     `json:"date"`
	Amount core.Money `json:"amount"`
}

// TrendWindow returns the half-open instant range [start, end) covering the
// last days calendar days up to and including the day of now.
func TrendWindow(days int, now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	loc := now.Location()
	return time.Date(y, m, d-days+1, 0, 0, 0, 0, loc), time.Date(y, m, d+1, 0, 0, 0, 0, loc)
}

// ExpenseTrends sums expenses per calendar day over the last days days,
// ending today in now's location. The series is ascending and has exactly
// days points; days without expenses are zero. days below 1 yields an
// empty series.
func ExpenseTrends(expenses []core.Expense, days int, now time.Time) []TrendPoint {
	if days < 1 {
		return []TrendPoint{}
	}
	loc := now.Location()
	y, m, d := now.Date()
	start := d - days + 1

	series := make([]TrendPoint, days)
	index := make(map[string]int, days)
	for i := range series {
		key := time.Date(y, m, start+i, 0, 0, 0, 0, loc).Format(dayLayout)
		series[i].Date = key
		index[key] = i
	}

	for _, e := range expenses {
		key := e.Date.In(loc).Format(dayLayout)
		if i, ok := index[key]; ok {
			series[i].Amount = series[i].Amount.Add(e.Amount)
		}
	}
	return series
}
