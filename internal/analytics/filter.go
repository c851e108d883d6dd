package analytics

import (
	"strings"

	"bizspese/internal/core"
)

// Match reports whether e satisfies every constraint set in f.
func Match(e core.Expense, f core.ExpenseFilter) bool {
	if f.Search != "" && !matchesSearch(e, strings.ToLower(f.Search)) {
		return false
	}
	if f.CategoryID != "" && e.CategoryID != f.CategoryID {
		return false
	}
	if f.StartDate != nil && e.Date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && e.Date.After(*f.EndDate) {
		return false
	}
	if f.MinAmount != nil && e.Amount.Cents < f.MinAmount.Cents {
		return false
	}
	if f.MaxAmount != nil && e.Amount.Cents > f.MaxAmount.Cents {
		return false
	}
	return true
}

func matchesSearch(e core.Expense, needle string) bool {
	if strings.Contains(strings.ToLower(e.Description), needle) {
		return true
	}
	return e.Vendor != nil && strings.Contains(strings.ToLower(*e.Vendor), needle)
}

// Filter returns the items matching f, preserving their order.
func Filter(items []core.ExpenseWithCategory, f core.ExpenseFilter) []core.ExpenseWithCategory {
	out := make([]core.ExpenseWithCategory, 0, len(items))
	for _, it := range items {
		if Match(it.Expense, f) {
			out = append(out, it)
		}
	}
	return out
}

// Count is len(Filter(items, f)) without the allocation.
func Count(items []core.ExpenseWithCategory, f core.ExpenseFilter) int {
	n := 0
	for _, it := range items {
		if Match(it.Expense, f) {
			n++
		}
	}
	return n
}
