package analytics

import (
	"cmp"
	"slices"
	"strings"

	"bizspese/internal/core"
)

// SortExpenses orders items in place by spec. The sort is stable, so items
// comparing equal keep their input order in both directions.
func SortExpenses(items []core.ExpenseWithCategory, spec core.SortSpec) {
	slices.SortStableFunc(items, func(a, b core.ExpenseWithCategory) int {
		c := compareBy(spec.Key, a, b)
		if spec.Order == core.Descending {
			return -c
		}
		return c
	})
}

func compareBy(key core.SortKey, a, b core.ExpenseWithCategory) int {
	switch key {
	case core.SortByAmount:
		return cmp.Compare(a.Amount.Cents, b.Amount.Cents)
	case core.SortByDescription:
		return strings.Compare(strings.ToLower(a.Description), strings.ToLower(b.Description))
	case core.SortByCategory:
		return strings.Compare(strings.ToLower(a.CategoryName()), strings.ToLower(b.CategoryName()))
	default:
		return a.Date.Compare(b.Date)
	}
}
