package analytics

import (
	"slices"

	"bizspese/internal/core"
)

// Paginate returns the window [offset, offset+limit) of items, clipped to
// the slice bounds. The result is never nil.
func Paginate[T any](items []T, page core.Page) []T {
	offset := max(page.Offset, 0)
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if page.Limit != core.NoLimit && offset+page.Limit < end {
		end = offset + max(page.Limit, 0)
	}
	return items[offset:end]
}

// HasMore reports whether rows exist beyond the returned page.
func HasMore(offset, returned, total int) bool {
	return offset+returned < total
}

// Query runs the filter, sort and pagination pipeline over an in-memory
// collection and also returns the filtered total. items is not modified.
// With a cursor the total counts only the rows after it.
func Query(items []core.ExpenseWithCategory, q core.ExpenseQuery) ([]core.ExpenseWithCategory, int) {
	matched := Filter(items, q.Filter)
	if q.After != nil {
		after := *q.After
		matched = slices.DeleteFunc(matched, func(e core.ExpenseWithCategory) bool {
			return core.KeyOf(e.Expense).Compare(after) <= 0
		})
		slices.SortFunc(matched, func(a, b core.ExpenseWithCategory) int {
			return core.KeyOf(a.Expense).Compare(core.KeyOf(b.Expense))
		})
	} else {
		SortExpenses(matched, q.Sort)
	}
	return Paginate(matched, q.Page), len(matched)
}
