package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bizspese/internal/core"
)

func sortFixture() []core.ExpenseWithCategory {
	return withCategories([]core.Expense{
		expense("a", "banana", 300, catTravel.ID, day(2025, 1, 2)),
		expense("b", "Apple", 100, catOffice.ID, day(2025, 1, 3)),
		expense("c", "cherry", 300, "missing", day(2025, 1, 1)),
		expense("d", "apple", 200, catTravel.ID, day(2025, 1, 2)),
	}, catTravel, catOffice)
}

func TestSortExpenses(t *testing.T) {
	tests := []struct {
		spec core.SortSpec
		want []string
	}{
		{core.SortSpec{Key: core.SortByDate, Order: core.Ascending}, []string{"c", "a", "d", "b"}},
		{core.SortSpec{Key: core.SortByDate, Order: core.Descending}, []string{"b", "a", "d", "c"}},
		{core.SortSpec{Key: core.SortByAmount, Order: core.Ascending}, []string{"b", "d", "a", "c"}},
		{core.SortSpec{Key: core.SortByAmount, Order: core.Descending}, []string{"a", "c", "d", "b"}},
		{core.SortSpec{Key: core.SortByDescription, Order: core.Ascending}, []string{"b", "d", "a", "c"}},
		{core.SortSpec{Key: core.SortByDescription, Order: core.Descending}, []string{"c", "a", "b", "d"}},
		// unresolved category sorts as ""
		{core.SortSpec{Key: core.SortByCategory, Order: core.Ascending}, []string{"c", "b", "a", "d"}},
		{core.SortSpec{Key: core.SortByCategory, Order: core.Descending}, []string{"a", "d", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.spec.Key.String()+"_"+tt.spec.Order.String(), func(t *testing.T) {
			items := sortFixture()
			SortExpenses(items, tt.spec)
			assert.Equal(t, tt.want, ids(items))
		})
	}
}

func TestSortDefaultIsNewestFirst(t *testing.T) {
	items := sortFixture()
	SortExpenses(items, core.SortSpec{})
	assert.Equal(t, "b", items[0].ID)
}

func TestSortIsStable(t *testing.T) {
	same := day(2025, 5, 5)
	var exps []core.Expense
	for _, id := range []string{"1", "2", "3", "4", "5"} {
		exps = append(exps, expense(id, "same", 500, catTravel.ID, same))
	}
	for _, spec := range []core.SortSpec{
		{Key: core.SortByDate, Order: core.Descending},
		{Key: core.SortByAmount, Order: core.Ascending},
		{Key: core.SortByCategory, Order: core.Descending},
	} {
		items := withCategories(exps, catTravel)
		SortExpenses(items, spec)
		assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(items))
	}
}
