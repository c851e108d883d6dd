package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizspese/internal/core"
)

func TestPaginate(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	tests := []struct {
		page core.Page
		want []int
	}{
		{core.Page{Limit: 3, Offset: 0}, []int{0, 1, 2}},
		{core.Page{Limit: 3, Offset: 8}, []int{8, 9}},
		{core.Page{Limit: 3, Offset: 10}, []int{}},
		{core.Page{Limit: 3, Offset: 50}, []int{}},
		{core.Page{Limit: 0, Offset: 2}, []int{}},
		{core.AllRows, items},
		{core.Page{Limit: core.NoLimit, Offset: 7}, []int{7, 8, 9}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("limit=%d,offset=%d", tt.page.Limit, tt.page.Offset), func(t *testing.T) {
			got := Paginate(items, tt.page)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHasMore(t *testing.T) {
	assert.True(t, HasMore(0, 3, 10))
	assert.True(t, HasMore(6, 3, 10))
	assert.False(t, HasMore(7, 3, 10))
	assert.False(t, HasMore(20, 0, 10))
	assert.False(t, HasMore(0, 0, 0))
}

func TestQueryTotalIgnoresPagination(t *testing.T) {
	var exps []core.Expense
	for i := 0; i < 12; i++ {
		exps = append(exps, expense(fmt.Sprintf("e%02d", i), "coffee", int64(100+i), catTravel.ID, day(2025, 2, i+1)))
	}
	exps = append(exps, expense("other", "hotel", 9000, catTravel.ID, day(2025, 2, 20)))
	items := withCategories(exps, catTravel)

	f := core.ExpenseFilter{Search: "coffee"}
	for _, page := range []core.Page{{Limit: 5}, {Limit: 5, Offset: 5}, {Limit: 5, Offset: 10}, {Limit: 50, Offset: 40}} {
		rows, total := Query(items, core.ExpenseQuery{Filter: f, Page: page})
		assert.Equal(t, 12, total)
		assert.LessOrEqual(t, len(rows), 5)
		assert.Equal(t, page.Offset+len(rows) < total, HasMore(page.Offset, len(rows), total))
	}

	rows, _ := Query(items, core.ExpenseQuery{Filter: f, Sort: core.SortSpec{Key: core.SortByAmount, Order: core.Ascending}, Page: core.Page{Limit: 2, Offset: 10}})
	assert.Equal(t, []string{"e10", "e11"}, ids(rows))

	// the caller's slice is left in input order
	assert.Equal(t, "e00", items[0].ID)
}

func TestQueryAfterCursor(t *testing.T) {
	first := expense("b-first", "taxi", 100, catTravel.ID, day(2025, 3, 5))
	second := expense("a-second", "train", 200, catTravel.ID, day(2025, 3, 5))
	second.CreatedAt = first.CreatedAt.Add(time.Minute)
	items := withCategories([]core.Expense{
		second,
		expense("late", "hotel", 300, catTravel.ID, day(2025, 3, 9)),
		first,
		expense("early", "coffee", 50, catTravel.ID, day(2025, 3, 1)),
	}, catTravel)

	oldest := core.SortSpec{Key: core.SortByDate, Order: core.Ascending}
	rows, _ := Query(items, core.ExpenseQuery{Sort: oldest, Page: core.AllRows, After: &core.ExpenseKey{}})
	assert.Equal(t, []string{"early", "b-first", "a-second", "late"}, ids(rows))

	after := core.KeyOf(first)
	rows, total := Query(items, core.ExpenseQuery{Sort: oldest, Page: core.Page{Limit: 1}, After: &after})
	assert.Equal(t, []string{"a-second"}, ids(rows))
	assert.Equal(t, 2, total)
}
