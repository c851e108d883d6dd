package analytics

import (
	"time"

	"bizspese/internal/core"
)

func ptr[T any](v T) *T { return &v }

func cents(c int64) core.Money { return core.Money{Cents: c} }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

var (
	catTravel = core.Category{ID: "c-travel", Name: "Travel", Color: "#10b981", IsActive: true}
	catOffice = core.Category{ID: "c-office", Name: "Office Supplies", Color: "#3b82f6", IsActive: true}
	catOld    = core.Category{ID: "c-old", Name: "Legacy", Color: "#6b7280", IsActive: false}
)

type expenseOpt func(*core.Expense)

func withVendor(v string) expenseOpt { return func(e *core.Expense) { e.Vendor = &v } }

func expense(id, desc string, amount int64, cat string, date time.Time, opts ...expenseOpt) core.Expense {
	e := core.Expense{
		ID:          id,
		Description: desc,
		Amount:      cents(amount),
		CategoryID:  cat,
		Date:        date,
		CreatedAt:   date,
		UpdatedAt:   date,
	}
	for _, o := range opts {
		o(&e)
	}
	return e
}

func withCategories(expenses []core.Expense, cats ...core.Category) []core.ExpenseWithCategory {
	byID := map[string]core.Category{}
	for _, c := range cats {
		byID[c.ID] = c
	}
	out := make([]core.ExpenseWithCategory, len(expenses))
	for i, e := range expenses {
		out[i].Expense = e
		if c, ok := byID[e.CategoryID]; ok {
			out[i].Category = &c
		}
	}
	return out
}

func ids(items []core.ExpenseWithCategory) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
