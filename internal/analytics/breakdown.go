package analytics

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"bizspese/internal/core"
)

type CategoryTotal struct {
	core.Category
	TotalAmount  core.Money   `json:"totalAmount"`
	Percentage   core.Percent `json:"percentage"`
	ExpenseCount int          `json:"expenseCount"`
}

// SkipReason explains why an expense was left out of an aggregation.
type SkipReason string

const SkipUnresolvedCategory SkipReason = "unresolved category"

type Skipped struct {
	ExpenseID  string
	CategoryID string
	Reason     SkipReason
}

// CategoryBreakdown groups expenses by category. Only active categories
// with at least one expense produce a row. Expenses referencing an unknown
// category are reported in the skipped list; expenses of inactive
// categories are left out silently. Percentages are relative to the sum of
// the returned rows. Rows are ordered by total descending, then by name and
// id ascending.
func CategoryBreakdown(expenses []core.Expense, categories []core.Category) ([]CategoryTotal, []Skipped) {
	byID := make(map[string]core.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	groups := make(map[string]*CategoryTotal)
	var skipped []Skipped
	var grand core.Money
	for _, e := range expenses {
		c, ok := byID[e.CategoryID]
		if !ok {
			skipped = append(skipped, Skipped{ExpenseID: e.ID, CategoryID: e.CategoryID, Reason: SkipUnresolvedCategory})
			continue
		}
		if !c.IsActive {
			continue
		}
		g, ok := groups[c.ID]
		if !ok {
			g = &CategoryTotal{Category: c}
			groups[c.ID] = g
		}
		g.TotalAmount = g.TotalAmount.Add(e.Amount)
		g.ExpenseCount++
		grand = grand.Add(e.Amount)
	}

	rows := make([]CategoryTotal, 0, len(groups))
	for _, g := range groups {
		g.Percentage = core.PercentOf(g.TotalAmount, grand)
		rows = append(rows, *g)
	}
	slices.SortFunc(rows, func(a, b CategoryTotal) int {
		if c := cmp.Compare(b.TotalAmount.Cents, a.TotalAmount.Cents); c != 0 {
			return c
		}
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return rows, skipped
}

// InMonth keeps the expenses dated inside month m, evaluated in loc.
func InMonth(expenses []core.Expense, m core.Month, loc *time.Location) []core.Expense {
	start, end := m.Start(loc), m.End(loc)
	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if !e.Date.Before(start) && e.Date.Before(end) {
			out = append(out, e)
		}
	}
	return out
}

// Resolved strips the category projection, dropping expenses whose
// category could not be resolved and reporting them as skipped.
func Resolved(items []core.ExpenseWithCategory) ([]core.Expense, []Skipped) {
	out := make([]core.Expense, 0, len(items))
	var skipped []Skipped
	for _, it := range items {
		if it.Category == nil {
			skipped = append(skipped, Skipped{ExpenseID: it.ID, CategoryID: it.CategoryID, Reason: SkipUnresolvedCategory})
			continue
		}
		out = append(out, it.Expense)
	}
	return out, skipped
}
