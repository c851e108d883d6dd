package sheets

import (
	"context"
	"time"

	"bizspese/internal/core"
)

// Header is the first row of the mirror sheet; ExpenseRow.Values follows it.
var Header = []string{"ID", "Date", "Description", "Amount", "Category", "Vendor", "Notes"}

// ExpenseRow is the flat, spreadsheet-friendly form of an expense.
type ExpenseRow struct {
	ID          string
	Date        string
	Description string
	Amount      string
	Category    string
	Vendor      string
	Notes       string
}

func (r ExpenseRow) Values() []string {
	return []string{r.ID, r.Date, r.Description, r.Amount, r.Category, r.Vendor, r.Notes}
}

// RowFromExpense formats e with its calendar date taken in loc.
func RowFromExpense(e core.ExpenseWithCategory, loc *time.Location) ExpenseRow {
	return ExpenseRow{
		ID:          e.ID,
		Date:        e.Date.In(loc).Format(time.DateOnly),
		Description: e.Description,
		Amount:      e.Amount.String(),
		Category:    e.CategoryName(),
		Vendor:      deref(e.Vendor),
		Notes:       deref(e.Notes),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Ports for outbound adapters.
type (
	// ExpenseMirror keeps one row per expense id.
	ExpenseMirror interface {
		// UpsertExpense rewrites the row of r.ID, appending it when absent.
		UpsertExpense(ctx context.Context, r ExpenseRow) (rowRef string, err error)
		// DeleteExpense removes the row of id. Missing rows are not an error.
		DeleteExpense(ctx context.Context, id string) error
	}
)
