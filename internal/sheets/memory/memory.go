package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"bizspese/internal/sheets"
)

// Mirror is an in-process sheets.ExpenseMirror, used when no spreadsheet is
// configured and in tests.
type Mirror struct {
	mu   sync.Mutex
	rows []sheets.ExpenseRow
}

var _ sheets.ExpenseMirror = (*Mirror)(nil)

func New() *Mirror {
	return &Mirror{}
}

// UpsertExpense stores the row and returns a synthetic 1-based row reference
// that counts the header.
func (m *Mirror) UpsertExpense(_ context.Context, r sheets.ExpenseRow) (string, error) {
	if r.ID == "" {
		return "", fmt.Errorf("upsert expense row: missing id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexOf(r.ID); i >= 0 {
		m.rows[i] = r
		return fmt.Sprintf("mem:%d", i+2), nil
	}
	m.rows = append(m.rows, r)
	return fmt.Sprintf("mem:%d", len(m.rows)+1), nil
}

func (m *Mirror) DeleteExpense(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexOf(id); i >= 0 {
		m.rows = slices.Delete(m.rows, i, i+1)
	}
	return nil
}

// Rows returns a copy of the mirrored rows in sheet order.
func (m *Mirror) Rows() []sheets.ExpenseRow {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.rows)
}

func (m *Mirror) indexOf(id string) int {
	return slices.IndexFunc(m.rows, func(r sheets.ExpenseRow) bool { return r.ID == id })
}
