// Package memory is an in-process store.Store kept in insertion-ordered
// slices behind a mutex. It backs development runs and tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"bizspese/internal/analytics"
	"bizspese/internal/core"
	"bizspese/internal/store"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	mu         sync.RWMutex
	categories []core.Category
	wallet     []core.WalletEntry
	expenses   []core.Expense
}

func New() *Store {
	return &Store{}
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func (s *Store) ListCategories(_ context.Context, activeOnly bool) ([]core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Category, 0, len(s.categories))
	for _, c := range s.categories {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	slices.SortStableFunc(out, func(a, b core.Category) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (s *Store) GetCategory(_ context.Context, id string) (core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.categoryIndex(id)
	if i < 0 {
		return core.Category{}, fmt.Errorf("category %s: %w", id, core.ErrNotFound)
	}
	return s.categories[i], nil
}

func (s *Store) CreateCategory(_ context.Context, c core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.categoryIndex(c.ID) >= 0 {
		return fmt.Errorf("category id %s: %w", c.ID, core.ErrConflict)
	}
	if s.nameTaken(c.Name, c.ID) {
		return fmt.Errorf("category name %q: %w", c.Name, core.ErrConflict)
	}
	s.categories = append(s.categories, c)
	return nil
}

func (s *Store) UpdateCategory(_ context.Context, c core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.categoryIndex(c.ID)
	if i < 0 {
		return fmt.Errorf("category %s: %w", c.ID, core.ErrNotFound)
	}
	if s.nameTaken(c.Name, c.ID) {
		return fmt.Errorf("category name %q: %w", c.Name, core.ErrConflict)
	}
	s.categories[i] = c
	return nil
}

func (s *Store) ListWalletEntries(context.Context) ([]core.WalletEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.wallet), nil
}

func (s *Store) GetWalletEntry(_ context.Context, id string) (core.WalletEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.wallet, func(w core.WalletEntry) bool { return w.ID == id })
	if i < 0 {
		return core.WalletEntry{}, fmt.Errorf("wallet entry %s: %w", id, core.ErrNotFound)
	}
	return s.wallet[i], nil
}

func (s *Store) CreateWalletEntry(_ context.Context, w core.WalletEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.ContainsFunc(s.wallet, func(x core.WalletEntry) bool { return x.ID == w.ID }) {
		return fmt.Errorf("wallet entry %s: %w", w.ID, core.ErrConflict)
	}
	s.wallet = append(s.wallet, w)
	return nil
}

func (s *Store) UpdateWalletEntry(_ context.Context, w core.WalletEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.wallet, func(x core.WalletEntry) bool { return x.ID == w.ID })
	if i < 0 {
		return fmt.Errorf("wallet entry %s: %w", w.ID, core.ErrNotFound)
	}
	s.wallet[i] = w
	return nil
}

func (s *Store) DeleteWalletEntry(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.wallet, func(x core.WalletEntry) bool { return x.ID == id })
	if i < 0 {
		return fmt.Errorf("wallet entry %s: %w", id, core.ErrNotFound)
	}
	s.wallet = slices.Delete(s.wallet, i, i+1)
	return nil
}

func (s *Store) ListExpenses(_ context.Context, q core.ExpenseQuery) ([]core.ExpenseWithCategory, error) {
	s.mu.RLock()
	joined := s.joinedLocked()
	s.mu.RUnlock()
	rows, _ := analytics.Query(joined, q)
	return rows, nil
}

func (s *Store) CountExpenses(_ context.Context, f core.ExpenseFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, e := range s.expenses {
		if analytics.Match(e, f) {
			n++
		}
	}
	return n, nil
}

func (s *Store) GetExpense(_ context.Context, id string) (core.ExpenseWithCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.expenseIndex(id)
	if i < 0 {
		return core.ExpenseWithCategory{}, fmt.Errorf("expense %s: %w", id, core.ErrNotFound)
	}
	return s.joinLocked(s.expenses[i]), nil
}

func (s *Store) CreateExpense(_ context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.expenseIndex(e.ID) >= 0 {
		return fmt.Errorf("expense %s: %w", e.ID, core.ErrConflict)
	}
	if s.categoryIndex(e.CategoryID) < 0 {
		return fmt.Errorf("%w: %s", core.ErrUnknownCategory, e.CategoryID)
	}
	s.expenses = append(s.expenses, e)
	return nil
}

func (s *Store) UpdateExpense(_ context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.expenseIndex(e.ID)
	if i < 0 {
		return fmt.Errorf("expense %s: %w", e.ID, core.ErrNotFound)
	}
	if s.categoryIndex(e.CategoryID) < 0 {
		return fmt.Errorf("%w: %s", core.ErrUnknownCategory, e.CategoryID)
	}
	s.expenses[i] = e
	return nil
}

func (s *Store) DeleteExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.expenseIndex(id)
	if i < 0 {
		return fmt.Errorf("expense %s: %w", id, core.ErrNotFound)
	}
	s.expenses = slices.Delete(s.expenses, i, i+1)
	return nil
}

// ForgetCategory physically drops a category while leaving its expenses in
// place. The API never does this; it exists so tests can reproduce rows
// whose category reference no longer resolves.
func (s *Store) ForgetCategory(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.categoryIndex(id); i >= 0 {
		s.categories = slices.Delete(s.categories, i, i+1)
	}
}

func (s *Store) categoryIndex(id string) int {
	return slices.IndexFunc(s.categories, func(c core.Category) bool { return c.ID == id })
}

func (s *Store) expenseIndex(id string) int {
	return slices.IndexFunc(s.expenses, func(e core.Expense) bool { return e.ID == id })
}

func (s *Store) nameTaken(name, exceptID string) bool {
	return slices.ContainsFunc(s.categories, func(c core.Category) bool {
		return c.Name == name && c.ID != exceptID
	})
}

func (s *Store) joinedLocked() []core.ExpenseWithCategory {
	out := make([]core.ExpenseWithCategory, len(s.expenses))
	for i, e := range s.expenses {
		out[i] = s.joinLocked(e)
	}
	return out
}

func (s *Store) joinLocked(e core.Expense) core.ExpenseWithCategory {
	row := core.ExpenseWithCategory{Expense: e}
	if i := s.categoryIndex(e.CategoryID); i >= 0 {
		c := s.categories[i]
		row.Category = &c
	}
	return row
}
