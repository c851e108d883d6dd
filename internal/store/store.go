// Package store declares the persistence ports of the expense tracker.
//
// Categories are listed by name. Wallet entries, and expenses before any
// requested sort is applied, come back in creation order (created_at, then
// id), so stable sorts agree across backends.
//
// Lookups of missing rows return core.ErrNotFound, duplicate category names
// core.ErrConflict, and expenses referencing a missing category
// core.ErrUnknownCategory.
package store

import (
	"context"

	"bizspese/internal/core"
)

type (
	CategoryStore interface {
		ListCategories(ctx context.Context, activeOnly bool) ([]core.Category, error)
		GetCategory(ctx context.Context, id string) (core.Category, error)
		CreateCategory(ctx context.Context, c core.Category) error
		UpdateCategory(ctx context.Context, c core.Category) error
	}

	WalletStore interface {
		ListWalletEntries(ctx context.Context) ([]core.WalletEntry, error)
		GetWalletEntry(ctx context.Context, id string) (core.WalletEntry, error)
		CreateWalletEntry(ctx context.Context, w core.WalletEntry) error
		UpdateWalletEntry(ctx context.Context, w core.WalletEntry) error
		DeleteWalletEntry(ctx context.Context, id string) error
	}

	ExpenseStore interface {
		// ListExpenses applies the filter, sort and page of q.
		ListExpenses(ctx context.Context, q core.ExpenseQuery) ([]core.ExpenseWithCategory, error)
		// CountExpenses counts the rows matching f, ignoring pagination.
		CountExpenses(ctx context.Context, f core.ExpenseFilter) (int, error)
		GetExpense(ctx context.Context, id string) (core.ExpenseWithCategory, error)
		CreateExpense(ctx context.Context, e core.Expense) error
		UpdateExpense(ctx context.Context, e core.Expense) error
		DeleteExpense(ctx context.Context, id string) error
	}

	// Store is the full capability set a backend provides.
	Store interface {
		CategoryStore
		WalletStore
		ExpenseStore
		Ping(ctx context.Context) error
		Close() error
	}
)
