package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"bizspese/internal/amqp"
	"bizspese/internal/analytics"
	"bizspese/internal/core"
	applog "bizspese/internal/log"
	"bizspese/internal/store"
)

type ExpenseInput struct {
	Description string     `json:"description"`
	Amount      core.Money `json:"amount"`
	CategoryID  string     `json:"categoryId"`
	Vendor      string     `json:"vendor"`
	Date        time.Time  `json:"date"`
	ReceiptPath string     `json:"receiptPath"`
	Notes       string     `json:"notes"`
}

// ExpensePage is one page of a filtered listing plus the filtered total.
type ExpensePage struct {
	Expenses   []core.ExpenseWithCategory `json:"expenses"`
	TotalCount int                        `json:"totalCount"`
	HasMore    bool                       `json:"hasMore"`
}

// ExpenseStores is the subset of store.Store the expense use cases need.
type ExpenseStores interface {
	store.ExpenseStore
	store.CategoryStore
}

// ExpenseService orchestrates expense writes and publishes a change event
// after each successful one.
type ExpenseService struct {
	store     ExpenseStores
	publisher EventPublisher
	opts      Options
	logger    *applog.Logger
}

// NewExpenseService wires the store and an optional event publisher (nil
// disables events).
func NewExpenseService(st ExpenseStores, publisher EventPublisher, opts Options) *ExpenseService {
	opts = opts.withDefaults()
	return &ExpenseService{
		store:     st,
		publisher: publisher,
		opts:      opts,
		logger:    opts.Logger.WithComponent(applog.ComponentExpense),
	}
}

// List runs the page query and the total count concurrently.
func (s *ExpenseService) List(ctx context.Context, q core.ExpenseQuery) (ExpensePage, error) {
	if err := q.Validate(); err != nil {
		return ExpensePage{}, err
	}

	var (
		rows  []core.ExpenseWithCategory
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.store.ListExpenses(gctx, q)
		if err != nil {
			return fmt.Errorf("list expenses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		total, err = s.store.CountExpenses(gctx, q.Filter)
		if err != nil {
			return fmt.Errorf("count expenses: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return ExpensePage{}, err
	}

	if rows == nil {
		rows = []core.ExpenseWithCategory{}
	}
	return ExpensePage{
		Expenses:   rows,
		TotalCount: total,
		HasMore:    analytics.HasMore(q.Page.Offset, len(rows), total),
	}, nil
}

func (s *ExpenseService) Get(ctx context.Context, id string) (core.ExpenseWithCategory, error) {
	return s.store.GetExpense(ctx, id)
}

func (s *ExpenseService) Create(ctx context.Context, in ExpenseInput) (core.ExpenseWithCategory, error) {
	now := s.opts.stamp()
	e := core.Expense{
		ID:          s.opts.NewID(),
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount,
		CategoryID:  strings.TrimSpace(in.CategoryID),
		Vendor:      core.OptionalString(in.Vendor),
		Date:        in.Date.UTC(),
		ReceiptPath: core.OptionalString(in.ReceiptPath),
		Notes:       core.OptionalString(in.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := e.Validate(); err != nil {
		return core.ExpenseWithCategory{}, err
	}
	cat, err := s.resolveCategory(ctx, e.CategoryID, true)
	if err != nil {
		return core.ExpenseWithCategory{}, err
	}
	if err := s.store.CreateExpense(ctx, e); err != nil {
		return core.ExpenseWithCategory{}, fmt.Errorf("save expense: %w", err)
	}

	s.logger.InfoContext(ctx, "Expense created", applog.NewFields().
		WithExpense(e.ID, e.CategoryID, e.Amount.String()).
		WithOperation(applog.OpCreate).ToSlice()...)
	s.publish(ctx, amqp.ExpenseCreated, e.ID)

	return core.ExpenseWithCategory{Expense: e, Category: &cat}, nil
}

func (s *ExpenseService) Update(ctx context.Context, id string, u core.ExpenseUpdate) (core.ExpenseWithCategory, error) {
	current, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return core.ExpenseWithCategory{}, err
	}
	next := u.Apply(current.Expense, s.opts.stamp())
	if err := next.Validate(); err != nil {
		return core.ExpenseWithCategory{}, err
	}
	cat, err := s.resolveCategory(ctx, next.CategoryID, next.CategoryID != current.CategoryID)
	if err != nil {
		return core.ExpenseWithCategory{}, err
	}
	if err := s.store.UpdateExpense(ctx, next); err != nil {
		return core.ExpenseWithCategory{}, fmt.Errorf("update expense: %w", err)
	}

	s.logger.InfoContext(ctx, "Expense updated", applog.NewFields().
		WithExpense(next.ID, next.CategoryID, next.Amount.String()).
		WithOperation(applog.OpUpdate).ToSlice()...)
	s.publish(ctx, amqp.ExpenseUpdated, id)

	return core.ExpenseWithCategory{Expense: next, Category: &cat}, nil
}

// Delete hard-deletes an expense.
func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Expense deleted", applog.FieldExpenseID, id, applog.FieldOperation, applog.OpDelete)
	s.publish(ctx, amqp.ExpenseDeleted, id)
	return nil
}

// resolveCategory loads the expense's category. New expenses and moves
// must target an active category; an expense already filed under a
// deactivated one can still be edited in place.
func (s *ExpenseService) resolveCategory(ctx context.Context, id string, requireActive bool) (core.Category, error) {
	cat, err := s.store.GetCategory(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		return core.Category{}, fmt.Errorf("%w: %s", core.ErrUnknownCategory, id)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("resolve category: %w", err)
	}
	if requireActive && !cat.IsActive {
		return core.Category{}, fmt.Errorf("%w: category %s is inactive", core.ErrUnknownCategory, id)
	}
	return cat, nil
}

// publish never fails the caller: the write already succeeded.
func (s *ExpenseService) publish(ctx context.Context, t amqp.EventType, id string) {
	if s.publisher == nil {
		s.logger.DebugContext(ctx, "AMQP publisher not configured, skipping event", applog.FieldEventType, t, applog.FieldExpenseID, id)
		return
	}
	if err := s.publisher.PublishExpenseEvent(ctx, amqp.NewExpenseEvent(t, id)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish expense event",
			applog.FieldEventType, t,
			applog.FieldExpenseID, id,
			applog.FieldError, err)
	}
}
