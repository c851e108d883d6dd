package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"bizspese/internal/analytics"
	"bizspese/internal/core"
	applog "bizspese/internal/log"
	"bizspese/internal/store"
)

// AnalyticsStores is the read side the analytics need.
type AnalyticsStores interface {
	store.CategoryStore
	store.WalletStore
	store.ExpenseStore
}

// AnalyticsService loads inputs from the store and hands them to the pure
// analytics engine. Calendar logic runs in Options.Location.
type AnalyticsService struct {
	store  AnalyticsStores
	opts   Options
	logger *applog.Logger
	audit  *applog.StructuredLogger
}

func NewAnalyticsService(st AnalyticsStores, opts Options) *AnalyticsService {
	opts = opts.withDefaults()
	logger := opts.Logger.WithComponent(applog.ComponentAnalytics)
	return &AnalyticsService{
		store:  st,
		opts:   opts,
		logger: logger,
		audit:  applog.NewStructuredLogger(logger),
	}
}

func (s *AnalyticsService) now() time.Time {
	return s.opts.Clock().In(s.opts.Location)
}

// WalletSummary validates month and year before reading anything.
func (s *AnalyticsService) WalletSummary(ctx context.Context, year, month int) (analytics.WalletSummary, error) {
	m, err := core.NewMonth(year, month)
	if err != nil {
		return analytics.WalletSummary{}, err
	}

	var (
		entries []core.WalletEntry
		items   []core.ExpenseWithCategory
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = s.store.ListWalletEntries(gctx)
		if err != nil {
			return fmt.Errorf("list wallet entries: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		items, err = s.store.ListExpenses(gctx, core.ExpenseQuery{Page: core.AllRows})
		if err != nil {
			return fmt.Errorf("list expenses: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return analytics.WalletSummary{}, err
	}

	expenses, skipped := analytics.Resolved(items)
	s.logSkipped(ctx, applog.OpSummary, skipped)

	summary := analytics.Summarize(entries, expenses, m, s.now())
	s.logger.DebugContext(ctx, "Wallet summary computed", applog.NewFields().
		WithPeriod(year, month).
		WithOperation(applog.OpSummary).ToSlice()...)
	return summary, nil
}

// CategoryBreakdown aggregates all expenses, or those of month when set.
func (s *AnalyticsService) CategoryBreakdown(ctx context.Context, month *core.Month) ([]analytics.CategoryTotal, error) {
	q := core.ExpenseQuery{Page: core.AllRows}
	if month != nil {
		// superset of the month; InMonth applies the exact half-open bounds
		start, end := month.Start(s.opts.Location), month.End(s.opts.Location)
		q.Filter.StartDate, q.Filter.EndDate = &start, &end
	}

	var (
		cats  []core.Category
		items []core.ExpenseWithCategory
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cats, err = s.store.ListCategories(gctx, false)
		if err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		items, err = s.store.ListExpenses(gctx, q)
		if err != nil {
			return fmt.Errorf("list expenses: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	expenses := plainExpenses(items)
	if month != nil {
		expenses = analytics.InMonth(expenses, *month, s.opts.Location)
	}
	rows, skipped := analytics.CategoryBreakdown(expenses, cats)
	s.logSkipped(ctx, applog.OpBreakdown, skipped)
	return rows, nil
}

// ExpenseTrends returns the daily series for the last days days.
func (s *AnalyticsService) ExpenseTrends(ctx context.Context, days int) ([]analytics.TrendPoint, error) {
	if err := core.ValidateTrendDays(days); err != nil {
		return nil, err
	}
	now := s.now()
	start, end := analytics.TrendWindow(days, now)
	items, err := s.store.ListExpenses(ctx, core.ExpenseQuery{
		Filter: core.ExpenseFilter{StartDate: &start, EndDate: &end},
		Page:   core.AllRows,
	})
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	expenses, skipped := analytics.Resolved(items)
	s.logSkipped(ctx, applog.OpTrends, skipped)
	return analytics.ExpenseTrends(expenses, days, now), nil
}

func (s *AnalyticsService) logSkipped(ctx context.Context, op string, skipped []analytics.Skipped) {
	for _, sk := range skipped {
		s.audit.LogSkippedExpense(ctx, op, sk.ExpenseID, sk.CategoryID)
	}
}
