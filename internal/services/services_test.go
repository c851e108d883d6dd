package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bizspese/internal/amqp"
	"bizspese/internal/core"
	"bizspese/internal/store/memory"
)

// steppingClock advances one second per reading so creation order is
// observable in timestamps.
type steppingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(time.Second)
	return t
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*amqp.ExpenseEvent
	err    error
}

func (p *recordingPublisher) PublishExpenseEvent(_ context.Context, ev *amqp.ExpenseEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []amqp.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]amqp.EventType, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%03d", prefix, n)
	}
}

var rome = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		panic(err)
	}
	return loc
}()

type fixture struct {
	store     *memory.Store
	publisher *recordingPublisher
	opts      Options

	categories *CategoryService
	wallet     *WalletService
	expenses   *ExpenseService
	analytics  *AnalyticsService
}

func newFixture(t *testing.T, start time.Time) *fixture {
	t.Helper()
	clock := &steppingClock{now: start}
	f := &fixture{
		store:     memory.New(),
		publisher: &recordingPublisher{},
		opts: Options{
			Clock:    clock.Now,
			NewID:    sequentialIDs("id"),
			Location: rome,
		},
	}
	f.categories = NewCategoryService(f.store, f.opts)
	f.wallet = NewWalletService(f.store, f.opts)
	f.expenses = NewExpenseService(f.store, f.publisher, f.opts)
	f.analytics = NewAnalyticsService(f.store, f.opts)
	return f
}

func (f *fixture) category(t *testing.T, name string) core.Category {
	t.Helper()
	c, err := f.categories.Create(context.Background(), CategoryInput{Name: name})
	require.NoError(t, err)
	return c
}

func (f *fixture) expense(t *testing.T, categoryID, desc, amount string, date time.Time) core.ExpenseWithCategory {
	t.Helper()
	e, err := f.expenses.Create(context.Background(), ExpenseInput{
		Description: desc,
		Amount:      money(t, amount),
		CategoryID:  categoryID,
		Date:        date,
	})
	require.NoError(t, err)
	return e
}

func money(t *testing.T, s string) core.Money {
	t.Helper()
	cents, err := core.ParseNonNegativeCents(s)
	require.NoError(t, err)
	return core.Money{Cents: cents}
}

func ptr[T any](v T) *T { return &v }

var errBroker = errors.New("broker unavailable")
