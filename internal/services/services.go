// Package services implements the use cases behind the HTTP API on top of
// the store ports: validation, id and timestamp assignment, change events
// and the analytics read models.
package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"bizspese/internal/amqp"
	"bizspese/internal/core"
	applog "bizspese/internal/log"
)

// EventPublisher is satisfied by *amqp.Client.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, ev *amqp.ExpenseEvent) error
}

// Clock returns the current instant. Tests replace it with a fixed time.
type Clock func() time.Time

// Options carries the collaborators shared by every service. Zero values
// fall back to the system clock, random UUIDs, the local zone and a
// discarding logger.
type Options struct {
	Clock    Clock
	NewID    func() string
	Location *time.Location
	Logger   *applog.Logger
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Logger == nil {
		o.Logger = applog.Discard()
	}
	return o
}

// stamp is the persisted form of "now": UTC at microsecond precision, which
// every backend round-trips exactly.
func (o Options) stamp() time.Time {
	return o.Clock().UTC().Truncate(time.Microsecond)
}

func plainExpenses(items []core.ExpenseWithCategory) []core.Expense {
	out := make([]core.Expense, len(items))
	for i, it := range items {
		out[i] = it.Expense
	}
	return out
}
