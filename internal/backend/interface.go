// Package backend builds the persistence stack selected by DATA_BACKEND,
// plus the optional AMQP client shared by the API and the sheets worker.
package backend

import (
	"context"

	"bizspese/internal/amqp"
	"bizspese/internal/services"
	"bizspese/internal/store"
)

// CleanupFunc releases the resources of a Result.
type CleanupFunc func() error

type Result struct {
	Store store.Store
	// AMQP is nil when no broker is configured or it was unreachable.
	AMQP    *amqp.Client
	Cleanup CleanupFunc
}

// Publisher returns the event publisher for the services, or nil without a
// broker. It never returns a non-nil interface holding a nil client.
func (r *Result) Publisher() services.EventPublisher {
	if r.AMQP == nil {
		return nil
	}
	return r.AMQP
}

type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

type Config struct {
	Type BackendType

	SQLiteDBPath string
	DatabaseURL  string

	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
	// RequireAMQP turns an unreachable broker into an error instead of a
	// warning.
	RequireAMQP bool
}

type BackendType string

const (
	MemoryBackend   BackendType = "memory"
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}

// Persistent reports whether data outlives the process.
func (bt BackendType) Persistent() bool {
	return bt == SQLiteBackend || bt == PostgresBackend
}
