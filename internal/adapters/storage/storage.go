// Package storage provides the key-value backends behind the quote state
// store: an in-process map, Redis and SQLite. Every backend reports missing
// keys as domain.ErrNotFound and records operation metrics.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jsamuelsen/mood-quote-service/internal/domain"
	"github.com/jsamuelsen/mood-quote-service/internal/platform/config"
	"github.com/jsamuelsen/mood-quote-service/internal/platform/metrics"
	"github.com/jsamuelsen/mood-quote-service/internal/ports"
)

// Backend names accepted in configuration.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// checkerName is the health check name shared by every backend.
const checkerName = "state-store"

// ErrUnknownBackend is returned by New for an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Store is a key-value backend that can also report its health.
type Store interface {
	ports.KeyValueStore
	ports.HealthChecker
}

// New opens the backend selected by cfg.Backend.
func New(ctx context.Context, cfg *config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case BackendMemory, "":
		return NewMemoryStore(), nil
	case BackendRedis:
		return NewRedisStore(ctx, cfg.Redis.URL)
	case BackendSQLite:
		return NewSQLiteStore(ctx, cfg.SQLite.Path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// observe records the outcome and latency of one backend operation.
func observe(backend, op string, start time.Time, err error) {
	status := metrics.StatusSuccess
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		status = metrics.StatusNotFound
	default:
		status = metrics.StatusError
	}

	metrics.KVOperationsTotal.WithLabelValues(backend, op, status).Inc()
	metrics.KVOperationDuration.WithLabelValues(backend, op).Observe(time.Since(start).Seconds())
}
