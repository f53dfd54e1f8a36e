package storage

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/jsamuelsen/mood-quote-service/internal/domain"
)

// MemoryStore keeps values in process memory. Contents do not survive a
// restart; it suits development and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
	closed bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

// Get implements ports.KeyValueStore.
func (m *MemoryStore) Get(ctx context.Context, key string) (value []byte, err error) {
	defer func(start time.Time) { observe(BackendMemory, "get", start, err) }(time.Now())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, domain.NewUnavailableError(checkerName, "store closed")
	}

	v, ok := m.values[key]
	if !ok {
		return nil, domain.NewNotFoundError("key", key)
	}

	return slices.Clone(v), nil
}

// Set implements ports.KeyValueStore.
func (m *MemoryStore) Set(ctx context.Context, key string, value []byte) (err error) {
	defer func(start time.Time) { observe(BackendMemory, "set", start, err) }(time.Now())

	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return domain.NewUnavailableError(checkerName, "store closed")
	}

	m.values[key] = slices.Clone(value)

	return nil
}

// Delete implements ports.KeyValueStore.
func (m *MemoryStore) Delete(ctx context.Context, key string) (err error) {
	defer func(start time.Time) { observe(BackendMemory, "delete", start, err) }(time.Now())

	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)

	return nil
}

// Close implements ports.KeyValueStore. Later operations fail as unavailable.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true

	return nil
}

// Name implements ports.HealthChecker.
func (m *MemoryStore) Name() string {
	return checkerName
}

// Check implements ports.HealthChecker.
func (m *MemoryStore) Check(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return domain.NewUnavailableError(checkerName, "store closed")
	}

	return ctx.Err()
}
