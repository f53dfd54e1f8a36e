package ports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockChecker implements HealthChecker for testing.
type mockChecker struct {
	name string
	err  error
}

func (m *mockChecker) Name() string {
	return m.name
}

func (m *mockChecker) Check(ctx context.Context) error {
	return m.err
}

// TestNewHealthRegistry verifies that a new registry is created with empty checkers.
func TestNewHealthRegistry(t *testing.T) {
	registry := NewHealthRegistry()

	require.NotNil(t, registry)
	assert.NotNil(t, registry.checkers)
	assert.Empty(t, registry.checkers)
}

// TestRegister_Success verifies that a checker can be registered successfully.
func TestRegister_Success(t *testing.T) {
	registry := NewHealthRegistry()
	checker := &mockChecker{name: "state-store"}

	err := registry.Register(checker)

	require.NoError(t, err)
	assert.Len(t, registry.checkers, 1)
	assert.Equal(t, "state-store", registry.checkers[0].Name())
}

// TestRegister_DuplicateName verifies that registering duplicate checker names returns an error.
func TestRegister_DuplicateName(t *testing.T) {
	registry := NewHealthRegistry()
	checker1 := &mockChecker{name: "state-store"}
	checker2 := &mockChecker{name: "state-store"}

	err := registry.Register(checker1)
	require.NoError(t, err)

	err = registry.Register(checker2)

	require.Error(t, err)
	require.ErrorIs(t, err, ErrDuplicateChecker)
	assert.Contains(t, err.Error(), "state-store")
	assert.Len(t, registry.checkers, 1)
}

// TestCheckAll_NoCheckers verifies that an empty registry returns healthy status.
func TestCheckAll_NoCheckers(t *testing.T) {
	registry := NewHealthRegistry()
	ctx := context.Background()

	result := registry.CheckAll(ctx)

	require.NotNil(t, result)
	assert.Equal(t, HealthStatusHealthy, result.Status)
	assert.NotNil(t, result.Checks)
	assert.Empty(t, result.Checks)
	assert.False(t, result.Timestamp.IsZero())
}

// TestCheckAll_AllHealthy verifies that multiple healthy checkers result in healthy status.
func TestCheckAll_AllHealthy(t *testing.T) {
	registry := NewHealthRegistry()
	checker1 := &mockChecker{name: "state-store", err: nil}
	checker2 := &mockChecker{name: "redis", err: nil}
	checker3 := &mockChecker{name: "quote-service", err: nil}

	require.NoError(t, registry.Register(checker1))
	require.NoError(t, registry.Register(checker2))
	require.NoError(t, registry.Register(checker3))

	ctx := context.Background()
	result := registry.CheckAll(ctx)

	require.NotNil(t, result)
	assert.Equal(t, HealthStatusHealthy, result.Status)
	assert.Len(t, result.Checks, 3)

	// Verify all checks are healthy
	assert.Equal(t, HealthStatusHealthy, result.Checks["state-store"].Status)
	assert.Equal(t, HealthStatusHealthy, result.Checks["redis"].Status)
	assert.Equal(t, HealthStatusHealthy, result.Checks["quote-service"].Status)

	// Verify no error messages
	assert.Empty(t, result.Checks["state-store"].Message)
	assert.Empty(t, result.Checks["redis"].Message)
	assert.Empty(t, result.Checks["quote-service"].Message)
}

// TestCheckAll_OneUnhealthy verifies that one failing checker makes the overall result unhealthy.
func TestCheckAll_OneUnhealthy(t *testing.T) {
	registry := NewHealthRegistry()
	checker1 := &mockChecker{name: "state-store", err: nil}
	checker2 := &mockChecker{name: "redis", err: errors.New("connection timeout")}
	checker3 := &mockChecker{name: "quote-service", err: nil}

	require.NoError(t, registry.Register(checker1))
	require.NoError(t, registry.Register(checker2))
	require.NoError(t, registry.Register(checker3))

	ctx := context.Background()
	result := registry.CheckAll(ctx)

	require.NotNil(t, result)
	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Len(t, result.Checks, 3)

	// Verify individual statuses
	assert.Equal(t, HealthStatusHealthy, result.Checks["state-store"].Status)
	assert.Equal(t, HealthStatusUnhealthy, result.Checks["redis"].Status)
	assert.Equal(t, HealthStatusHealthy, result.Checks["quote-service"].Status)

	// Verify error message is captured
	assert.Empty(t, result.Checks["state-store"].Message)
	assert.Equal(t, "connection timeout", result.Checks["redis"].Message)
	assert.Empty(t, result.Checks["quote-service"].Message)
}

// contextAwareChecker implements HealthChecker that respects context cancellation.
type contextAwareChecker struct {
	name string
}

func (c *contextAwareChecker) Name() string {
	return c.name
}

func (c *contextAwareChecker) Check(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

// TestCheckAll_ContextCancelled verifies that the health check respects context cancellation.
func TestCheckAll_ContextCancelled(t *testing.T) {
	registry := NewHealthRegistry()
	checker := &contextAwareChecker{name: "slow-service"}

	require.NoError(t, registry.Register(checker))

	// Create a context that's already cancelled
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := registry.CheckAll(ctx)

	require.NotNil(t, result)
	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Len(t, result.Checks, 1)
	assert.Equal(t, HealthStatusUnhealthy, result.Checks["slow-service"].Status)
	assert.Contains(t, result.Checks["slow-service"].Message, "context canceled")
}

// optionalChecker marks itself as an optional dependency.
type optionalChecker struct {
	mockChecker
}

func (o *optionalChecker) Optional() bool {
	return true
}

// TestCheckAll_OptionalFailureDegrades verifies that an optional dependency failing only degrades.
func TestCheckAll_OptionalFailureDegrades(t *testing.T) {
	registry := NewHealthRegistry()

	require.NoError(t, registry.Register(&mockChecker{name: "state-store"}))
	require.NoError(t, registry.Register(&optionalChecker{mockChecker{name: "quote-service", err: errors.New("timeout")}}))

	result := registry.CheckAll(context.Background())

	assert.Equal(t, HealthStatusDegraded, result.Status)
	assert.True(t, result.Checks["quote-service"].Optional)
	assert.Equal(t, HealthStatusUnhealthy, result.Checks["quote-service"].Status)
	assert.False(t, result.Checks["state-store"].Optional)
}

// TestCheckAll_RequiredFailureWinsOverOptional verifies that unhealthy outranks degraded.
func TestCheckAll_RequiredFailureWinsOverOptional(t *testing.T) {
	registry := NewHealthRegistry()

	require.NoError(t, registry.Register(&optionalChecker{mockChecker{name: "quote-service", err: errors.New("down")}}))
	require.NoError(t, registry.Register(&mockChecker{name: "state-store", err: errors.New("redis: connection refused")}))

	result := registry.CheckAll(context.Background())

	assert.Equal(t, HealthStatusUnhealthy, result.Status)
}
