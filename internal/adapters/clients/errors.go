// Package clients provides the instrumented outbound HTTP client used by the
// quote source adapter.
package clients

import (
	"errors"
	"fmt"
)

// Transport-level failures. The ACL layer translates these into domain errors.
var (
	// ErrCircuitOpen means the breaker rejected the call without sending it.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last attempt's error.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")

	// ErrRateLimited means the outbound limiter could not grant a token
	// before the context deadline.
	ErrRateLimited = errors.New("outbound rate limit")
)

// StatusError carries a retryable HTTP status after the last attempt.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error: %d", e.StatusCode)
}
