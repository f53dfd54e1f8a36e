// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrUnavailable, etc.)
//   - Keep interfaces small and focused
package ports

import (
	"context"

	"github.com/jsamuelsen/mood-quote-service/internal/domain"
)

// QuoteClient fetches quotes from the remote quote source.
// Implementations translate the remote representation into domain.Quote and
// map transport failures to domain errors. They do not substitute fallbacks;
// that policy lives in the application layer.
type QuoteClient interface {
	// GetRandomQuote returns any quote.
	GetRandomQuote(ctx context.Context) (*domain.Quote, error)

	// GetRandomQuoteByTag returns a quote carrying the given tag.
	// Returns domain.ErrNotFound if no quote matches.
	GetRandomQuoteByTag(ctx context.Context, tag string) (*domain.Quote, error)

	// Ping probes the remote health endpoint.
	// Returns domain.ErrUnavailable if the source is unreachable or unhealthy.
	Ping(ctx context.Context) error
}

// MoodAnalyzer scores text against a polarity lexicon. It never fails.
type MoodAnalyzer interface {
	Analyze(text string) domain.MoodAnalysis
}

// KeyValueStore is the persistence contract behind the quote state store.
// Values are opaque bytes; encoding is the caller's concern.
type KeyValueStore interface {
	// Get returns the value stored under key.
	// Returns domain.ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// QuoteStateStore holds one session's current quote, favorites and history.
//
// The store is best effort. Reads that fail degrade to the empty value and
// writes that fail are logged and dropped, so no method returns an error.
type QuoteStateStore interface {
	// CurrentQuote returns the stored quote and whether one exists.
	CurrentQuote(ctx context.Context) (domain.Quote, bool)

	// SetCurrentQuote overwrites the current quote. History is unaffected.
	SetCurrentQuote(ctx context.Context, q domain.Quote)

	// Favorites lists favorites in insertion order.
	Favorites(ctx context.Context) []domain.AnalyzedQuote

	// AddFavorite appends aq unless a favorite with the same quote id exists.
	// It reports whether aq was new, decided under the same lock as the write.
	AddFavorite(ctx context.Context, aq domain.AnalyzedQuote) bool

	// RemoveFavorite deletes the favorite with the given id if present.
	RemoveFavorite(ctx context.Context, id string)

	// IsFavorite reports whether a favorite with the given id exists.
	IsFavorite(ctx context.Context, id string) bool

	// History lists viewed quotes, most recent first.
	History(ctx context.Context) []domain.HistoryEntry

	// AddToHistory prepends aq stamped with the current time and truncates the
	// log to maxSize entries. maxSize <= 0 selects the configured default.
	AddToHistory(ctx context.Context, aq domain.AnalyzedQuote, maxSize int)
}

// SessionStates hands out quote state scoped to one session.
type SessionStates interface {
	ForSession(session string) QuoteStateStore
}
