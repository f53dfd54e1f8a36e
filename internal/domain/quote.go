package domain

import (
	"strings"
	"time"
)

// FallbackIDPrefix namespaces ids of locally generated quotes so they never
// collide with ids issued by the remote source.
const FallbackIDPrefix = "fallback-"

// Quote represents a quotation with its author.
// Quotes are immutable once created.
type Quote struct {
	// ID is remote-issued, or FallbackIDPrefix followed by a pool index.
	ID string `json:"id"`

	// Text is the quotation itself. Never empty.
	Text string `json:"text"`

	// Author may be empty, meaning unknown.
	Author string `json:"author"`

	// Tags are categories the remote source associates with the quote.
	Tags []string `json:"tags,omitempty"`

	// FetchedAt records when the quote was obtained.
	FetchedAt time.Time `json:"fetchedAt"`
}

// IsFallback reports whether the quote came from the local fallback pool.
func (q Quote) IsFallback() bool {
	return strings.HasPrefix(q.ID, FallbackIDPrefix)
}

// AuthorOrUnknown returns the author, or "Unknown" when none is recorded.
func (q Quote) AuthorOrUnknown() string {
	if strings.TrimSpace(q.Author) == "" {
		return "Unknown"
	}

	return q.Author
}

// AnalyzedQuote pairs a quote with the analysis computed from its text.
// It is the unit persisted in favorites and history.
type AnalyzedQuote struct {
	Quote    Quote        `json:"quote"`
	Analysis MoodAnalysis `json:"analysis"`
}

// HistoryEntry is an analyzed quote stamped with the time it was viewed.
type HistoryEntry struct {
	AnalyzedQuote
	ViewedAt time.Time `json:"viewedAt"`
}
