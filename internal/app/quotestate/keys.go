package quotestate

import "strings"

// DefaultKeyPrefix namespaces every state key when no prefix is configured.
const DefaultKeyPrefix = "moodquote"

// Key names, one per persisted value.
const (
	nameCurrentQuote = "current_quote"
	nameFavorites    = "favorite_quotes"
	nameHistory      = "quote_history"
)

// Keys holds the backend keys of one session.
type Keys struct {
	CurrentQuote string
	Favorites    string
	History      string
}

// KeysFor returns the keys for session under prefix, laid out as
// <prefix>:<session>:<name>.
func KeysFor(prefix, session string) Keys {
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultKeyPrefix
	}

	base := prefix + ":" + session + ":"

	return Keys{
		CurrentQuote: base + nameCurrentQuote,
		Favorites:    base + nameFavorites,
		History:      base + nameHistory,
	}
}
