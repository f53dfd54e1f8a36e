// Package quotestate persists a session's current quote, favorites and view
// history over a key-value backend.
//
// The store is best effort: reads that fail degrade to the empty value and
// writes that fail are logged, counted and dropped. Records written by older
// layouts are normalized when read and rewritten canonically on the next write.
package quotestate

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"log/slog"
	"slices"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/jsamuelsen/mood-quote-service/internal/domain"
	"github.com/jsamuelsen/mood-quote-service/internal/platform/logging"
	"github.com/jsamuelsen/mood-quote-service/internal/platform/metrics"
	"github.com/jsamuelsen/mood-quote-service/internal/ports"
)

// DefaultHistoryMax bounds the history log when no limit is configured.
const DefaultHistoryMax = 50

// lockStripes is the number of mutexes shared among sessions. A session always
// hashes to the same stripe.
const lockStripes = 64

// Config configures a Manager.
type Config struct {
	KV     ports.KeyValueStore
	Logger *slog.Logger
	Clock  clockwork.Clock

	// KeyPrefix defaults to DefaultKeyPrefix.
	KeyPrefix string

	// HistoryMax defaults to DefaultHistoryMax.
	HistoryMax int
}

// Manager hands out session-scoped stores over one backend.
type Manager struct {
	kv         ports.KeyValueStore
	logger     *slog.Logger
	clock      clockwork.Clock
	prefix     string
	historyMax int
	locks      [lockStripes]sync.Mutex
}

// NewManager creates a manager. Panics if KV is nil.
func NewManager(cfg Config) *Manager {
	if cfg.KV == nil {
		panic("quotestate: KV is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}

	historyMax := cfg.HistoryMax
	if historyMax <= 0 {
		historyMax = DefaultHistoryMax
	}

	return &Manager{
		kv:         cfg.KV,
		logger:     logger.With(slog.String("component", "quotestate")),
		clock:      clock,
		prefix:     prefix,
		historyMax: historyMax,
	}
}

// HistoryMax returns the configured history bound.
func (m *Manager) HistoryMax() int {
	return m.historyMax
}

// ForSession returns the store for session. Stores for the same session share
// a mutex, so their read-modify-write sequences never interleave.
func (m *Manager) ForSession(session string) ports.QuoteStateStore {
	h := fnv.New32a()
	_, _ = h.Write([]byte(session))

	return &Store{
		m:    m,
		keys: KeysFor(m.prefix, session),
		mu:   &m.locks[h.Sum32()%lockStripes],
	}
}

// Store is one session's quote state. It implements ports.QuoteStateStore.
type Store struct {
	m    *Manager
	keys Keys
	mu   *sync.Mutex
}

var (
	_ ports.QuoteStateStore = (*Store)(nil)
	_ ports.SessionStates   = (*Manager)(nil)
)

// CurrentQuote returns the stored quote and whether one exists.
func (s *Store) CurrentQuote(ctx context.Context) (domain.Quote, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.read(ctx, s.keys.CurrentQuote, nameCurrentQuote)
	if !ok {
		return domain.Quote{}, false
	}

	q, legacy, valid, err := decodeQuote(data)
	if err != nil {
		s.readFailed(ctx, nameCurrentQuote, err)
		return domain.Quote{}, false
	}

	if legacy {
		s.legacyRead(ctx, nameCurrentQuote)
	}

	if !valid {
		s.logger(ctx).WarnContext(ctx, "stored current quote has no id or text, ignoring")
		return domain.Quote{}, false
	}

	return q, true
}

// SetCurrentQuote overwrites the current quote. History is unaffected.
func (s *Store) SetCurrentQuote(ctx context.Context, q domain.Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.write(ctx, s.keys.CurrentQuote, nameCurrentQuote, q)
}

// Favorites lists favorites in insertion order.
func (s *Store) Favorites(ctx context.Context) []domain.AnalyzedQuote {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, _ := s.loadEntries(ctx, s.keys.Favorites, nameFavorites)

	return toAnalyzed(entries)
}

// AddFavorite appends aq unless a favorite with the same quote id exists,
// and reports whether no such favorite was found. When the backend cannot be
// read nothing is written, yet aq still counts as new.
func (s *Store) AddFavorite(ctx context.Context, aq domain.AnalyzedQuote) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, ok := s.loadEntries(ctx, s.keys.Favorites, nameFavorites)
	if !ok {
		s.writeSkipped(ctx, nameFavorites)
		return true
	}

	favorites := toAnalyzed(entries)
	if indexOf(favorites, aq.Quote.ID) >= 0 {
		return false
	}

	s.write(ctx, s.keys.Favorites, nameFavorites, append(favorites, aq))

	return true
}

// RemoveFavorite deletes the favorite with the given id if present.
func (s *Store) RemoveFavorite(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, ok := s.loadEntries(ctx, s.keys.Favorites, nameFavorites)
	if !ok {
		s.writeSkipped(ctx, nameFavorites)
		return
	}

	favorites := toAnalyzed(entries)

	i := indexOf(favorites, id)
	if i < 0 {
		return
	}

	s.write(ctx, s.keys.Favorites, nameFavorites, slices.Delete(favorites, i, i+1))
}

// IsFavorite reports whether a favorite with the given id exists.
func (s *Store) IsFavorite(ctx context.Context, id string) bool {
	return indexOf(s.Favorites(ctx), id) >= 0
}

// History lists viewed quotes, most recent first.
func (s *Store) History(ctx context.Context) []domain.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, _ := s.loadEntries(ctx, s.keys.History, nameHistory)

	return entries
}

// AddToHistory prepends aq stamped with the current time and truncates the
// log to maxSize entries, dropping the oldest. maxSize <= 0 selects the
// manager's configured bound.
func (s *Store) AddToHistory(ctx context.Context, aq domain.AnalyzedQuote, maxSize int) {
	if maxSize <= 0 {
		maxSize = s.m.historyMax
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, ok := s.loadEntries(ctx, s.keys.History, nameHistory)
	if !ok {
		s.writeSkipped(ctx, nameHistory)
		return
	}

	entry := domain.HistoryEntry{AnalyzedQuote: aq, ViewedAt: s.m.clock.Now()}

	history := make([]domain.HistoryEntry, 0, min(len(entries)+1, maxSize))
	history = append(history, entry)
	history = append(history, entries[:min(len(entries), maxSize-1)]...)

	s.write(ctx, s.keys.History, nameHistory, history)
}

// read fetches key. ok is false when the key is missing or the read failed;
// failures are logged and counted here.
func (s *Store) read(ctx context.Context, key, name string) ([]byte, bool) {
	data, err := s.m.kv.Get(ctx, key)
	if err != nil {
		if !domain.IsNotFound(err) {
			s.readFailed(ctx, name, err)
		}

		return nil, false
	}

	return data, true
}

// loadEntries reads a favorites or history list. A missing key or a corrupt
// value yields an empty list with ok true, since overwriting either loses
// nothing. ok is false only when the backend itself failed.
func (s *Store) loadEntries(ctx context.Context, key, name string) ([]domain.HistoryEntry, bool) {
	data, err := s.m.kv.Get(ctx, key)
	if err != nil {
		if domain.IsNotFound(err) {
			return []domain.HistoryEntry{}, true
		}

		s.readFailed(ctx, name, err)

		return []domain.HistoryEntry{}, false
	}

	entries, legacy, dropped, err := decodeEntries(data)
	if err != nil {
		s.readFailed(ctx, name, err)
		return []domain.HistoryEntry{}, true
	}

	if legacy {
		s.legacyRead(ctx, name)
	}

	if dropped > 0 {
		metrics.StateDroppedEntriesTotal.WithLabelValues(name).Add(float64(dropped))
		s.logger(ctx).WarnContext(ctx, "dropped unusable stored entries",
			slog.String("key", name),
			slog.Int("dropped", dropped),
		)
	}

	return entries, true
}

func (s *Store) write(ctx context.Context, key, name string, value any) {
	data, err := json.Marshal(value)
	if err == nil {
		err = s.m.kv.Set(ctx, key, data)
	}

	if err != nil {
		metrics.StateWriteFailuresTotal.WithLabelValues(name).Inc()
		s.logger(ctx).ErrorContext(ctx, "quote state write failed, dropping",
			slog.String("key", name),
			slog.Any("error", domain.NewPersistenceError("write", key, err)),
		)
	}
}

// writeSkipped records a mutation abandoned because its read failed.
func (s *Store) writeSkipped(ctx context.Context, name string) {
	metrics.StateWriteFailuresTotal.WithLabelValues(name).Inc()
	s.logger(ctx).ErrorContext(ctx, "quote state update skipped after failed read",
		slog.String("key", name),
	)
}

func (s *Store) readFailed(ctx context.Context, name string, err error) {
	metrics.StateReadFailuresTotal.WithLabelValues(name).Inc()
	s.logger(ctx).WarnContext(ctx, "quote state read failed, using empty value",
		slog.String("key", name),
		slog.Any("error", err),
	)
}

func (s *Store) legacyRead(ctx context.Context, name string) {
	metrics.LegacyRecordsTotal.WithLabelValues(name).Inc()
	s.logger(ctx).DebugContext(ctx, "normalized legacy record", slog.String("key", name))
}

func (s *Store) logger(ctx context.Context) *slog.Logger {
	return logging.FromContextOr(ctx, s.m.logger)
}

func toAnalyzed(entries []domain.HistoryEntry) []domain.AnalyzedQuote {
	out := make([]domain.AnalyzedQuote, len(entries))
	for i := range entries {
		out[i] = entries[i].AnalyzedQuote
	}

	return out
}

func indexOf(favorites []domain.AnalyzedQuote, id string) int {
	return slices.IndexFunc(favorites, func(aq domain.AnalyzedQuote) bool {
		return aq.Quote.ID == id
	})
}
