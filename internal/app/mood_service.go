package app

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/jsamuelsen/mood-quote-service/internal/domain"
	"github.com/jsamuelsen/mood-quote-service/internal/domain/palette"
	"github.com/jsamuelsen/mood-quote-service/internal/platform/logging"
	"github.com/jsamuelsen/mood-quote-service/internal/platform/metrics"
	"github.com/jsamuelsen/mood-quote-service/internal/ports"
)

const (
	// MaxTextLength bounds text accepted for analysis and favorites.
	MaxTextLength = 10000

	// MaxTagLength bounds a category tag.
	MaxTagLength = 64
)

var sessionPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// QuoteFetcher fetches quotes, substituting a fallback on failure.
type QuoteFetcher interface {
	GetRandomQuote(ctx context.Context) domain.Quote
	GetQuoteByTag(ctx context.Context, tag string) domain.Quote
	CheckAvailability(ctx context.Context) bool
}

// MoodView is an analysis with the colors that render it.
type MoodView struct {
	Analysis domain.MoodAnalysis
	Colors   palette.Scheme
}

// QuoteView is a quote with its analysis and colors.
type QuoteView struct {
	domain.AnalyzedQuote
	Colors palette.Scheme

	// Reused is true when Today served the stored quote instead of fetching.
	Reused bool
}

// MoodServiceConfig configures a MoodService.
type MoodServiceConfig struct {
	Quotes   QuoteFetcher
	States   ports.SessionStates
	Analyzer ports.MoodAnalyzer
	Logger   *slog.Logger
	Clock    clockwork.Clock
}

// MoodService runs the quote and mood use cases for a session.
type MoodService struct {
	quotes   QuoteFetcher
	states   ports.SessionStates
	analyzer ports.MoodAnalyzer
	logger   *slog.Logger
	clock    clockwork.Clock
	executor *Executor
	today    singleflight.Group
}

// NewMoodService creates a mood service. Panics if a dependency is missing.
func NewMoodService(cfg MoodServiceConfig) *MoodService {
	if cfg.Quotes == nil || cfg.States == nil || cfg.Analyzer == nil {
		panic("MoodService: Quotes, States and Analyzer are required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "app.MoodService"))

	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &MoodService{
		quotes:   cfg.Quotes,
		states:   cfg.States,
		analyzer: cfg.Analyzer,
		logger:   logger,
		clock:    clock,
		executor: NewExecutor(logger, clock),
	}
}

// Analyze scores text and picks its colors.
func (s *MoodService) Analyze(text string) MoodView {
	a := s.analyze(text)

	return MoodView{Analysis: a, Colors: palette.ColorsFor(a.Mood, a.Intensity)}
}

func (s *MoodService) analyze(text string) domain.MoodAnalysis {
	a := s.analyzer.Analyze(text)
	metrics.AnalysesTotal.WithLabelValues(string(a.Mood)).Inc()

	return a
}

func (s *MoodService) view(aq domain.AnalyzedQuote) QuoteView {
	return QuoteView{AnalyzedQuote: aq, Colors: palette.ForAnalysis(&aq.Analysis)}
}

// Today returns the session's quote of the day. A stored remote quote fetched
// earlier on the same calendar day is reused unless force is set. Otherwise a
// new quote is fetched, stored as current and added to history.
//
// Concurrent calls for one session share a single fetch. A caller that gives
// up returns early; the shared fetch still completes and is archived.
func (s *MoodService) Today(ctx context.Context, session string, force bool) (QuoteView, error) {
	if err := ValidateSession(session); err != nil {
		return QuoteView{}, err
	}

	ch := s.today.DoChan(session+":"+strconv.FormatBool(force), func() (any, error) {
		return s.todayOnce(context.WithoutCancel(ctx), session, force)
	})

	select {
	case <-ctx.Done():
		return QuoteView{}, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return QuoteView{}, r.Err
		}

		return r.Val.(QuoteView), nil
	}
}

func (s *MoodService) todayOnce(ctx context.Context, session string, force bool) (QuoteView, error) {
	if !force {
		if q, ok := s.states.ForSession(session).CurrentQuote(ctx); ok && s.reusable(q) {
			logging.FromContextOr(ctx, s.logger).DebugContext(ctx, "reusing today's quote",
				slog.String("quote_id", q.ID),
			)

			v := s.view(domain.AnalyzedQuote{Quote: q, Analysis: s.analyze(q.Text)})
			v.Reused = true

			return v, nil
		}
	}

	return s.refresh(ctx, refreshInput{session: session})
}

// reusable reports whether q is a remote quote fetched on the current local
// day. Fallback quotes are never reused, so the next visit retries the source.
func (s *MoodService) reusable(q domain.Quote) bool {
	if q.IsFallback() || q.FetchedAt.IsZero() {
		return false
	}

	now := s.clock.Now()

	return sameDay(q.FetchedAt.In(now.Location()), now)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()

	return ay == by && am == bm && ad == bd
}

// Random fetches a new quote, stores it as current and adds it to history.
func (s *MoodService) Random(ctx context.Context, session string) (QuoteView, error) {
	return s.refresh(ctx, refreshInput{session: session})
}

// ByCategory fetches a quote tagged tag, stores it as current and adds it to
// history. An unknown tag degrades to a fallback quote.
func (s *MoodService) ByCategory(ctx context.Context, session, tag string) (QuoteView, error) {
	return s.refresh(ctx, refreshInput{session: session, tag: tag, byTag: true})
}

type refreshInput struct {
	session string
	tag     string
	byTag   bool
}

func (s *MoodService) refresh(ctx context.Context, in refreshInput) (QuoteView, error) {
	name := "quotes.random"
	if in.byTag {
		name = "quotes.by_category"
	}

	return Execute(ctx, s.executor, Operation[refreshInput, domain.Quote, domain.AnalyzedQuote, QuoteView]{
		Name: name,
		Validate: func(_ context.Context, in refreshInput) error {
			if err := ValidateSession(in.session); err != nil {
				return err
			}

			if in.byTag {
				return ValidateTag(in.tag)
			}

			return nil
		},
		Perform: func(ctx context.Context, in refreshInput) (domain.Quote, error) {
			if in.byTag {
				return s.quotes.GetQuoteByTag(ctx, strings.TrimSpace(in.tag)), nil
			}

			return s.quotes.GetRandomQuote(ctx), nil
		},
		Verify: func(_ context.Context, _ refreshInput, q domain.Quote) (domain.AnalyzedQuote, error) {
			if q.ID == "" || strings.TrimSpace(q.Text) == "" {
				return domain.AnalyzedQuote{}, domain.NewUnavailableError("quote-source", "quote without id or text")
			}

			return domain.AnalyzedQuote{Quote: q, Analysis: s.analyze(q.Text)}, nil
		},
		Archive: func(ctx context.Context, in refreshInput, aq domain.AnalyzedQuote) error {
			store := s.states.ForSession(in.session)
			store.SetCurrentQuote(ctx, aq.Quote)
			store.AddToHistory(ctx, aq, 0)

			return nil
		},
		Respond: func(_ context.Context, _ refreshInput, aq domain.AnalyzedQuote) (QuoteView, error) {
			return s.view(aq), nil
		},
	}, in)
}

// Current returns the session's current quote, analyzed. ok is false when
// none is stored.
func (s *MoodService) Current(ctx context.Context, session string) (QuoteView, bool, error) {
	if err := ValidateSession(session); err != nil {
		return QuoteView{}, false, err
	}

	q, ok := s.states.ForSession(session).CurrentQuote(ctx)
	if !ok {
		return QuoteView{}, false, nil
	}

	return s.view(domain.AnalyzedQuote{Quote: q, Analysis: s.analyze(q.Text)}), true, nil
}

// Available probes the quote source.
func (s *MoodService) Available(ctx context.Context) bool {
	return s.quotes.CheckAvailability(ctx)
}

// Favorites lists the session's favorites in insertion order.
func (s *MoodService) Favorites(ctx context.Context, session string) ([]QuoteView, error) {
	if err := ValidateSession(session); err != nil {
		return nil, err
	}

	favorites := s.states.ForSession(session).Favorites(ctx)

	out := make([]QuoteView, len(favorites))
	for i := range favorites {
		out[i] = s.view(favorites[i])
	}

	return out, nil
}

// AddFavorite stores q as a favorite. The analysis is recomputed from q.Text,
// so callers cannot persist a mismatched analysis. added is false when a
// favorite with the same id already existed.
func (s *MoodService) AddFavorite(ctx context.Context, session string, q domain.Quote) (QuoteView, bool, error) {
	if err := ValidateSession(session); err != nil {
		return QuoteView{}, false, err
	}

	q.ID = strings.TrimSpace(q.ID)
	if q.ID == "" {
		return QuoteView{}, false, domain.NewValidationError("id", "is required")
	}

	if strings.TrimSpace(q.Text) == "" {
		return QuoteView{}, false, domain.NewValidationError("text", "is required")
	}

	if len(q.Text) > MaxTextLength {
		return QuoteView{}, false, domain.NewValidationError("text", "must be at most "+strconv.Itoa(MaxTextLength)+" characters")
	}

	if q.FetchedAt.IsZero() {
		q.FetchedAt = s.clock.Now()
	}

	aq := domain.AnalyzedQuote{Quote: q, Analysis: s.analyze(q.Text)}
	added := s.states.ForSession(session).AddFavorite(ctx, aq)

	return s.view(aq), added, nil
}

// RemoveFavorite deletes the favorite with id. Removing a missing id is not
// an error.
func (s *MoodService) RemoveFavorite(ctx context.Context, session, id string) error {
	if err := ValidateSession(session); err != nil {
		return err
	}

	s.states.ForSession(session).RemoveFavorite(ctx, id)

	return nil
}

// IsFavorite reports whether id is among the session's favorites.
func (s *MoodService) IsFavorite(ctx context.Context, session, id string) (bool, error) {
	if err := ValidateSession(session); err != nil {
		return false, err
	}

	return s.states.ForSession(session).IsFavorite(ctx, id), nil
}

// History lists the session's viewed quotes, most recent first.
func (s *MoodService) History(ctx context.Context, session string) ([]domain.HistoryEntry, error) {
	if err := ValidateSession(session); err != nil {
		return nil, err
	}

	return s.states.ForSession(session).History(ctx), nil
}

// ValidateSession checks a session id: 1 to 128 letters, digits, '-' or '_'.
func ValidateSession(session string) error {
	if !sessionPattern.MatchString(session) {
		return domain.NewValidationErrorWithValue("session", "must be 1-128 letters, digits, '-' or '_'", session)
	}

	return nil
}

// ValidateTag checks a category tag.
func ValidateTag(tag string) error {
	tag = strings.TrimSpace(tag)

	switch {
	case tag == "":
		return domain.NewValidationError("tag", "is required")
	case len(tag) > MaxTagLength:
		return domain.NewValidationError("tag", "must be at most "+strconv.Itoa(MaxTagLength)+" characters")
	}

	return nil
}
