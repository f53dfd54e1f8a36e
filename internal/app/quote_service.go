// Package app contains application services that orchestrate use cases.
package app

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jsamuelsen/mood-quote-service/internal/domain"
	"github.com/jsamuelsen/mood-quote-service/internal/platform/metrics"
	"github.com/jsamuelsen/mood-quote-service/internal/platform/telemetry"
	"github.com/jsamuelsen/mood-quote-service/internal/ports"
)

const (
	// DefaultFetchTimeout bounds a quote fetch before falling back.
	DefaultFetchTimeout = 5 * time.Second

	// DefaultProbeTimeout bounds an availability probe.
	DefaultProbeTimeout = 3 * time.Second
)

// Fallback reasons recorded on the fallbacks counter.
const (
	reasonTimeout     = "timeout"
	reasonUnavailable = "unavailable"
	reasonNotFound    = "not_found"
	reasonInvalid     = "invalid"
	reasonCanceled    = "canceled"
	reasonUnknown     = "unknown"
)

// fallbackPool is served when the remote source fails. Ids are assigned from
// position so they stay stable across releases.
var fallbackPool = []struct{ text, author string }{
	{"The only way to do great work is to love what you do.", "Steve Jobs"},
	{"In the middle of difficulty lies opportunity.", "Albert Einstein"},
	{"Happiness is not something ready made. It comes from your own actions.", "Dalai Lama"},
	{"It does not matter how slowly you go as long as you do not stop.", "Confucius"},
	{"What we think, we become.", "Buddha"},
}

// QuoteServiceConfig configures a QuoteService.
type QuoteServiceConfig struct {
	QuoteClient ports.QuoteClient
	Logger      *slog.Logger

	// Clock stamps fallback quotes. Defaults to the real clock.
	Clock clockwork.Clock

	// FetchTimeout and ProbeTimeout default to 5s and 3s.
	FetchTimeout time.Duration
	ProbeTimeout time.Duration
}

// QuoteService fronts the remote quote source. Fetches never fail: any
// remote failure is replaced by a quote from the local fallback pool.
type QuoteService struct {
	quoteClient  ports.QuoteClient
	logger       *slog.Logger
	clock        clockwork.Clock
	fetchTimeout time.Duration
	probeTimeout time.Duration
}

// NewQuoteService creates a quote service. Panics if QuoteClient is nil.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.QuoteClient == nil {
		panic("QuoteService: QuoteClient is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	fetchTimeout := cfg.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}

	probeTimeout := cfg.ProbeTimeout
	if probeTimeout <= 0 {
		probeTimeout = DefaultProbeTimeout
	}

	return &QuoteService{
		quoteClient:  cfg.QuoteClient,
		logger:       logger.With(slog.String("component", "app.QuoteService")),
		clock:        clock,
		fetchTimeout: fetchTimeout,
		probeTimeout: probeTimeout,
	}
}

// GetRandomQuote returns a remote quote, or a fallback quote on any failure.
func (s *QuoteService) GetRandomQuote(ctx context.Context) domain.Quote {
	return s.fetch(ctx, "random", "", func(ctx context.Context) (*domain.Quote, error) {
		return s.quoteClient.GetRandomQuote(ctx)
	})
}

// GetQuoteByTag returns a remote quote carrying tag, or a fallback quote on
// any failure, including an unknown tag.
func (s *QuoteService) GetQuoteByTag(ctx context.Context, tag string) domain.Quote {
	return s.fetch(ctx, "tag", tag, func(ctx context.Context) (*domain.Quote, error) {
		return s.quoteClient.GetRandomQuoteByTag(ctx, tag)
	})
}

func (s *QuoteService) fetch(ctx context.Context, kind, tag string, call func(context.Context) (*domain.Quote, error)) domain.Quote {
	ctx, span := telemetry.StartSpan(ctx, "quotes.fetch",
		attribute.String("quote.kind", kind),
		attribute.String("quote.tag", tag),
	)

	var (
		spanErr    error
		spanReason string
	)
	defer func() { telemetry.EndSpan(span, spanErr, spanReason) }()

	start := s.clock.Now()

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	quote, err := call(fetchCtx)
	if err == nil && (quote == nil || strings.TrimSpace(quote.Text) == "") {
		err = domain.NewUnavailableError("quote-source", "empty quote")
	}

	if err != nil {
		reason := fallbackReason(fetchCtx, err)
		fb := s.fallback()

		metrics.QuoteFallbacksTotal.WithLabelValues(reason).Inc()
		metrics.QuoteFetchDuration.WithLabelValues("fallback").Observe(s.clock.Since(start).Seconds())
		spanErr, spanReason = err, reason
		span.SetAttributes(attribute.Bool("quote.fallback", true), attribute.String("quote.id", fb.ID))

		s.logger.WarnContext(ctx, "quote source failed, serving fallback",
			slog.String("reason", reason),
			slog.String("tag", tag),
			slog.String("quote_id", fb.ID),
			slog.Any("error", err),
		)

		return fb
	}

	metrics.QuoteFetchDuration.WithLabelValues("remote").Observe(s.clock.Since(start).Seconds())
	span.SetAttributes(attribute.String("quote.id", quote.ID))

	s.logger.DebugContext(ctx, "fetched quote",
		slog.String("quote_id", quote.ID),
		slog.String("author", quote.Author),
	)

	out := *quote
	if out.FetchedAt.IsZero() {
		out.FetchedAt = s.clock.Now()
	}

	return out
}

func fallbackReason(ctx context.Context, err error) string {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return reasonTimeout
	case errors.Is(err, context.Canceled):
		return reasonCanceled
	case domain.IsNotFound(err):
		return reasonNotFound
	case domain.IsValidation(err):
		return reasonInvalid
	case domain.IsUnavailable(err):
		return reasonUnavailable
	default:
		return reasonUnknown
	}
}

// fallback draws a quote uniformly from the pool.
func (s *QuoteService) fallback() domain.Quote {
	i := rand.IntN(len(fallbackPool)) //nolint:gosec // not security sensitive
	return fallbackQuote(i, s.clock.Now())
}

func fallbackQuote(i int, at time.Time) domain.Quote {
	return domain.Quote{
		ID:        domain.FallbackIDPrefix + strconv.Itoa(i+1),
		Text:      fallbackPool[i].text,
		Author:    fallbackPool[i].author,
		FetchedAt: at,
	}
}

// FallbackQuotes returns the whole fallback pool.
func FallbackQuotes() []domain.Quote {
	out := make([]domain.Quote, len(fallbackPool))
	for i := range fallbackPool {
		out[i] = fallbackQuote(i, time.Time{})
	}
	return out
}

// CheckAvailability probes the remote source. Any failure, including the
// probe deadline, reports false.
func (s *QuoteService) CheckAvailability(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, s.probeTimeout)
	defer cancel()

	if err := s.quoteClient.Ping(ctx); err != nil {
		s.logger.InfoContext(ctx, "quote source unavailable", slog.Any("error", err))
		return false
	}

	return true
}

// Diagnosis is the outcome of a connectivity check against the source.
type Diagnosis struct {
	Available bool
	Latency   time.Duration
	Sample    *domain.Quote
	ProbeErr  error
	FetchErr  error
}

// Diagnose runs the availability probe and a sample fetch concurrently and
// reports both outcomes without substituting a fallback.
func (s *QuoteService) Diagnose(ctx context.Context) Diagnosis {
	start := s.clock.Now()

	probe, sample := Settle2(ctx,
		func(ctx context.Context) (struct{}, error) {
			ctx, cancel := context.WithTimeout(ctx, s.probeTimeout)
			defer cancel()
			return struct{}{}, s.quoteClient.Ping(ctx)
		},
		func(ctx context.Context) (*domain.Quote, error) {
			ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
			defer cancel()
			return s.quoteClient.GetRandomQuote(ctx)
		},
	)

	return Diagnosis{
		Available: probe.Err == nil && sample.Err == nil,
		Latency:   s.clock.Since(start),
		Sample:    sample.Value,
		ProbeErr:  probe.Err,
		FetchErr:  sample.Err,
	}
}
