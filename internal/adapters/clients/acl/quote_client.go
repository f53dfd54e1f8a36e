package acl

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/jsamuelsen/mood-quote-service/internal/adapters/clients"
	"github.com/jsamuelsen/mood-quote-service/internal/domain"
	"github.com/jsamuelsen/mood-quote-service/internal/platform/logging"
)

const (
	pathRandom      = "/random"
	pathHealthCheck = "/health-check"
)

// QuoteClientConfig configures a QuoteClient.
type QuoteClientConfig struct {
	// Client must point at the quote API base URL.
	Client *clients.Client

	Logger *slog.Logger

	// Clock stamps FetchedAt. Defaults to the real clock.
	Clock clockwork.Clock
}

// QuoteClient implements ports.QuoteClient against the Quotable API.
// It also serves as an optional health check: the service keeps answering
// with fallback quotes when the API is down.
type QuoteClient struct {
	BaseAdapter
	logger *slog.Logger
	clock  clockwork.Clock
}

// NewQuoteClient creates a quote client. Panics if Client is nil.
func NewQuoteClient(cfg QuoteClientConfig) *QuoteClient {
	if cfg.Client == nil {
		panic("QuoteClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &QuoteClient{
		BaseAdapter: NewBaseAdapter(cfg.Client, cfg.Client.ServiceName()),
		logger:      logger,
		clock:       clock,
	}
}

// quotableQuote is the remote representation. Never leaves this package.
type quotableQuote struct {
	ID      string   `json:"_id"`
	Content string   `json:"content"`
	Author  string   `json:"author"`
	Tags    []string `json:"tags"`
}

// GetRandomQuote implements ports.QuoteClient.
func (c *QuoteClient) GetRandomQuote(ctx context.Context) (*domain.Quote, error) {
	return c.fetch(ctx, pathRandom, "get random quote", "")
}

// GetRandomQuoteByTag implements ports.QuoteClient.
func (c *QuoteClient) GetRandomQuoteByTag(ctx context.Context, tag string) (*domain.Quote, error) {
	tag = strings.TrimSpace(tag)
	if err := ValidateRequired(tag, "tag"); err != nil {
		return nil, err
	}

	path := pathRandom + "?" + url.Values{"tags": {tag}}.Encode()

	return c.fetch(ctx, path, "get random quote by tag", tag)
}

func (c *QuoteClient) fetch(ctx context.Context, path, operation, entityID string) (*domain.Quote, error) {
	c.logger.Log(ctx, logging.LevelTrace, "starting request", slog.String("path", path))

	body, err := c.Get(ctx, path, operation, entityID)
	if err != nil {
		return nil, err
	}

	ext, err := DecodeOne[quotableQuote](body)
	if err != nil {
		if errors.Is(err, ErrEmptyResult) {
			return nil, domain.NewNotFoundError(c.ServiceName(), entityID)
		}
		return nil, domain.NewUnavailableError(c.ServiceName(), err.Error())
	}

	quote, err := c.translate(ext)
	if err != nil {
		return nil, err
	}

	c.logger.Log(ctx, logging.LevelTrace, "translated remote quote",
		slog.String("quote_id", quote.ID),
		slog.String("author", quote.Author))

	return quote, nil
}

// translate rejects remote quotes the domain cannot hold.
func (c *QuoteClient) translate(ext *quotableQuote) (*domain.Quote, error) {
	text := strings.TrimSpace(ext.Content)
	if err := ValidateRequired(text, "content"); err != nil {
		return nil, domain.NewUnavailableError(c.ServiceName(), "remote quote has no text")
	}

	var tags []string
	if len(ext.Tags) > 0 {
		tags = append(tags, ext.Tags...)
	}

	return &domain.Quote{
		ID:        ext.ID,
		Text:      text,
		Author:    strings.TrimSpace(ext.Author),
		Tags:      tags,
		FetchedAt: c.clock.Now(),
	}, nil
}

// Ping implements ports.QuoteClient by calling the health endpoint.
func (c *QuoteClient) Ping(ctx context.Context) error {
	body, err := c.Get(ctx, pathHealthCheck, "health check", "")
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, body)

	return body.Close()
}

// Name implements ports.HealthChecker.
func (c *QuoteClient) Name() string {
	return c.ServiceName()
}

// Check implements ports.HealthChecker.
func (c *QuoteClient) Check(ctx context.Context) error {
	return c.Ping(ctx)
}

// Optional marks the quote source as non-critical for readiness.
func (c *QuoteClient) Optional() bool {
	return true
}
