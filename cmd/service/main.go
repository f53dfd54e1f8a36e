// Package main is the entry point for the mood quote service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jsamuelsen/mood-quote-service/internal/adapters/clients"
	"github.com/jsamuelsen/mood-quote-service/internal/adapters/clients/acl"
	"github.com/jsamuelsen/mood-quote-service/internal/adapters/http"
	"github.com/jsamuelsen/mood-quote-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/mood-quote-service/internal/adapters/lexicon"
	"github.com/jsamuelsen/mood-quote-service/internal/adapters/storage"
	"github.com/jsamuelsen/mood-quote-service/internal/app"
	"github.com/jsamuelsen/mood-quote-service/internal/app/quotestate"
	"github.com/jsamuelsen/mood-quote-service/internal/domain/sentiment"
	"github.com/jsamuelsen/mood-quote-service/internal/platform/config"
	"github.com/jsamuelsen/mood-quote-service/internal/platform/logging"
	"github.com/jsamuelsen/mood-quote-service/internal/platform/telemetry"
	"github.com/jsamuelsen/mood-quote-service/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	slog.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("storage_backend", cfg.Storage.Backend),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,

		StorageBackend: cfg.Storage.Backend,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Create health registry
	healthRegistry := ports.NewHealthRegistry()

	// 6. Open the quote state backend
	kv, err := storage.New(ctx, &cfg.Storage)
	if err != nil {
		return fmt.Errorf("opening %s state store: %w", cfg.Storage.Backend, err)
	}

	defer func() {
		if closeErr := kv.Close(); closeErr != nil {
			logger.Error("state store close error", slog.Any("error", closeErr))
		}
	}()

	if err := healthRegistry.Register(kv); err != nil {
		return fmt.Errorf("registering state store health check: %w", err)
	}

	// 7. Load the sentiment lexicon
	words, err := lexicon.Load(cfg.Sentiment.LexiconPath)
	if err != nil {
		return fmt.Errorf("loading lexicon: %w", err)
	}

	logger.Info("lexicon loaded", slog.Int("words", words.Len()))

	// 8. Create HTTP client for the quote source
	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Quotes.BaseURL,
		ServiceName: cfg.Quotes.Name,
		Timeout:     cfg.Quotes.FetchTimeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		RateLimit:   cfg.Quotes.RateLimit,
		Burst:       cfg.Quotes.Burst,
		UserAgent:   cfg.App.Name + "/" + Version,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating HTTP client: %w", err)
	}

	// 9. Create quote client adapter (ACL pattern)
	quoteClient := acl.NewQuoteClient(acl.QuoteClientConfig{
		Client: httpClient,
		Logger: logger,
	})

	// Optional: readiness reports degraded, not down, when the source fails.
	if err := healthRegistry.Register(quoteClient); err != nil {
		return fmt.Errorf("registering quote client health check: %w", err)
	}

	// 10. Create application services
	quoteService := app.NewQuoteService(app.QuoteServiceConfig{
		QuoteClient:  quoteClient,
		Logger:       logger,
		FetchTimeout: cfg.Quotes.FetchTimeout,
		ProbeTimeout: cfg.Quotes.ProbeTimeout,
	})

	moodService := app.NewMoodService(app.MoodServiceConfig{
		Quotes: quoteService,
		States: quotestate.NewManager(quotestate.Config{
			KV:         kv,
			Logger:     logger,
			KeyPrefix:  cfg.Storage.KeyPrefix,
			HistoryMax: cfg.State.HistoryMax,
		}),
		Analyzer: sentiment.NewAnalyzer(words),
		Logger:   logger,
	})

	// 11. Create handlers
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo.WithRuntime(cfg.Storage.Backend, words.Len()))

	// 12. Create HTTP server and router
	server := http.New(&cfg.Server, cfg.App.Environment, logger)
	http.SetupRouter(server.Engine(), http.NewDefaultRouterConfig(logger, &cfg.App, healthHandler, moodService))

	// 13. Start server (non-blocking)
	serverErr, err := server.Start()
	if err != nil {
		return err
	}

	// 14. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then performs graceful shutdown of the HTTP server. The state store is
// closed by the caller once in-flight requests have drained.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
