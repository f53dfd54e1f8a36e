package main

import (
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/mood-quote-service/internal/adapters/clients"
	"github.com/jsamuelsen/mood-quote-service/internal/adapters/clients/acl"
	"github.com/jsamuelsen/mood-quote-service/internal/adapters/lexicon"
	"github.com/jsamuelsen/mood-quote-service/internal/app"
	"github.com/jsamuelsen/mood-quote-service/internal/domain/sentiment"
	"github.com/jsamuelsen/mood-quote-service/internal/platform/config"
	"github.com/jsamuelsen/mood-quote-service/internal/platform/logging"
)

type rootFlags struct {
	profile   string
	configDir string
	url       string
	timeout   time.Duration
	verbose   bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "quotectl",
		Short:         "Inspect the quote source and analyze text moods",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flags.profile, "profile", "local", "Configuration profile")
	cmd.PersistentFlags().StringVar(&flags.configDir, "config-dir", "configs", "Configuration directory")
	cmd.PersistentFlags().StringVar(&flags.url, "url", "", "Quote source base URL (overrides configuration)")
	cmd.PersistentFlags().DurationVar(&flags.timeout, "timeout", config.DefaultFetchTimeout, "Quote source request timeout")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log requests to stderr")

	cmd.AddCommand(newCheckCmd(flags))
	cmd.AddCommand(newAnalyzeCmd(flags))
	cmd.AddCommand(newQuoteCmd(flags))

	return cmd
}

// loadConfig reads the profile and applies flag overrides.
func (f *rootFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFrom(f.configDir, f.profile)
	if err != nil {
		return nil, err
	}

	if f.url != "" {
		cfg.Quotes.BaseURL = f.url
	}

	if f.timeout > 0 {
		cfg.Quotes.FetchTimeout = f.timeout
		cfg.Quotes.ProbeTimeout = f.timeout
	}

	return cfg, nil
}

func (f *rootFlags) logger(w io.Writer) *slog.Logger {
	if !f.verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return logging.NewWithWriter(&logging.Config{Level: "debug", Format: "pretty"}, w)
}

// quoteService builds the same quote pipeline the service runs: a rate
// limited, retrying client behind the anti-corruption adapter. Retries are
// off so a check reports the first failure.
func (f *rootFlags) quoteService(cmd *cobra.Command, cfg *config.Config) (*app.QuoteService, error) {
	logger := f.logger(cmd.ErrOrStderr())

	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Quotes.BaseURL,
		ServiceName: cfg.Quotes.Name,
		Timeout:     cfg.Quotes.FetchTimeout,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		RateLimit:   cfg.Quotes.RateLimit,
		Burst:       cfg.Quotes.Burst,
		UserAgent:   "quotectl",
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	return app.NewQuoteService(app.QuoteServiceConfig{
		QuoteClient:  acl.NewQuoteClient(acl.QuoteClientConfig{Client: httpClient, Logger: logger}),
		Logger:       logger,
		FetchTimeout: cfg.Quotes.FetchTimeout,
		ProbeTimeout: cfg.Quotes.ProbeTimeout,
	}), nil
}

func (f *rootFlags) analyzer(cfg *config.Config) (*sentiment.Analyzer, error) {
	words, err := lexicon.Load(cfg.Sentiment.LexiconPath)
	if err != nil {
		return nil, err
	}

	return sentiment.NewAnalyzer(words), nil
}
