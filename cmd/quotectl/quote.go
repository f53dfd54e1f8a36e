package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/mood-quote-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/mood-quote-service/internal/app"
	"github.com/jsamuelsen/mood-quote-service/internal/domain"
	"github.com/jsamuelsen/mood-quote-service/internal/domain/palette"
)

func newQuoteCmd(flags *rootFlags) *cobra.Command {
	var (
		tag    string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Fetch a quote and show its mood",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if tag != "" {
				if err := app.ValidateTag(tag); err != nil {
					return err
				}
			}

			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}

			quotes, err := flags.quoteService(cmd, cfg)
			if err != nil {
				return err
			}

			analyzer, err := flags.analyzer(cfg)
			if err != nil {
				return err
			}

			var q domain.Quote
			if tag != "" {
				q = quotes.GetQuoteByTag(cmd.Context(), tag)
			} else {
				q = quotes.GetRandomQuote(cmd.Context())
			}

			analysis := analyzer.Analyze(q.Text)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(dto.NewQuoteResponse(
					domain.AnalyzedQuote{Quote: q, Analysis: analysis},
					palette.ForAnalysis(&analysis),
					false,
				))
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderQuote(q, analysis))
			return nil
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "Only fetch quotes with this tag")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the quote as JSON")

	return cmd
}
