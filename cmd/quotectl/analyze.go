package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/mood-quote-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/mood-quote-service/internal/domain/palette"
)

func newAnalyzeCmd(flags *rootFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze <text...>",
		Short: "Score the mood of a text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}

			analyzer, err := flags.analyzer(cfg)
			if err != nil {
				return err
			}

			analysis := analyzer.Analyze(strings.Join(args, " "))

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(dto.MoodResponse{
					Analysis: dto.NewAnalysisResponse(analysis),
					Colors:   dto.NewSchemeResponse(palette.ForAnalysis(&analysis)),
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderAnalysis(analysis))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the analysis as JSON")

	return cmd
}
