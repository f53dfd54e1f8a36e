package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/mood-quote-service/internal/app"
	"github.com/jsamuelsen/mood-quote-service/internal/domain"
)

// errCheckFailed makes the process exit non-zero after a failed check.
var errCheckFailed = errors.New("quote source check failed")

var suggestions = []string{
	"Check your internet connection",
	"Verify the quote API is operational",
	"Try again later",
	"The service keeps answering with fallback quotes while the source is down",
}

func newCheckCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Probe connectivity to the quote source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}

			quotes, err := flags.quoteService(cmd, cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerStyle.Render("Testing connection to the quote source..."))
			fmt.Fprintln(out, noteStyle.Render("URL: "+cfg.Quotes.BaseURL))

			d := quotes.Diagnose(cmd.Context())
			if d.Available {
				printSuccess(out, d)
				return nil
			}

			printFailure(out, d)
			return errCheckFailed
		},
	}
}

func printSuccess(w io.Writer, d app.Diagnosis) {
	fmt.Fprintln(w, successStyle.Render("✓ Connection successful!"))
	fmt.Fprintf(w, "Response time: %dms\n", d.Latency.Milliseconds())

	if d.Sample != nil {
		fmt.Fprintln(w, "\nSample quote received:")
		fmt.Fprintf(w, "%q\n- %s\n", d.Sample.Text, d.Sample.AuthorOrUnknown())
	}
}

func printFailure(w io.Writer, d app.Diagnosis) {
	fmt.Fprintln(w, failureStyle.Render("✗ Connection failed!"))
	fmt.Fprintf(w, "Response time: %dms\n", d.Latency.Milliseconds())

	for _, e := range []struct {
		step string
		err  error
	}{
		{"health probe", d.ProbeErr},
		{"sample fetch", d.FetchErr},
	} {
		if e.err != nil {
			fmt.Fprintf(w, "%s: %v\n", e.step, e.err)
		}
	}

	if causes := likelyCauses(d); len(causes) > 0 {
		fmt.Fprintln(w, "Possible causes:")
		for _, c := range causes {
			fmt.Fprintf(w, "  - %s\n", c)
		}
	}

	if os.Getenv("HTTP_PROXY") != "" || os.Getenv("HTTPS_PROXY") != "" {
		fmt.Fprintln(w, noteStyle.Render("Note: proxy settings detected. This might affect connectivity."))
	}

	fmt.Fprintln(w, "\nSuggestions:")
	for i, s := range suggestions {
		fmt.Fprintf(w, "%d. %s\n", i+1, s)
	}
}

func likelyCauses(d app.Diagnosis) []string {
	var unavailable, missing bool

	for _, err := range []error{d.ProbeErr, d.FetchErr} {
		switch {
		case err == nil:
		case domain.IsNotFound(err):
			missing = true
		case domain.IsUnavailable(err):
			unavailable = true
		}
	}

	var causes []string
	if unavailable {
		causes = append(causes,
			"The server is down or returned an error",
			"Network connectivity issues",
			"Timeout (request took too long)",
		)
	}
	if missing {
		causes = append(causes, "The URL does not point at the quote API")
	}

	return causes
}
