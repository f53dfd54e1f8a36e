package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jsamuelsen/mood-quote-service/internal/domain"
	"github.com/jsamuelsen/mood-quote-service/internal/domain/palette"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	noteStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

// cardStyle paints a block in the scheme's colors.
func cardStyle(s palette.Scheme) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.Text.Hex())).
		Background(lipgloss.Color(s.Primary.Hex())).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(s.Secondary.Hex())).
		Padding(0, 2).
		Width(64)
}

func renderAnalysis(a domain.MoodAnalysis) string {
	scheme := palette.ForAnalysis(&a)

	lines := []string{
		headerStyle.Render(a.Label()),
		fmt.Sprintf("mood:        %s", a.Mood),
		fmt.Sprintf("intensity:   %d%%", a.IntensityPercent()),
		fmt.Sprintf("score:       %d (comparative %.3f)", a.RawScore, a.ComparativeScore),
		fmt.Sprintf("positive:    %s", wordList(a.Words.Positive)),
		fmt.Sprintf("negative:    %s", wordList(a.Words.Negative)),
	}

	return cardStyle(scheme).Render(strings.Join(lines, "\n"))
}

func renderQuote(q domain.Quote, a domain.MoodAnalysis) string {
	body := fmt.Sprintf("%q\n\n- %s", q.Text, q.AuthorOrUnknown())
	if len(q.Tags) > 0 {
		body += "\n" + mutedStyle.Render("#"+strings.Join(q.Tags, " #"))
	}

	out := cardStyle(palette.ForAnalysis(&a)).Render(body) + "\n" + renderAnalysis(a)
	if q.IsFallback() {
		out += "\n" + noteStyle.Render("Quote source unavailable, showing a fallback quote.")
	}

	return out
}

func wordList(words []string) string {
	if len(words) == 0 {
		return "-"
	}

	return strings.Join(words, ", ")
}
