package dto

import (
	"strings"
	"time"

	"github.com/jsamuelsen/mood-quote-service/internal/domain"
	"github.com/jsamuelsen/mood-quote-service/internal/domain/palette"
)

// ColorResponse is one scheme color as CSS and hex.
type ColorResponse struct {
	CSS string `json:"css"`
	Hex string `json:"hex"`
}

// SchemeResponse is the color scheme for a mood.
type SchemeResponse struct {
	Primary   ColorResponse `json:"primary"`
	Secondary ColorResponse `json:"secondary"`
	Text      ColorResponse `json:"text"`
	LightText bool          `json:"lightText"`
}

// NewSchemeResponse converts a palette scheme.
func NewSchemeResponse(s palette.Scheme) SchemeResponse {
	return SchemeResponse{
		Primary:   colorOf(s.Primary),
		Secondary: colorOf(s.Secondary),
		Text:      colorOf(s.Text),
		LightText: palette.ShouldUseLightText(s.Primary.String()),
	}
}

func colorOf(c palette.HSL) ColorResponse {
	return ColorResponse{CSS: c.String(), Hex: c.Hex()}
}

// AnalysisResponse is a mood analysis with its display fields.
type AnalysisResponse struct {
	domain.MoodAnalysis

	Label            string `json:"label"`
	IntensityPercent int    `json:"intensityPercent"`
}

// NewAnalysisResponse converts an analysis.
func NewAnalysisResponse(a domain.MoodAnalysis) AnalysisResponse {
	if a.Words.Positive == nil {
		a.Words.Positive = []string{}
	}

	if a.Words.Negative == nil {
		a.Words.Negative = []string{}
	}

	return AnalysisResponse{
		MoodAnalysis:     a,
		Label:            a.Label(),
		IntensityPercent: a.IntensityPercent(),
	}
}

// MoodResponse answers an analyze request.
type MoodResponse struct {
	Analysis AnalysisResponse `json:"analysis"`
	Colors   SchemeResponse   `json:"colors"`
}

// QuoteResponse is a quote with its analysis and colors.
type QuoteResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	Tags      []string  `json:"tags"`
	FetchedAt time.Time `json:"fetchedAt"`
	Fallback  bool      `json:"fallback"`

	// Reused is set by the daily quote when the stored quote was served.
	Reused bool `json:"reused,omitempty"`

	Analysis AnalysisResponse `json:"analysis"`
	Colors   SchemeResponse   `json:"colors"`
}

// NewQuoteResponse converts an analyzed quote and its colors.
func NewQuoteResponse(aq domain.AnalyzedQuote, colors palette.Scheme, reused bool) QuoteResponse {
	tags := aq.Quote.Tags
	if tags == nil {
		tags = []string{}
	}

	return QuoteResponse{
		ID:        aq.Quote.ID,
		Text:      aq.Quote.Text,
		Author:    aq.Quote.AuthorOrUnknown(),
		Tags:      tags,
		FetchedAt: aq.Quote.FetchedAt,
		Fallback:  aq.Quote.IsFallback(),
		Reused:    reused,
		Analysis:  NewAnalysisResponse(aq.Analysis),
		Colors:    NewSchemeResponse(colors),
	}
}

// HistoryEntryResponse is one viewed quote.
type HistoryEntryResponse struct {
	QuoteResponse

	ViewedAt time.Time `json:"viewedAt"`
}

// NewHistoryEntryResponse converts a history entry.
func NewHistoryEntryResponse(e domain.HistoryEntry) HistoryEntryResponse {
	return HistoryEntryResponse{
		QuoteResponse: NewQuoteResponse(e.AnalyzedQuote, palette.ForAnalysis(&e.Analysis), false),
		ViewedAt:      e.ViewedAt,
	}
}

// AnalyzeRequest is the body of POST /mood/analyze.
type AnalyzeRequest struct {
	Text string `json:"text" validate:"max=10000"`
}

// ColorsQuery is the query of GET /mood/colors. A missing mood renders the
// neutral default; a missing intensity uses the default intensity.
type ColorsQuery struct {
	Mood      string   `form:"mood" json:"mood" validate:"omitempty,mood"`
	Intensity *float64 `form:"intensity" json:"intensity" validate:"omitempty,gte=0,lte=1"`
}

// MoodValue returns the normalized mood, or neutral when none was given.
func (q *ColorsQuery) MoodValue() domain.Mood {
	m, err := domain.ParseMood(q.Mood)
	if err != nil {
		return domain.MoodNeutral
	}

	return m
}

// AddFavoriteRequest is the body of POST /favorites.
type AddFavoriteRequest struct {
	ID        string    `json:"id" validate:"required,quoteid"`
	Text      string    `json:"text" validate:"required,notblank,max=10000"`
	Author    string    `json:"author" validate:"max=256"`
	Tags      []string  `json:"tags" validate:"max=32,dive,max=64"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// Validate rejects blank tags.
func (r *AddFavoriteRequest) Validate() error {
	for i, tag := range r.Tags {
		if strings.TrimSpace(tag) == "" {
			return domain.NewValidationErrorWithValue("tags", "must not contain blank tags", i)
		}
	}

	return nil
}

// Quote converts the request to a domain quote.
func (r *AddFavoriteRequest) Quote() domain.Quote {
	return domain.Quote{
		ID:        r.ID,
		Text:      r.Text,
		Author:    r.Author,
		Tags:      r.Tags,
		FetchedAt: r.FetchedAt,
	}
}

// FavoriteStatusResponse answers GET /favorites/:id.
type FavoriteStatusResponse struct {
	ID       string `json:"id"`
	Favorite bool   `json:"favorite"`
}

// AvailabilityResponse answers GET /quotes/availability.
type AvailabilityResponse struct {
	Available bool `json:"available"`
}
