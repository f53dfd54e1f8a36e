package quotestate

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/jsamuelsen/mood-quote-service/internal/domain"
)

// Older clients persisted records in other shapes: ids under "_id", text under
// "content", fetch stamps under "date", analyzed quotes flattened next to their
// analysis, analyses carrying "score"/"comparative" and bare word lists, and
// history stamps under "viewed". The wire types below accept both layouts and
// normalize to the canonical domain shape. Writes always use the domain types.

type storedQuote struct {
	ID        string     `json:"id"`
	LegacyID  string     `json:"_id"`
	Text      string     `json:"text"`
	Content   string     `json:"content"`
	Author    string     `json:"author"`
	Tags      []string   `json:"tags"`
	FetchedAt *time.Time `json:"fetchedAt"`
	Date      *time.Time `json:"date"`
}

func (s *storedQuote) legacy() bool {
	return s.LegacyID != "" || s.Content != "" || s.Date != nil
}

func (s *storedQuote) normalize() (domain.Quote, bool) {
	q := domain.Quote{
		ID:     firstNonEmpty(s.ID, s.LegacyID),
		Text:   firstNonEmpty(s.Text, s.Content),
		Author: s.Author,
	}

	if len(s.Tags) > 0 {
		q.Tags = s.Tags
	}

	switch {
	case s.FetchedAt != nil:
		q.FetchedAt = *s.FetchedAt
	case s.Date != nil:
		q.FetchedAt = *s.Date
	}

	if q.ID == "" || strings.TrimSpace(q.Text) == "" {
		return domain.Quote{}, false
	}

	return q, true
}

type storedWords struct {
	Positive []string `json:"positive"`
	Negative []string `json:"negative"`
}

type storedAnalysis struct {
	RawScore          *int         `json:"rawScore"`
	ComparativeScore  *float64     `json:"comparativeScore"`
	Mood              domain.Mood  `json:"mood"`
	Intensity         *float64     `json:"intensity"`
	ContributingWords *storedWords `json:"contributingWords"`

	Score       *float64     `json:"score"`
	Comparative *float64     `json:"comparative"`
	Words       *storedWords `json:"words"`
	Positive    []string     `json:"positive"`
	Negative    []string     `json:"negative"`
}

func (s *storedAnalysis) legacy() bool {
	return s.Score != nil || s.Comparative != nil || s.Words != nil ||
		s.Positive != nil || s.Negative != nil
}

// normalize derives any field the stored record lacks from the scores it does
// carry, so mood and intensity stay consistent with the comparative score.
func (s *storedAnalysis) normalize() domain.MoodAnalysis {
	var a domain.MoodAnalysis

	// "score" is the raw sum when stored next to "comparative". Alone it
	// holds the comparative score and the raw sum is lost.
	switch {
	case s.RawScore != nil:
		a.RawScore = *s.RawScore
	case s.Score != nil && s.Comparative != nil:
		a.RawScore = int(math.Round(*s.Score))
	}

	switch {
	case s.ComparativeScore != nil:
		a.ComparativeScore = *s.ComparativeScore
	case s.Comparative != nil:
		a.ComparativeScore = *s.Comparative
	case s.Score != nil:
		a.ComparativeScore = *s.Score
	}

	a.Mood = s.Mood
	if _, err := domain.ParseMood(string(a.Mood)); err != nil {
		a.Mood = domain.ClassifyMood(a.ComparativeScore)
	}

	if s.Intensity != nil && *s.Intensity >= 0 && *s.Intensity <= 1 {
		a.Intensity = *s.Intensity
	} else {
		a.Intensity = domain.IntensityOf(a.ComparativeScore)
	}

	switch {
	case s.ContributingWords != nil:
		a.Words = domain.ContributingWords(*s.ContributingWords)
	case s.Words != nil:
		a.Words = domain.ContributingWords(*s.Words)
	default:
		a.Words = domain.ContributingWords{Positive: s.Positive, Negative: s.Negative}
	}

	if a.Words.Positive == nil {
		a.Words.Positive = []string{}
	}
	if a.Words.Negative == nil {
		a.Words.Negative = []string{}
	}

	return a
}

// storedEntry decodes favorites and history entries. The embedded quote
// catches the flattened layout; Quote catches the nested one.
type storedEntry struct {
	storedQuote

	Quote    *storedQuote    `json:"quote"`
	Analysis *storedAnalysis `json:"analysis"`
	ViewedAt *time.Time      `json:"viewedAt"`
	Viewed   *time.Time      `json:"viewed"`
}

func (s *storedEntry) normalize() (domain.HistoryEntry, bool, bool) {
	src := s.Quote
	legacy := false

	if src == nil {
		src = &s.storedQuote
		legacy = true
	}

	q, ok := src.normalize()
	if !ok {
		return domain.HistoryEntry{}, false, false
	}

	legacy = legacy || src.legacy()

	var analysis domain.MoodAnalysis
	if s.Analysis != nil {
		analysis = s.Analysis.normalize()
		legacy = legacy || s.Analysis.legacy()
	} else {
		analysis = (&storedAnalysis{}).normalize()
	}

	entry := domain.HistoryEntry{
		AnalyzedQuote: domain.AnalyzedQuote{Quote: q, Analysis: analysis},
	}

	switch {
	case s.ViewedAt != nil:
		entry.ViewedAt = *s.ViewedAt
	case s.Viewed != nil:
		entry.ViewedAt = *s.Viewed
		legacy = true
	}

	return entry, legacy, true
}

// decodeQuote reads a stored current quote. ok is false when the record is
// unusable.
func decodeQuote(data []byte) (q domain.Quote, legacy, ok bool, err error) {
	var s storedQuote
	if err := json.Unmarshal(data, &s); err != nil {
		return domain.Quote{}, false, false, err
	}

	q, ok = s.normalize()

	return q, s.legacy(), ok, nil
}

// decodeEntries reads a stored list. Elements are decoded one by one, so an
// element that does not decode, or lacks an id or text, is dropped alone.
// err is set only when data is not a JSON array. legacy reports whether any
// entry used an older layout.
func decodeEntries(data []byte) (entries []domain.HistoryEntry, legacy bool, dropped int, err error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false, 0, err
	}

	entries = make([]domain.HistoryEntry, 0, len(raw))
	for _, elem := range raw {
		var stored storedEntry
		if err := json.Unmarshal(elem, &stored); err != nil {
			dropped++
			continue
		}

		e, wasLegacy, ok := stored.normalize()
		if !ok {
			dropped++
			continue
		}

		legacy = legacy || wasLegacy
		entries = append(entries, e)
	}

	return entries, legacy, dropped, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
