package domain

import (
	"math"
	"strings"
)

// Mood is the sentiment class of a piece of text.
type Mood string

// Mood values.
const (
	MoodPositive Mood = "positive"
	MoodNeutral  Mood = "neutral"
	MoodNegative Mood = "negative"
)

// Classification thresholds on the comparative score. Comparisons are strict.
const (
	PositiveThreshold = 0.2
	NegativeThreshold = -0.2
)

// ParseMood converts a string into a Mood. Matching is case-insensitive.
func ParseMood(s string) (Mood, error) {
	switch m := Mood(strings.ToLower(strings.TrimSpace(s))); m {
	case MoodPositive, MoodNeutral, MoodNegative:
		return m, nil
	default:
		return "", NewValidationErrorWithValue("mood", "must be one of positive, neutral, negative", s)
	}
}

// ClassifyMood maps a comparative score to a Mood.
func ClassifyMood(comparative float64) Mood {
	switch {
	case comparative > PositiveThreshold:
		return MoodPositive
	case comparative < NegativeThreshold:
		return MoodNegative
	default:
		return MoodNeutral
	}
}

// IntensityOf scales a comparative score into [0,1], saturating at |0.5|.
func IntensityOf(comparative float64) float64 {
	return math.Min(math.Abs(comparative)*2, 1.0)
}

// ContributingWords lists matched tokens by polarity sign, in text order.
type ContributingWords struct {
	Positive []string `json:"positive"`
	Negative []string `json:"negative"`
}

// MoodAnalysis is the result of scoring a text against a polarity lexicon.
type MoodAnalysis struct {
	RawScore         int               `json:"rawScore"`
	ComparativeScore float64           `json:"comparativeScore"`
	Mood             Mood              `json:"mood"`
	Intensity        float64           `json:"intensity"`
	Words            ContributingWords `json:"contributingWords"`
}

// Label renders the analysis as a human phrase such as "Very Positive".
func (a *MoodAnalysis) Label() string {
	if a == nil || a.Mood == "" {
		return "Neutral"
	}

	var prefix string
	switch {
	case a.Intensity < 0.3:
		prefix = "Slightly "
	case a.Intensity < 0.7:
		prefix = "Moderately "
	default:
		prefix = "Very "
	}

	m := string(a.Mood)

	return prefix + strings.ToUpper(m[:1]) + m[1:]
}

// IntensityPercent returns the intensity as a rounded percentage. A nil
// analysis reports 50.
func (a *MoodAnalysis) IntensityPercent() int {
	if a == nil {
		return 50
	}

	return int(math.Round(a.Intensity * 100))
}
