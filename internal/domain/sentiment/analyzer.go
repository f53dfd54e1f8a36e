// Package sentiment scores text against a word polarity lexicon.
//
// The analyzer is total and deterministic: any string, including the empty
// one, yields a MoodAnalysis, and the same text always yields the same result.
package sentiment

import (
	"github.com/jsamuelsen/mood-quote-service/internal/domain"
)

// Lexicon maps a lowercase word to its integer polarity.
type Lexicon interface {
	// Polarity returns the word's score and whether the word is known.
	Polarity(word string) (int, bool)
}

// LexiconFunc adapts a plain function to the Lexicon interface.
type LexiconFunc func(word string) (int, bool)

// Polarity implements Lexicon.
func (f LexiconFunc) Polarity(word string) (int, bool) {
	return f(word)
}

// MapLexicon is a Lexicon backed by a map. Keys must be lowercase.
type MapLexicon map[string]int

// Polarity implements Lexicon.
func (m MapLexicon) Polarity(word string) (int, bool) {
	score, ok := m[word]
	return score, ok
}

// Analyzer computes mood analyses. Safe for concurrent use as long as the
// lexicon is.
type Analyzer struct {
	lexicon Lexicon
}

// NewAnalyzer creates an Analyzer over the given lexicon.
// Panics if lexicon is nil.
func NewAnalyzer(lexicon Lexicon) *Analyzer {
	if lexicon == nil {
		panic("sentiment: lexicon is required")
	}

	return &Analyzer{lexicon: lexicon}
}

// Analyze scores text.
func (a *Analyzer) Analyze(text string) domain.MoodAnalysis {
	tokens := Tokenize(text)

	result := domain.MoodAnalysis{
		Mood: domain.MoodNeutral,
		Words: domain.ContributingWords{
			Positive: []string{},
			Negative: []string{},
		},
	}

	for _, token := range tokens {
		score, ok := a.lexicon.Polarity(token)
		if !ok || score == 0 {
			continue
		}

		result.RawScore += score
		if score > 0 {
			result.Words.Positive = append(result.Words.Positive, token)
		} else {
			result.Words.Negative = append(result.Words.Negative, token)
		}
	}

	if len(tokens) > 0 {
		result.ComparativeScore = float64(result.RawScore) / float64(len(tokens))
	}

	result.Mood = domain.ClassifyMood(result.ComparativeScore)
	result.Intensity = domain.IntensityOf(result.ComparativeScore)

	return result
}
