// Package lexicon provides the word polarity table consumed by the sentiment
// analyzer. A default AFINN-style table is embedded; deployments may merge
// their own entries over it from a YAML file.
package lexicon

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jsamuelsen/mood-quote-service/internal/domain/sentiment"
)

//go:embed afinn.yaml
var defaultTable []byte

// Score bounds accepted in a table.
const (
	MinScore = -5
	MaxScore = 5
)

// Table is an immutable word to polarity mapping.
type Table struct {
	scores map[string]int
}

var _ sentiment.Lexicon = (*Table)(nil)

// Default returns the embedded table.
func Default() (*Table, error) {
	scores, err := parse(defaultTable, "embedded")
	if err != nil {
		return nil, err
	}

	return &Table{scores: scores}, nil
}

// Load returns the embedded table with the entries of overridePath merged on
// top. An empty path returns the embedded table unchanged.
func Load(overridePath string) (*Table, error) {
	table, err := Default()
	if err != nil {
		return nil, err
	}

	if overridePath == "" {
		return table, nil
	}

	data, err := os.ReadFile(overridePath)
	if err != nil {
		return nil, fmt.Errorf("reading lexicon %s: %w", overridePath, err)
	}

	overrides, err := parse(data, overridePath)
	if err != nil {
		return nil, err
	}

	for word, score := range overrides {
		table.scores[word] = score
	}

	return table, nil
}

// FromMap builds a table from an in-memory mapping. Keys are lowercased.
func FromMap(m map[string]int) *Table {
	scores := make(map[string]int, len(m))
	for word, score := range m {
		scores[strings.ToLower(word)] = score
	}

	return &Table{scores: scores}
}

// Polarity implements sentiment.Lexicon.
func (t *Table) Polarity(word string) (int, bool) {
	score, ok := t.scores[word]
	return score, ok
}

// Len returns the number of words in the table.
func (t *Table) Len() int {
	return len(t.scores)
}

func parse(data []byte, source string) (map[string]int, error) {
	raw := make(map[string]int)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing lexicon %s: %w", source, err)
	}

	scores := make(map[string]int, len(raw))
	for word, score := range raw {
		if score < MinScore || score > MaxScore {
			return nil, fmt.Errorf("lexicon %s: score %d for %q outside [%d,%d]",
				source, score, word, MinScore, MaxScore)
		}
		scores[strings.ToLower(strings.TrimSpace(word))] = score
	}

	return scores, nil
}
