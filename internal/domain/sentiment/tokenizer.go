package sentiment

import (
	"strings"
	"unicode"
)

// stripped lists the punctuation removed before splitting. Apostrophes and
// hyphens are deliberately absent so contractions stay one token.
const stripped = ".,/#!?$%^&*;:{}=_`\"~()"

// Tokenize lowercases text, removes punctuation and splits on whitespace.
// Empty tokens are dropped.
func Tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(stripped, r) {
			return -1
		}
		return unicode.ToLower(r)
	}, text)

	return strings.Fields(cleaned)
}
