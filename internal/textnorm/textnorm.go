// Package textnorm folds free text into a comparable form: lower case, no
// diacritics, punctuation collapsed to single spaces.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lower-cases s, strips combining marks and replaces every run of
// non-alphanumeric characters with a single space.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}

	var b strings.Builder
	b.Grow(len(stripped))
	pendingSpace := false
	for _, r := range stripped {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		pendingSpace = true
	}
	return b.String()
}

// Key folds s and removes the remaining spaces, for header and identifier matching.
func Key(s string) string {
	return strings.ReplaceAll(Fold(s), " ", "")
}

// Single letters are kept: in names like "Torre A" they tell entries apart.
var stopwords = map[string]struct{}{
	"de": {}, "da": {}, "do": {}, "das": {}, "dos": {},
	"the": {}, "of": {}, "and": {},
}

// Tokens returns the folded words of s without common connectives. When every
// word is a connective the full folded word list is returned instead.
func Tokens(s string) []string {
	words := strings.Fields(Fold(s))
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if _, skip := stopwords[w]; skip {
			continue
		}
		tokens = append(tokens, w)
	}
	if len(tokens) == 0 {
		return words
	}
	return tokens
}
