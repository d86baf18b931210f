package metrics

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// normalizer prepares raw word tokens for lexicon matching: Unicode case
// folding plus stripping of surrounding punctuation. Interior punctuation
// (apostrophes in "y'know", hyphens) is kept.
//
// cases.Caser is stateful, so a normalizer must not be shared between
// goroutines; callers create one per computation.
type normalizer struct {
	folder cases.Caser
}

func newNormalizer() normalizer {
	return normalizer{folder: cases.Fold()}
}

// token normalizes a single transcript token.
func (n normalizer) token(s string) string {
	s = strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r)
	})
	return n.folder.String(s)
}

// phrase splits a lexicon entry on whitespace and normalizes each part.
// Empty parts are dropped, so "  you   know " becomes ["you", "know"].
func (n normalizer) phrase(s string) []string {
	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := n.token(f); t != "" {
			out = append(out, t)
		}
	}
	return out
}
