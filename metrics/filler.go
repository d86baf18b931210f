package metrics

// Lexicon is a set of filler terms to detect in a transcript. Entries may be
// single words ("um") or multi-word phrases ("you know"); matching is
// case-insensitive against normalized tokens.
type Lexicon struct {
	entries [][]string // normalized token sequences, longest first per start token
	maxLen  int
}

// NewLexicon builds a Lexicon from raw terms. Terms are normalized the same
// way transcript tokens are, so "Um," and "um" are the same entry.
func NewLexicon(terms []string) Lexicon {
	norm := newNormalizer()

	var lex Lexicon
	seen := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		tokens := norm.phrase(term)
		if len(tokens) == 0 {
			continue
		}
		key := join(tokens)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		lex.entries = append(lex.entries, tokens)
		if len(tokens) > lex.maxLen {
			lex.maxLen = len(tokens)
		}
	}
	return lex
}

// defaultFillerTerms are the disfluencies flagged for English speech.
var defaultFillerTerms = []string{
	"um", "uh", "er", "ah", "hmm",
	"like", "you know", "sort of", "kind of", "i mean",
	"basically", "actually", "literally",
}

// fillerTermsByLanguage maps ISO 639-1 codes to language-specific lexicons.
// Languages without an entry fall back to the English defaults, which cover
// the near-universal hesitation sounds.
var fillerTermsByLanguage = map[string][]string{
	"en": defaultFillerTerms,
	"es": {"em", "eh", "este", "pues", "o sea", "bueno", "tipo"},
	"de": {"ähm", "äh", "halt", "quasi", "sozusagen", "also"},
	"fr": {"euh", "ben", "bah", "genre", "en fait", "du coup"},
}

// DefaultLexicon returns the English filler lexicon.
func DefaultLexicon() Lexicon {
	return NewLexicon(defaultFillerTerms)
}

// LexiconForLanguage returns the lexicon for an ISO 639-1 language code,
// merged with any extra user-configured terms. Unknown codes get the
// English defaults.
func LexiconForLanguage(code string, extra []string) Lexicon {
	terms, ok := fillerTermsByLanguage[code]
	if !ok {
		terms = defaultFillerTerms
	}
	if len(extra) == 0 {
		return NewLexicon(terms)
	}
	merged := make([]string, 0, len(terms)+len(extra))
	merged = append(merged, terms...)
	merged = append(merged, extra...)
	return NewLexicon(merged)
}

// Empty reports whether the lexicon has no entries.
func (l Lexicon) Empty() bool {
	return len(l.entries) == 0
}

// matchAt returns the length in tokens of the longest lexicon entry that
// matches the token stream starting at position i, or 0 when nothing matches.
func (l Lexicon) matchAt(tokens []string, i int) int {
	best := 0
	for _, entry := range l.entries {
		n := len(entry)
		if n <= best || i+n > len(tokens) {
			continue
		}
		if equalAt(tokens, i, entry) {
			best = n
		}
	}
	return best
}

// countFillers counts non-overlapping lexicon matches, greedy left-to-right
// with longest-entry preference at each position.
func countFillers(tokens []string, lex Lexicon) int {
	if lex.Empty() {
		return 0
	}

	count := 0
	for i := 0; i < len(tokens); {
		if n := lex.matchAt(tokens, i); n > 0 {
			count++
			i += n
			continue
		}
		i++
	}
	return count
}

func equalAt(tokens []string, i int, entry []string) bool {
	for j, want := range entry {
		if tokens[i+j] != want {
			return false
		}
	}
	return true
}

func join(tokens []string) string {
	out := tokens[0]
	for _, t := range tokens[1:] {
		out += " " + t
	}
	return out
}
