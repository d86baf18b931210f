// Package langdetect identifies the language of a transcript so the right
// filler lexicon can be applied.
package langdetect

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// Detection is restricted to the languages we carry filler lexicons for;
// everything else would fall back to the English lexicon anyway.
var languages = []lingua.Language{
	lingua.English,
	lingua.Spanish,
	lingua.German,
	lingua.French,
}

// Detector wraps a lingua detector. Building one is expensive; reuse it.
type Detector struct {
	inner lingua.LanguageDetector
}

// New creates a detector for the supported lexicon languages.
func New() *Detector {
	return &Detector{
		inner: lingua.NewLanguageDetectorBuilder().
			FromLanguages(languages...).
			Build(),
	}
}

// Detect returns the lowercase ISO 639-1 code of the text's language, or ""
// when the text is empty or the language cannot be determined.
func (d *Detector) Detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	lang, ok := d.inner.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
