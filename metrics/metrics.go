// Package metrics turns a word-timestamped transcript into objective speech
// delivery metrics and rule-based coaching scores. All computations are pure:
// identical inputs always produce identical outputs, inputs are never
// mutated, and no package-level state is touched, so the package is safe for
// concurrent use across transcripts.
package metrics

import (
	"errors"
	"fmt"

	"speechcoach/internal/types"
)

// ErrInvalidInput marks malformed analysis input: a negative clip duration or
// a word whose end precedes its start. It is surfaced to the caller, never
// silently corrected.
var ErrInvalidInput = errors.New("invalid input")

// Options configures metric extraction.
type Options struct {
	// Lexicon is the set of filler terms to detect.
	Lexicon Lexicon
	// LongPauseThreshold is the inclusive lower bound, in seconds, for a
	// pause to count as long.
	LongPauseThreshold float64
}

// DefaultOptions returns the English lexicon and a 1.0s long-pause threshold.
func DefaultOptions() Options {
	return Options{
		Lexicon:            DefaultLexicon(),
		LongPauseThreshold: types.DefaultLongPauseThreshold,
	}
}

// Compute derives a MetricsReport from a transcript and the clip's true
// duration. The duration is independent of the transcript span because
// leading and trailing silence carries no word timestamps.
//
// An empty transcript is valid input, and a zero duration yields zero rates
// rather than an error; only a negative duration or a word with End < Start
// fails, with ErrInvalidInput. On error no report is returned.
func Compute(t types.Transcript, totalDurationSeconds float64, opts Options) (types.MetricsReport, error) {
	if totalDurationSeconds < 0 {
		return types.MetricsReport{}, fmt.Errorf("%w: negative duration %.3fs", ErrInvalidInput, totalDurationSeconds)
	}
	for i, w := range t.Words {
		if w.End < w.Start {
			return types.MetricsReport{}, fmt.Errorf("%w: word %d (%q) ends at %.3fs before start %.3fs",
				ErrInvalidInput, i, w.Text, w.End, w.Start)
		}
	}

	norm := newNormalizer()
	tokens := make([]string, len(t.Words))
	for i, w := range t.Words {
		tokens[i] = norm.token(w.Text)
	}

	fillers := countFillers(tokens, opts.Lexicon)
	pauses := analyzePauses(t.Words, opts.LongPauseThreshold)

	// Rates are computed as count*60/duration rather than count/(duration/60)
	// to keep round numbers exact in floating point.
	var wpm, fillerRate float64
	if totalDurationSeconds > 0 {
		wpm = float64(len(t.Words)) * 60 / totalDurationSeconds
		fillerRate = float64(fillers) * 60 / totalDurationSeconds
	}

	return types.MetricsReport{
		WordsPerMinute:       wpm,
		FillerCount:          fillers,
		FillerRatePerMinute:  fillerRate,
		AveragePauseSeconds:  pauses.average,
		LongPauseCount:       pauses.longCount,
		TotalDurationSeconds: totalDurationSeconds,
		WordCount:            len(t.Words),
	}, nil
}
