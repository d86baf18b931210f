package metrics

import (
	"errors"
	"reflect"
	"testing"

	"speechcoach/internal/types"
)

// evenWords builds a transcript of words spaced gap seconds apart, each
// lasting dur seconds.
func evenWords(texts []string, dur, gap float64) types.Transcript {
	words := make([]types.Word, len(texts))
	t := 0.0
	for i, text := range texts {
		words[i] = types.Word{Text: text, Start: t, End: t + dur}
		t += dur + gap
	}
	return types.Transcript{Words: words}
}

func TestCompute_FillersAndPace(t *testing.T) {
	// Six words spaced 0.3s apart over a 3.0s clip.
	tr := evenWords([]string{"um", "I", "think", "uh", "it's", "good"}, 0.3, 0)

	opts := Options{
		Lexicon:            NewLexicon([]string{"um", "uh"}),
		LongPauseThreshold: 1.0,
	}

	got, err := Compute(tr, 3.0, opts)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if got.FillerCount != 2 {
		t.Errorf("FillerCount = %d, want 2", got.FillerCount)
	}
	if got.WordsPerMinute != 120.0 {
		t.Errorf("WordsPerMinute = %v, want 120.0", got.WordsPerMinute)
	}
	if got.FillerRatePerMinute != 40.0 {
		t.Errorf("FillerRatePerMinute = %v, want 40.0", got.FillerRatePerMinute)
	}
	if got.WordCount != 6 {
		t.Errorf("WordCount = %d, want 6", got.WordCount)
	}
}

func TestCompute_SinglePause(t *testing.T) {
	tr := types.Transcript{Words: []types.Word{
		{Text: "hello", Start: 0.0, End: 0.5},
		{Text: "world", Start: 2.5, End: 3.0},
	}}

	got, err := Compute(tr, 3.0, DefaultOptions())
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if got.LongPauseCount != 1 {
		t.Errorf("LongPauseCount = %d, want 1", got.LongPauseCount)
	}
	if got.AveragePauseSeconds != 2.0 {
		t.Errorf("AveragePauseSeconds = %v, want 2.0", got.AveragePauseSeconds)
	}
}

func TestCompute_ZeroDuration(t *testing.T) {
	tr := evenWords([]string{"um", "hello"}, 0.3, 0)

	got, err := Compute(tr, 0, DefaultOptions())
	if err != nil {
		t.Fatalf("Compute() error = %v, want nil for zero duration", err)
	}

	if got.WordsPerMinute != 0 {
		t.Errorf("WordsPerMinute = %v, want 0", got.WordsPerMinute)
	}
	if got.FillerRatePerMinute != 0 {
		t.Errorf("FillerRatePerMinute = %v, want 0", got.FillerRatePerMinute)
	}
	// Counts are still reported even when rates cannot be.
	if got.FillerCount != 1 {
		t.Errorf("FillerCount = %d, want 1", got.FillerCount)
	}
}

func TestCompute_EmptyTranscript(t *testing.T) {
	got, err := Compute(types.Transcript{}, 10.0, DefaultOptions())
	if err != nil {
		t.Fatalf("Compute() error = %v, want nil for empty transcript", err)
	}

	want := types.MetricsReport{TotalDurationSeconds: 10.0}
	if got != want {
		t.Errorf("Compute() = %+v, want %+v", got, want)
	}
}

func TestCompute_InvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		tr       types.Transcript
		duration float64
	}{
		{
			name:     "negative duration",
			tr:       evenWords([]string{"hello"}, 0.3, 0),
			duration: -1.0,
		},
		{
			name: "word ends before it starts",
			tr: types.Transcript{Words: []types.Word{
				{Text: "broken", Start: 2.0, End: 1.0},
			}},
			duration: 5.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.tr, tt.duration, DefaultOptions())
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Compute() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestCompute_NegativeGapClamped(t *testing.T) {
	// Overlapping words: the negative gap is clamped to zero and must not
	// drag the average below the real pauses.
	tr := types.Transcript{Words: []types.Word{
		{Text: "a", Start: 0.0, End: 1.0},
		{Text: "b", Start: 0.5, End: 1.5}, // overlaps previous word
		{Text: "c", Start: 2.5, End: 3.0}, // 1.0s pause
	}}

	got, err := Compute(tr, 3.0, DefaultOptions())
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if got.AveragePauseSeconds != 1.0 {
		t.Errorf("AveragePauseSeconds = %v, want 1.0", got.AveragePauseSeconds)
	}
	if got.LongPauseCount != 1 {
		t.Errorf("LongPauseCount = %d, want 1", got.LongPauseCount)
	}
}

func TestCompute_LongPauseBoundaryInclusive(t *testing.T) {
	tests := []struct {
		name string
		gap  float64
		want int
	}{
		{"gap exactly at threshold counts as long", 1.0, 1},
		{"gap just under threshold does not", 0.999, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := types.Transcript{Words: []types.Word{
				{Text: "a", Start: 0.0, End: 0.5},
				{Text: "b", Start: 0.5 + tt.gap, End: 1.0 + tt.gap},
			}}

			got, err := Compute(tr, 5.0, DefaultOptions())
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			if got.LongPauseCount != tt.want {
				t.Errorf("LongPauseCount = %d, want %d", got.LongPauseCount, tt.want)
			}
		})
	}
}

func TestCompute_Idempotent(t *testing.T) {
	tr := evenWords([]string{"um", "so", "I", "was", "like", "thinking"}, 0.25, 0.4)

	first, err := Compute(tr, 12.5, DefaultOptions())
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	second, err := Compute(tr, 12.5, DefaultOptions())
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated Compute() differs:\nfirst  = %+v\nsecond = %+v", first, second)
	}
}

func TestCompute_FillerCountBounds(t *testing.T) {
	transcripts := []types.Transcript{
		{},
		evenWords([]string{"um"}, 0.3, 0),
		evenWords([]string{"um", "uh", "um", "uh"}, 0.3, 0),
		evenWords([]string{"you", "know", "you", "know", "what", "I", "mean"}, 0.2, 0.1),
		evenWords([]string{"clean", "speech", "with", "no", "disfluencies"}, 0.3, 0.2),
	}

	for _, tr := range transcripts {
		got, err := Compute(tr, 30.0, DefaultOptions())
		if err != nil {
			t.Fatalf("Compute() error = %v", err)
		}
		if got.FillerCount < 0 || got.FillerCount > got.WordCount {
			t.Errorf("FillerCount = %d out of bounds [0, %d]", got.FillerCount, got.WordCount)
		}
	}
}
