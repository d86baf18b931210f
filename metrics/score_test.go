package metrics

import (
	"testing"

	"speechcoach/internal/types"
)

// report builds a minimal non-empty report for score tests.
func report(wpm, fillerRate, avgPause float64, longPauses int, duration float64) types.MetricsReport {
	return types.MetricsReport{
		WordsPerMinute:       wpm,
		FillerRatePerMinute:  fillerRate,
		AveragePauseSeconds:  avgPause,
		LongPauseCount:       longPauses,
		TotalDurationSeconds: duration,
		WordCount:            100,
	}
}

func TestScore_Pace(t *testing.T) {
	tests := []struct {
		name string
		wpm  float64
		want int
	}{
		{"inside target range", 160, 5},
		{"lower bound", 140, 5},
		{"upper bound", 180, 5},
		{"one step slow", 125, 4},
		{"exactly one step slow", 120, 4},
		{"two steps slow", 119, 3},
		{"one step fast", 195, 4},
		{"far too fast", 300, 1},
		{"far too slow", 40, 1},
		{"zero wpm", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(report(tt.wpm, 0, 0, 0, 60), DefaultRules())
			if got.Pace != tt.want {
				t.Errorf("Pace = %d, want %d", got.Pace, tt.want)
			}
		})
	}
}

func TestScore_Fluency(t *testing.T) {
	// Default max filler rate is 3.0/min.
	tests := []struct {
		rate float64
		want int
	}{
		{0, 5},
		{1.5, 5},
		{3.0, 4},
		{4.5, 3},
		{6.0, 2},
		{6.1, 1},
	}

	for _, tt := range tests {
		got := Score(report(160, tt.rate, 0, 0, 60), DefaultRules())
		if got.Fluency != tt.want {
			t.Errorf("Fluency(rate=%v) = %d, want %d", tt.rate, got.Fluency, tt.want)
		}
	}
}

func TestScore_Clarity(t *testing.T) {
	tests := []struct {
		name       string
		avgPause   float64
		longPauses int
		want       int
	}{
		{"no hesitation", 0.5, 0, 5},
		{"two long pauses", 0.8, 2, 3},
		{"dragging average", 1.6, 0, 4},
		{"long pauses and dragging average", 1.6, 1, 3},
		{"floor at one", 0.9, 9, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(report(160, 0, tt.avgPause, tt.longPauses, 60), DefaultRules())
			if got.Clarity != tt.want {
				t.Errorf("Clarity = %d, want %d", got.Clarity, tt.want)
			}
		})
	}
}

func TestScore_Conciseness(t *testing.T) {
	tests := []struct {
		duration float64
		want     int
	}{
		{45, 5},
		{60, 5},
		{90, 4},
		{92, 3},
		{120, 3},
		{150, 2},
		{151, 1},
	}

	for _, tt := range tests {
		got := Score(report(160, 0, 0, 0, tt.duration), DefaultRules())
		if got.Conciseness != tt.want {
			t.Errorf("Conciseness(%vs) = %d, want %d", tt.duration, got.Conciseness, tt.want)
		}
	}
}

func TestScore_OverallRounding(t *testing.T) {
	// 160 WPM (pace 5), rate 3.0 (fluency 4), two long pauses (clarity 3),
	// 92s (conciseness 3): mean 3.75 rounds half-up to 4.
	got := Score(report(160, 3.0, 0.8, 2, 92), DefaultRules())
	if got.Overall != 4 {
		t.Errorf("Overall = %d, want 4", got.Overall)
	}

	// 160 WPM (5), rate 6.1 (1), nine long pauses (1), 151s (1): mean 2.0.
	got = Score(report(160, 6.1, 0.9, 9, 151), DefaultRules())
	if got.Overall != 2 {
		t.Errorf("Overall = %d, want 2", got.Overall)
	}

	// Midpoint: pace 5, fluency 4, clarity 3, conciseness 2 -> mean 3.5
	// rounds up to 4.
	got = Score(report(160, 3.0, 0.8, 2, 150), DefaultRules())
	if got.Overall != 4 {
		t.Errorf("Overall at midpoint = %d, want 4", got.Overall)
	}
}

func TestScore_EmptyTranscript(t *testing.T) {
	got := Score(types.MetricsReport{TotalDurationSeconds: 10}, DefaultRules())
	want := types.ScoreBreakdown{Pace: 1, Clarity: 1, Fluency: 1, Conciseness: 1, Overall: 1}
	if got != want {
		t.Errorf("Score(empty) = %+v, want %+v", got, want)
	}
}

func TestScore_AlwaysInRange(t *testing.T) {
	rules := DefaultRules()
	for _, wpm := range []float64{0, 10, 100, 160, 250, 1000} {
		for _, rate := range []float64{0, 2, 5, 50} {
			for _, long := range []int{0, 1, 10, 100} {
				for _, dur := range []float64{0, 30, 100, 600} {
					got := Score(report(wpm, rate, 1.2, long, dur), rules)
					for name, s := range map[string]int{
						"Pace": got.Pace, "Clarity": got.Clarity,
						"Fluency": got.Fluency, "Conciseness": got.Conciseness,
						"Overall": got.Overall,
					} {
						if s < 1 || s > 5 {
							t.Fatalf("%s = %d out of [1,5] for wpm=%v rate=%v long=%d dur=%v",
								name, s, wpm, rate, long, dur)
						}
					}
				}
			}
		}
	}
}
