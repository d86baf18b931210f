package app

import (
	"fmt"
	"io"
	"strings"

	"speechcoach/internal/types"
)

// RenderText writes a human-readable analysis report.
func RenderText(w io.Writer, res *types.AnalysisResult) {
	fmt.Fprintln(w, "Speech Analysis Results")
	fmt.Fprintln(w, strings.Repeat("=", 23))

	m := res.Metrics
	fmt.Fprintf(w, "\nWords/minute:   %.1f\n", m.WordsPerMinute)
	fmt.Fprintf(w, "Filler words:   %d (%.1f/min)\n", m.FillerCount, m.FillerRatePerMinute)
	fmt.Fprintf(w, "Average pause:  %.2fs\n", m.AveragePauseSeconds)
	fmt.Fprintf(w, "Long pauses:    %d\n", m.LongPauseCount)
	fmt.Fprintf(w, "Duration:       %.1fs (%d words)\n", m.TotalDurationSeconds, m.WordCount)

	s := res.Scores
	fmt.Fprintf(w, "\nScores (1-5)\n")
	fmt.Fprintf(w, "  Pace:        %d\n", s.Pace)
	fmt.Fprintf(w, "  Clarity:     %d\n", s.Clarity)
	fmt.Fprintf(w, "  Fluency:     %d\n", s.Fluency)
	fmt.Fprintf(w, "  Conciseness: %d\n", s.Conciseness)
	fmt.Fprintf(w, "  Overall:     %d\n", s.Overall)

	if res.Transcript.Text != "" {
		fmt.Fprintf(w, "\nTranscript\n%s\n", res.Transcript.Text)
	}

	if fb := res.Feedback; fb != nil {
		writeList(w, "Strengths", fb.Strengths)
		writeList(w, "Areas to improve", fb.Improvements)
		writeList(w, "Recommended practice", fb.PracticeDrills)
	}
}

func writeList(w io.Writer, title string, items []string) {
	fmt.Fprintf(w, "\n%s\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}
