// Package feedback provides the coaching-feedback collaborator: it turns a
// metrics report into qualitative strengths, improvements, and practice
// drills via an LLM. The package validates only the shape of what comes
// back; it never interprets the prose.
package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"speechcoach/internal/types"
)

// ErrUnavailable marks a feedback service failure. The analysis pipeline
// propagates it unchanged.
var ErrUnavailable = errors.New("feedback service unavailable")

// Request carries everything the generator needs about one recording.
type Request struct {
	Metrics    types.MetricsReport
	Scores     types.ScoreBreakdown
	Transcript string // full text, optional but improves feedback
}

// Generator produces coaching feedback for a metrics report.
type Generator interface {
	// Generate returns validated feedback or fails with ErrUnavailable
	// (wrapped) when the service cannot be reached or returns garbage.
	Generate(ctx context.Context, req Request) (*types.Feedback, error)
}

const systemPrompt = "You are a professional speech coach focused on " +
	"measurable delivery aspects. Respond with a single JSON object with " +
	"keys \"strengths\", \"improvements\", \"practice_drills\" (each a " +
	"non-empty array of short strings) and \"overall_score\" (integer 1-5). " +
	"No prose outside the JSON."

// buildPrompt renders the metrics into the user message.
func buildPrompt(req Request) string {
	var sb strings.Builder

	sb.WriteString("Analyze this speech delivery.\n\nMETRICS:\n")
	fmt.Fprintf(&sb, "- Speaking pace: %.1f words per minute\n", req.Metrics.WordsPerMinute)
	fmt.Fprintf(&sb, "- Filler words: %d total (%.1f per minute)\n",
		req.Metrics.FillerCount, req.Metrics.FillerRatePerMinute)
	fmt.Fprintf(&sb, "- Average pause: %.2f seconds\n", req.Metrics.AveragePauseSeconds)
	fmt.Fprintf(&sb, "- Long pauses: %d\n", req.Metrics.LongPauseCount)
	fmt.Fprintf(&sb, "- Duration: %.1f seconds, %d words\n",
		req.Metrics.TotalDurationSeconds, req.Metrics.WordCount)
	fmt.Fprintf(&sb, "\nSCORES (1-5): pace %d, clarity %d, fluency %d, conciseness %d\n",
		req.Scores.Pace, req.Scores.Clarity, req.Scores.Fluency, req.Scores.Conciseness)

	if req.Transcript != "" {
		fmt.Fprintf(&sb, "\nTRANSCRIPT:\n%q\n", req.Transcript)
	}

	sb.WriteString("\nProvide coaching feedback on measurable delivery aspects only.")
	return sb.String()
}

// parseFeedback decodes and validates the model's JSON reply. Code fences
// around the JSON are tolerated since models add them despite instructions.
func parseFeedback(raw string) (*types.Feedback, error) {
	raw = stripCodeFence(raw)

	var fb types.Feedback
	if err := json.Unmarshal([]byte(raw), &fb); err != nil {
		return nil, fmt.Errorf("decode feedback: %w", err)
	}

	if err := validate(&fb); err != nil {
		return nil, err
	}
	return &fb, nil
}

func validate(fb *types.Feedback) error {
	if len(fb.Strengths) == 0 {
		return fmt.Errorf("feedback has no strengths")
	}
	if len(fb.Improvements) == 0 {
		return fmt.Errorf("feedback has no improvements")
	}
	if len(fb.PracticeDrills) == 0 {
		return fmt.Errorf("feedback has no practice drills")
	}
	if fb.OverallScore < 1 || fb.OverallScore > 5 {
		return fmt.Errorf("overall score %d out of range [1,5]", fb.OverallScore)
	}
	for _, list := range [][]string{fb.Strengths, fb.Improvements, fb.PracticeDrills} {
		for _, item := range list {
			if strings.TrimSpace(item) == "" {
				return fmt.Errorf("feedback contains empty item")
			}
		}
	}
	return nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
