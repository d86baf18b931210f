// Package types provides shared type definitions for the application.
package types

import "time"

// Word is a single transcribed token with word-level timestamps.
// Start and End are seconds from the beginning of the clip; End >= Start,
// and consecutive words are chronological by caller contract.
type Word struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Transcript is an ordered word sequence plus the full concatenated text.
// It is read-only input to the metrics pipeline.
type Transcript struct {
	Text  string `json:"text"`
	Words []Word `json:"words"`
}

// SpanSeconds returns the time covered by the word timestamps, which may be
// shorter than the clip duration since leading/trailing silence is not
// represented in word timestamps.
func (t Transcript) SpanSeconds() float64 {
	if len(t.Words) == 0 {
		return 0
	}
	return t.Words[len(t.Words)-1].End - t.Words[0].Start
}

// MetricsReport holds the objective delivery metrics for one clip.
// It is a value object: produced once, never mutated.
type MetricsReport struct {
	WordsPerMinute       float64 `json:"words_per_minute"`
	FillerCount          int     `json:"filler_count"`
	FillerRatePerMinute  float64 `json:"filler_rate_per_minute"`
	AveragePauseSeconds  float64 `json:"average_pause_seconds"`
	LongPauseCount       int     `json:"long_pause_count"`
	TotalDurationSeconds float64 `json:"total_duration_seconds"`
	WordCount            int     `json:"word_count"`
}

// ScoreBreakdown maps a MetricsReport onto 1-5 coaching scores.
// Every field is always within [1,5].
type ScoreBreakdown struct {
	Pace        int `json:"pace"`
	Clarity     int `json:"clarity"`
	Fluency     int `json:"fluency"`
	Conciseness int `json:"conciseness"`
	Overall     int `json:"overall"`
}

// Feedback is the qualitative coaching output from the feedback service.
type Feedback struct {
	Strengths      []string `json:"strengths"`
	Improvements   []string `json:"improvements"`
	PracticeDrills []string `json:"practice_drills"`
	OverallScore   int      `json:"overall_score"`
}

// AnalysisResult is the full outcome of analyzing one recording.
type AnalysisResult struct {
	ID         string         `json:"id"`
	Language   string         `json:"language,omitempty"`
	Transcript Transcript     `json:"transcript"`
	Metrics    MetricsReport  `json:"metrics"`
	Scores     ScoreBreakdown `json:"scores"`
	Feedback   *Feedback      `json:"feedback,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// APICredential identifies an OpenAI-compatible API endpoint.
type APICredential struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url,omitempty"` // empty means the default OpenAI endpoint
}

// CoachingSettings holds the user-tunable analysis parameters, mirroring the
// adjustable settings surface of the app.
type CoachingSettings struct {
	TargetWPMMin           float64  `json:"target_wpm_min"`
	TargetWPMMax           float64  `json:"target_wpm_max"`
	MaxFillerRatePerMinute float64  `json:"max_filler_rate_per_minute"`
	LongPauseThresholdSecs float64  `json:"long_pause_threshold_seconds"`
	FillerLexicon          []string `json:"filler_lexicon,omitempty"`
	TranscriptionModel     string   `json:"transcription_model,omitempty"`
	FeedbackModel          string   `json:"feedback_model,omitempty"`
	FeedbackMaxTokens      int      `json:"feedback_max_tokens,omitempty"`
	FeedbackTemperature    float64  `json:"feedback_temperature,omitempty"`
}

// Defaults applied when settings are zero-valued.
const (
	DefaultTargetWPMMin           = 140.0
	DefaultTargetWPMMax           = 180.0
	DefaultMaxFillerRatePerMinute = 3.0
	DefaultLongPauseThreshold     = 1.0
	DefaultTranscriptionModel     = "whisper-1"
	DefaultFeedbackModel          = "gpt-4o-mini"
	DefaultFeedbackMaxTokens      = 600
	DefaultFeedbackTemperature    = 0.3
)
