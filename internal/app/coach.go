// Package app wires the collaborators and the metrics core into the
// analysis pipeline: transcribe, compute metrics, score, generate feedback.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"speechcoach/audio"
	"speechcoach/cache"
	"speechcoach/feedback"
	"speechcoach/internal/types"
	"speechcoach/langdetect"
	"speechcoach/metrics"
	"speechcoach/stt"
)

// Coach runs the full analysis pipeline. It holds no per-analysis state and
// is safe for concurrent Analyze calls.
type Coach struct {
	transcriber stt.Transcriber
	generator   feedback.Generator // nil disables feedback generation
	cache       *cache.Cache       // nil disables feedback caching
	detector    *langdetect.Detector
	settings    types.CoachingSettings
}

// Options configures a Coach.
type Options struct {
	Transcriber stt.Transcriber
	Generator   feedback.Generator
	Cache       *cache.Cache
	Settings    types.CoachingSettings
}

// New creates a Coach.
func New(opts Options) (*Coach, error) {
	if opts.Transcriber == nil {
		return nil, fmt.Errorf("transcriber required")
	}
	return &Coach{
		transcriber: opts.Transcriber,
		generator:   opts.Generator,
		cache:       opts.Cache,
		detector:    langdetect.New(),
		settings:    opts.Settings,
	}, nil
}

// Analyze runs one recording through the pipeline. language is a source
// language hint for the transcriber; empty or "auto" means auto-detect.
// Collaborator errors (stt.ErrUnavailable, feedback.ErrUnavailable) and
// metrics.ErrInvalidInput propagate unchanged.
func (c *Coach) Analyze(ctx context.Context, clip audio.Clip, language string) (*types.AnalysisResult, error) {
	res, err := c.transcriber.Transcribe(ctx, clip.Samples, clip.SampleRate, language)
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}

	// The clip's own duration is authoritative; the service-reported one is
	// a fallback for callers that only have a transcript.
	duration := clip.DurationSeconds()
	if duration == 0 {
		duration = res.DurationSeconds
	}

	lang := c.detector.Detect(res.Transcript.Text)
	lexicon := metrics.LexiconForLanguage(lang, c.settings.FillerLexicon)

	report, err := metrics.Compute(res.Transcript, duration, metrics.Options{
		Lexicon:            lexicon,
		LongPauseThreshold: c.settings.LongPauseThresholdSecs,
	})
	if err != nil {
		return nil, fmt.Errorf("compute metrics: %w", err)
	}

	scores := metrics.Score(report, metrics.Rules{
		TargetWPMMin:           c.settings.TargetWPMMin,
		TargetWPMMax:           c.settings.TargetWPMMax,
		MaxFillerRatePerMinute: c.settings.MaxFillerRatePerMinute,
	})

	result := &types.AnalysisResult{
		ID:         uuid.NewString(),
		Language:   lang,
		Transcript: res.Transcript,
		Metrics:    report,
		Scores:     scores,
		CreatedAt:  time.Now().UTC(),
	}

	if c.generator != nil {
		fb, err := c.generateFeedback(ctx, result)
		if err != nil {
			return nil, fmt.Errorf("feedback: %w", err)
		}
		result.Feedback = fb
	}

	return result, nil
}

// generateFeedback calls the feedback service with a best-effort cache in
// front of it, keyed by model, metrics, and transcript text.
func (c *Coach) generateFeedback(ctx context.Context, result *types.AnalysisResult) (*types.Feedback, error) {
	key := c.feedbackKey(result)

	if c.cache != nil {
		if entry, found := c.cache.Get(key); found {
			slog.Debug("feedback cache hit", "id", result.ID)
			fb := entry.Feedback
			return &fb, nil
		}
	}

	fb, err := c.generator.Generate(ctx, feedback.Request{
		Metrics:    result.Metrics,
		Scores:     result.Scores,
		Transcript: result.Transcript.Text,
	})
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		entry := &cache.Entry{
			Feedback:  *fb,
			Model:     c.settings.FeedbackModel,
			CreatedAt: time.Now().UTC(),
		}
		// Caching is best effort.
		if err := c.cache.Set(key, entry, cache.DefaultTTL); err != nil {
			slog.Debug("feedback cache set failed", "err", err)
		}
	}

	return fb, nil
}

func (c *Coach) feedbackKey(result *types.AnalysisResult) string {
	reportJSON, _ := json.Marshal(result.Metrics)
	return cache.GenerateKey(c.settings.FeedbackModel, string(reportJSON), result.Transcript.Text)
}
