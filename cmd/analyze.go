package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"speechcoach/audio"
	"speechcoach/cache"
	"speechcoach/config"
	"speechcoach/feedback"
	"speechcoach/internal/app"
	"speechcoach/internal/types"
	"speechcoach/internal/worker"
	"speechcoach/stt"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <recording.wav> [more.wav...]",
	Short: "Analyze one or more WAV recordings",
	Long: `Analyze transcribes each WAV recording, computes delivery metrics and
coaching scores, and prints a report per file. With an OpenAI API key
configured it also generates qualitative coaching feedback.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

var (
	language    string
	sttProvider string
	jsonOutput  bool
	noFeedback  bool
	noCache     bool

	// Coaching tuning flags.
	targetWPMMin       float64
	targetWPMMax       float64
	maxFillerRate      float64
	longPauseThresh    float64
	extraFillers       []string
	transcriptionModel string
	feedbackModel      string

	// Batch tuning flags.
	maxConcurrent int
	maxRetries    int
	rateLimit     int
)

func init() {
	defaults := config.Default().Coaching

	analyzeCmd.Flags().StringVarP(&language, "language", "l", "auto", "spoken language hint (ISO 639-1) or auto")
	analyzeCmd.Flags().StringVar(&sttProvider, "stt", "whisper-api", "speech-to-text provider")
	analyzeCmd.Flags().BoolVar(&jsonOutput, "json", false, "print results as JSON instead of text")
	analyzeCmd.Flags().BoolVar(&noFeedback, "no-feedback", false, "skip LLM coaching feedback")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the feedback cache")

	analyzeCmd.Flags().Float64Var(&targetWPMMin, "target-wpm-min", defaults.TargetWPMMin, "lower bound of the ideal speaking pace")
	analyzeCmd.Flags().Float64Var(&targetWPMMax, "target-wpm-max", defaults.TargetWPMMax, "upper bound of the ideal speaking pace")
	analyzeCmd.Flags().Float64Var(&maxFillerRate, "max-filler-rate", defaults.MaxFillerRatePerMinute, "acceptable filler words per minute")
	analyzeCmd.Flags().Float64Var(&longPauseThresh, "long-pause-threshold", defaults.LongPauseThresholdSecs, "pause length in seconds counted as a long pause")
	analyzeCmd.Flags().StringSliceVar(&extraFillers, "filler", nil, "extra filler terms to detect (repeatable)")
	analyzeCmd.Flags().StringVar(&transcriptionModel, "transcription-model", defaults.TranscriptionModel, "transcription model")
	analyzeCmd.Flags().StringVar(&feedbackModel, "feedback-model", defaults.FeedbackModel, "feedback generation model")

	analyzeCmd.Flags().IntVarP(&maxConcurrent, "max-concurrent", "j", 2, "max concurrent analyses")
	analyzeCmd.Flags().IntVar(&maxRetries, "max-retries", 3, "max attempts per file on API failures")
	analyzeCmd.Flags().IntVar(&rateLimit, "rate-limit", 30, "API requests per minute, 0 to disable")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	paths := make([]string, 0, len(args))
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return fmt.Errorf("resolve path: %w", err)
		}
		if _, err := os.Stat(abs); os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", arg)
		}
		if strings.ToLower(filepath.Ext(abs)) != ".wav" {
			return fmt.Errorf("unsupported file type: %s (only WAV is supported)", arg)
		}
		paths = append(paths, abs)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, cfg)

	apiKey := cfg.Credential.APIKey
	if env := os.Getenv("OPENAI_API_KEY"); env != "" {
		apiKey = env
	}

	coach, feedbackCache, err := buildCoach(cfg, apiKey)
	if err != nil {
		return err
	}
	if feedbackCache != nil {
		defer feedbackCache.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	analyze := func(ctx context.Context, path string) (*types.AnalysisResult, error) {
		clip, err := audio.DecodeWAVFile(path)
		if err != nil {
			return nil, err
		}
		return coach.Analyze(ctx, clip, language)
	}

	results, err := worker.Run(ctx, paths, worker.Options{
		MaxConcurrent:   maxConcurrent,
		MaxRetries:      maxRetries,
		RateLimitPerMin: rateLimit,
	}, analyze)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			slog.Error("analysis failed", "path", r.Path, "err", r.Err)
			continue
		}
		if err := printResult(r); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d recordings failed", failed, len(results))
	}
	if !quiet {
		slog.Info("done", "analyzed", len(results))
	}
	return nil
}

func printResult(r worker.Result) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(r.Analysis)
	}
	fmt.Printf("=== %s ===\n", filepath.Base(r.Path))
	app.RenderText(os.Stdout, r.Analysis)
	return nil
}

// applyFlagOverrides folds explicitly set flags into the loaded config, so
// flag values win over the config file but the file still supplies defaults.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	s := &cfg.Coaching
	flags := cmd.Flags()
	if flags.Changed("target-wpm-min") {
		s.TargetWPMMin = targetWPMMin
	}
	if flags.Changed("target-wpm-max") {
		s.TargetWPMMax = targetWPMMax
	}
	if flags.Changed("max-filler-rate") {
		s.MaxFillerRatePerMinute = maxFillerRate
	}
	if flags.Changed("long-pause-threshold") {
		s.LongPauseThresholdSecs = longPauseThresh
	}
	if flags.Changed("transcription-model") {
		s.TranscriptionModel = transcriptionModel
	}
	if flags.Changed("feedback-model") {
		s.FeedbackModel = feedbackModel
	}
	if len(extraFillers) > 0 {
		s.FillerLexicon = append(s.FillerLexicon, extraFillers...)
	}
}

func buildCoach(cfg *config.Config, apiKey string) (*app.Coach, *cache.Cache, error) {
	if apiKey == "" {
		return nil, nil, fmt.Errorf("no API key: set OPENAI_API_KEY or run with a saved config")
	}

	registry := stt.NewRegistry()
	registry.Register(stt.NewWhisperAPI(stt.WhisperAPIConfig{
		APIKey:  apiKey,
		BaseURL: cfg.Credential.BaseURL,
		Model:   cfg.Coaching.TranscriptionModel,
	}))

	transcriber := registry.Get(sttProvider)
	if transcriber == nil {
		var names []string
		for _, t := range registry.List() {
			names = append(names, t.Name())
		}
		return nil, nil, fmt.Errorf("unknown stt provider %q (available: %s)", sttProvider, strings.Join(names, ", "))
	}

	var generator feedback.Generator
	if !noFeedback {
		generator = feedback.NewOpenAIGenerator(feedback.OpenAIConfig{
			APIKey:      apiKey,
			BaseURL:     cfg.Credential.BaseURL,
			Model:       cfg.Coaching.FeedbackModel,
			MaxTokens:   cfg.Coaching.FeedbackMaxTokens,
			Temperature: cfg.Coaching.FeedbackTemperature,
		})
	}

	var feedbackCache *cache.Cache
	if !noCache && generator != nil {
		dir, err := config.CacheDir()
		if err != nil {
			return nil, nil, err
		}
		feedbackCache, err = cache.Open(dir)
		if err != nil {
			// The cache is an optimization; analysis works without it.
			slog.Warn("feedback cache unavailable", "err", err)
			feedbackCache = nil
		}
	}

	coach, err := app.New(app.Options{
		Transcriber: transcriber,
		Generator:   generator,
		Cache:       feedbackCache,
		Settings:    cfg.Coaching,
	})
	if err != nil {
		return nil, nil, err
	}
	return coach, feedbackCache, nil
}
