// Package worker runs analyses over multiple recordings with bounded
// parallelism, API rate limiting, and retry on transient collaborator
// failures. The metrics core is pure, so concurrent analyses need no
// coordination beyond limiting the API calls.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"speechcoach/feedback"
	"speechcoach/internal/types"
	"speechcoach/stt"
)

// AnalyzeFunc analyzes a single input path.
type AnalyzeFunc func(ctx context.Context, path string) (*types.AnalysisResult, error)

// Options configures the batch run.
type Options struct {
	MaxConcurrent   int // parallel analyses, minimum 1
	MaxRetries      int // attempts per file for retryable failures, minimum 1
	RateLimitPerMin int // API requests per minute, 0 disables limiting
}

// Result pairs an input path with its analysis or failure. Per-file
// failures do not abort the batch.
type Result struct {
	Path     string
	Analysis *types.AnalysisResult
	Err      error
}

// Run analyzes all paths and returns results in input order. It returns an
// error only when the context is cancelled; per-file errors land in the
// corresponding Result.
func Run(ctx context.Context, paths []string, opts Options, analyze AnalyzeFunc) ([]Result, error) {
	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 1
	}
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 1
	}

	var limiter *rate.Limiter
	if opts.RateLimitPerMin > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(opts.RateLimitPerMin)/60.0), 1)
	}

	results := make([]Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.MaxConcurrent)

	for i, path := range paths {
		g.Go(func() error {
			if limiter != nil {
				if err := limiter.Wait(gctx); err != nil {
					return fmt.Errorf("rate limiter: %w", err)
				}
			}

			analysis, err := analyzeWithRetry(gctx, path, opts.MaxRetries, analyze)
			if err != nil && gctx.Err() != nil {
				return gctx.Err()
			}

			results[i] = Result{Path: path, Analysis: analysis, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func analyzeWithRetry(ctx context.Context, path string, maxRetries int, analyze AnalyzeFunc) (*types.AnalysisResult, error) {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		analysis, err := analyze(ctx, path)
		if err == nil {
			return analysis, nil
		}
		lastErr = err

		if !retryable(err) || attempt == maxRetries-1 {
			break
		}

		backoff := time.Duration(1<<uint(attempt)) * time.Second // 1s, 2s, 4s...
		slog.Warn("analysis failed, retrying",
			"path", path, "attempt", attempt+1, "backoff", backoff, "err", err)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return nil, lastErr
}

// retryable reports whether an error is a transient collaborator failure.
// Invalid input and local decode errors never become valid by retrying.
func retryable(err error) bool {
	return errors.Is(err, stt.ErrUnavailable) || errors.Is(err, feedback.ErrUnavailable)
}
