package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"speechcoach/internal/types"
	"speechcoach/stt"
)

func TestRun_OrderPreserved(t *testing.T) {
	paths := []string{"a.wav", "b.wav", "c.wav", "d.wav"}

	analyze := func(ctx context.Context, path string) (*types.AnalysisResult, error) {
		return &types.AnalysisResult{ID: path}, nil
	}

	results, err := Run(context.Background(), paths, Options{MaxConcurrent: 4}, analyze)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(results) != len(paths) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(paths))
	}
	for i, r := range results {
		if r.Path != paths[i] {
			t.Errorf("results[%d].Path = %q, want %q", i, r.Path, paths[i])
		}
		if r.Analysis == nil || r.Analysis.ID != paths[i] {
			t.Errorf("results[%d].Analysis does not match input %q", i, paths[i])
		}
	}
}

func TestRun_PerFileErrorsDoNotAbort(t *testing.T) {
	wantErr := errors.New("unreadable")

	analyze := func(ctx context.Context, path string) (*types.AnalysisResult, error) {
		if path == "bad.wav" {
			return nil, wantErr
		}
		return &types.AnalysisResult{ID: path}, nil
	}

	results, err := Run(context.Background(), []string{"ok.wav", "bad.wav", "ok2.wav"}, Options{}, analyze)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("healthy files reported errors: %v, %v", results[0].Err, results[2].Err)
	}
	if !errors.Is(results[1].Err, wantErr) {
		t.Errorf("results[1].Err = %v, want %v", results[1].Err, wantErr)
	}
	if results[1].Analysis != nil {
		t.Error("failed file should have nil Analysis")
	}
}

func TestRun_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32

	analyze := func(ctx context.Context, path string) (*types.AnalysisResult, error) {
		if calls.Add(1) < 3 {
			return nil, fmt.Errorf("transcribe: %w", stt.ErrUnavailable)
		}
		return &types.AnalysisResult{ID: path}, nil
	}

	results, err := Run(context.Background(), []string{"a.wav"}, Options{MaxRetries: 3}, analyze)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if results[0].Err != nil {
		t.Errorf("Err = %v, want nil after retries", results[0].Err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("analyze called %d times, want 3", got)
	}
}

func TestRun_NoRetryOnPermanentError(t *testing.T) {
	var calls atomic.Int32
	permanent := errors.New("not a wav file")

	analyze := func(ctx context.Context, path string) (*types.AnalysisResult, error) {
		calls.Add(1)
		return nil, permanent
	}

	results, err := Run(context.Background(), []string{"a.wav"}, Options{MaxRetries: 5}, analyze)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !errors.Is(results[0].Err, permanent) {
		t.Errorf("Err = %v, want %v", results[0].Err, permanent)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("analyze called %d times, want 1 (no retry)", got)
	}
}

func TestRun_RespectsConcurrencyLimit(t *testing.T) {
	const limit = 2

	var mu sync.Mutex
	active, peak := 0, 0

	analyze := func(ctx context.Context, path string) (*types.AnalysisResult, error) {
		mu.Lock()
		active++
		if active > peak {
			peak = active
		}
		mu.Unlock()

		mu.Lock()
		active--
		mu.Unlock()
		return &types.AnalysisResult{ID: path}, nil
	}

	paths := make([]string, 16)
	for i := range paths {
		paths[i] = fmt.Sprintf("f%d.wav", i)
	}

	if _, err := Run(context.Background(), paths, Options{MaxConcurrent: limit}, analyze); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if peak > limit {
		t.Errorf("peak concurrency = %d, want <= %d", peak, limit)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	analyze := func(ctx context.Context, path string) (*types.AnalysisResult, error) {
		return nil, ctx.Err()
	}

	_, err := Run(ctx, []string{"a.wav"}, Options{}, analyze)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}
