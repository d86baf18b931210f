// Package stt provides the speech-to-text collaborator interface and
// implementations.
package stt

import (
	"context"
	"errors"

	"speechcoach/internal/types"
)

// ErrUnavailable marks a transcription service failure (network, auth, API
// error). The analysis pipeline propagates it unchanged; retry policy, if
// any, belongs to the caller.
var ErrUnavailable = errors.New("transcription unavailable")

// Result is what a transcriber returns: the transcript with word-level
// timestamps plus whatever the service reports about the clip.
type Result struct {
	Transcript      types.Transcript
	Language        string  // detected language code, may be empty
	DurationSeconds float64 // service-reported duration, 0 when not reported
}

// Transcriber converts decoded PCM audio into a word-timestamped transcript.
// Implementations must not retain the samples slice.
type Transcriber interface {
	// Name returns the provider identifier.
	Name() string

	// Transcribe converts audio samples to a transcript.
	// samples: PCM float32 in [-1, 1]; language: source language code
	// (empty for auto-detect).
	Transcribe(ctx context.Context, samples []float32, sampleRate int, language string) (*Result, error)
}

// Registry holds registered transcribers by name.
type Registry struct {
	transcribers map[string]Transcriber
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{transcribers: make(map[string]Transcriber)}
}

// Register adds a transcriber to the registry.
func (r *Registry) Register(t Transcriber) {
	r.transcribers[t.Name()] = t
}

// Get returns a transcriber by name, or nil.
func (r *Registry) Get(name string) Transcriber {
	return r.transcribers[name]
}

// List returns all registered transcribers.
func (r *Registry) List() []Transcriber {
	out := make([]Transcriber, 0, len(r.transcribers))
	for _, t := range r.transcribers {
		out = append(out, t)
	}
	return out
}
