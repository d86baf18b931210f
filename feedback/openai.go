package feedback

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"speechcoach/internal/types"
)

// OpenAIGenerator implements Generator on top of the OpenAI chat completions
// API (or any compatible endpoint).
type OpenAIGenerator struct {
	client      openai.Client
	model       string
	maxTokens   int
	temperature float64
}

// OpenAIConfig holds configuration for OpenAIGenerator.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string  // Optional, defaults to OpenAI's API
	Model       string  // Optional, defaults to gpt-4o-mini
	MaxTokens   int     // Optional
	Temperature float64 // Optional
}

// NewOpenAIGenerator creates a feedback generator backed by chat completions.
func NewOpenAIGenerator(cfg OpenAIConfig) *OpenAIGenerator {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = types.DefaultFeedbackModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = types.DefaultFeedbackMaxTokens
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = types.DefaultFeedbackTemperature
	}

	return &OpenAIGenerator{
		client:      openai.NewClient(opts...),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

// Generate asks the model for structured coaching feedback and validates the
// reply shape. API failures wrap ErrUnavailable.
func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) (*types.Feedback, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(buildPrompt(req)),
		},
		MaxTokens:   openai.Int(int64(g.maxTokens)),
		Temperature: openai.Float(g.temperature),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices returned", ErrUnavailable)
	}

	fb, err := parseFeedback(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return fb, nil
}
