// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"context"
	"fmt"

	"github.com/pdiddy/papersynth/pkg/types"
)

// Generator abstracts the text-analysis service so tests can supply a mock.
// Generate sends one prompt and returns the model's raw text reply.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Default models per backend, used when the configuration leaves Model empty.
const (
	DefaultClaudeModel = "claude-sonnet-4-20250514"
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultGeminiModel = "gemini-2.5-flash"
)

// GeminiBaseURL is Gemini's OpenAI-compatible endpoint.
const GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

// NewGenerator builds the Generator selected by cfg.Backend.
func NewGenerator(cfg types.AIConfig) (Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s backend: no API key configured", cfg.Backend)
	}
	switch cfg.Backend {
	case types.BackendAnthropic:
		return NewClaudeGenerator(cfg), nil
	case types.BackendOpenAI:
		return NewOpenAIGenerator(cfg, DefaultOpenAIModel), nil
	case types.BackendGemini, "":
		if cfg.BaseURL == "" {
			cfg.BaseURL = GeminiBaseURL
		}
		return NewOpenAIGenerator(cfg, DefaultGeminiModel), nil
	default:
		return nil, fmt.Errorf("unknown AI backend %q", cfg.Backend)
	}
}
