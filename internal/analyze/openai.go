// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/pdiddy/papersynth/pkg/types"
)

// ChatCompleter is the subset of the OpenAI client the generator uses.
type ChatCompleter interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAIClientCreator builds a chat completions client.
type OpenAIClientCreator func(apiKey, baseURL string) ChatCompleter

func defaultOpenAICreator(apiKey, baseURL string) ChatCompleter {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	c := openai.NewClient(opts...)
	return &c.Chat.Completions
}

var newOpenAIClient OpenAIClientCreator = defaultOpenAICreator

// OpenAIGenerator calls an OpenAI-compatible chat completions endpoint:
// OpenAI itself, Gemini's compatibility layer, or a local server.
type OpenAIGenerator struct {
	chat      ChatCompleter
	model     string
	maxTokens int
}

// NewOpenAIGenerator returns a generator for cfg. defaultModel is used when
// cfg.Model is empty.
func NewOpenAIGenerator(cfg types.AIConfig, defaultModel string) *OpenAIGenerator {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	return &OpenAIGenerator{
		chat:      newOpenAIClient(cfg.APIKey, cfg.BaseURL),
		model:     model,
		maxTokens: maxTokensOrDefault(cfg.MaxTokens),
	}
}

// Model returns the model identifier.
func (g *OpenAIGenerator) Model() string { return g.model }

// Generate sends prompt and returns the first choice's content.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.chat.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(int64(g.maxTokens)),
		Temperature: openai.Float(0),
	})
	if err != nil {
		return "", fmt.Errorf("calling %s chat API: %w", g.model, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat API returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
