// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"context"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/pdiddy/papersynth/pkg/types"
)

const systemPrompt = "You are a research analyst classifying AI papers. You do not invent facts. Return strict JSON only."

// AnthropicMessager is the subset of the Anthropic client the generator uses.
type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicClientCreator builds a messages client from an API key and an
// optional base URL.
type AnthropicClientCreator func(apiKey, baseURL string) AnthropicMessager

func defaultAnthropicCreator(apiKey, baseURL string) AnthropicMessager {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	c := anthropic.NewClient(opts...)
	return &c.Messages
}

var newAnthropicClient AnthropicClientCreator = defaultAnthropicCreator

// ClaudeGenerator calls the Anthropic Messages API.
type ClaudeGenerator struct {
	messages  AnthropicMessager
	model     string
	maxTokens int
}

// NewClaudeGenerator returns a generator for cfg.
func NewClaudeGenerator(cfg types.AIConfig) *ClaudeGenerator {
	model := cfg.Model
	if model == "" {
		model = DefaultClaudeModel
	}
	return &ClaudeGenerator{
		messages:  newAnthropicClient(cfg.APIKey, cfg.BaseURL),
		model:     model,
		maxTokens: maxTokensOrDefault(cfg.MaxTokens),
	}
}

// Model returns the model identifier.
func (g *ClaudeGenerator) Model() string { return g.model }

// Generate sends prompt as a single user message and concatenates the text
// blocks of the reply.
func (g *ClaudeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(g.model),
		MaxTokens:   int64(g.maxTokens),
		System:      []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
		Temperature: anthropic.Float(0),
	})
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}

	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text content in Claude API response")
	}
	return sb.String(), nil
}

func maxTokensOrDefault(n int) int {
	if n <= 0 {
		return 1024
	}
	return n
}
