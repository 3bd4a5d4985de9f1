// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"context"
	"errors"
	"testing"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/papersynth/pkg/types"
)

type mockMessager struct {
	resp   *anthropic.Message
	err    error
	params anthropic.MessageNewParams
}

func (m *mockMessager) New(_ context.Context, params anthropic.MessageNewParams, _ ...anthropicoption.RequestOption) (*anthropic.Message, error) {
	m.params = params
	return m.resp, m.err
}

type mockChat struct {
	resp *openai.ChatCompletion
	err  error
	body openai.ChatCompletionNewParams
}

func (m *mockChat) New(_ context.Context, body openai.ChatCompletionNewParams, _ ...option.RequestOption) (*openai.ChatCompletion, error) {
	m.body = body
	return m.resp, m.err
}

func useMessager(t *testing.T, m *mockMessager) (gotKey, gotURL *string) {
	t.Helper()
	var key, url string
	old := newAnthropicClient
	newAnthropicClient = func(apiKey, baseURL string) AnthropicMessager {
		key, url = apiKey, baseURL
		return m
	}
	t.Cleanup(func() { newAnthropicClient = old })
	return &key, &url
}

func useChat(t *testing.T, m *mockChat) (gotKey, gotURL *string) {
	t.Helper()
	var key, url string
	old := newOpenAIClient
	newOpenAIClient = func(apiKey, baseURL string) ChatCompleter {
		key, url = apiKey, baseURL
		return m
	}
	t.Cleanup(func() { newOpenAIClient = old })
	return &key, &url
}

func TestClaudeGenerate(t *testing.T) {
	m := &mockMessager{resp: &anthropic.Message{Content: []anthropic.ContentBlockUnion{
		{Type: "text", Text: `{"ai_subcategory":`},
		{Type: "text", Text: `"NLP"}`},
	}}}
	key, _ := useMessager(t, m)

	g := NewClaudeGenerator(types.AIConfig{APIKey: "sk-ant", MaxTokens: 512})
	out, err := g.Generate(context.Background(), "analyze this")
	require.NoError(t, err)

	assert.Equal(t, `{"ai_subcategory":"NLP"}`, out)
	assert.Equal(t, "sk-ant", *key)
	assert.Equal(t, DefaultClaudeModel, g.Model())
	assert.Equal(t, anthropic.Model(DefaultClaudeModel), m.params.Model)
	assert.Equal(t, int64(512), m.params.MaxTokens)
	require.Len(t, m.params.Messages, 1)
}

func TestClaudeGenerateErrors(t *testing.T) {
	m := &mockMessager{err: errors.New("overloaded")}
	useMessager(t, m)
	g := NewClaudeGenerator(types.AIConfig{APIKey: "k", Model: "claude-haiku"})

	_, err := g.Generate(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overloaded")

	m.err = nil
	m.resp = &anthropic.Message{}
	_, err = g.Generate(context.Background(), "p")
	assert.Error(t, err)
}

func TestOpenAIGenerate(t *testing.T) {
	m := &mockChat{resp: &openai.ChatCompletion{Choices: []openai.ChatCompletionChoice{
		{Message: openai.ChatCompletionMessage{Content: `{"methodology":"RAG"}`}},
	}}}
	useChat(t, m)

	g := NewOpenAIGenerator(types.AIConfig{APIKey: "k", Model: "gpt-test"}, DefaultOpenAIModel)
	out, err := g.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"methodology":"RAG"}`, out)
	assert.Equal(t, "gpt-test", g.Model())
	assert.Equal(t, openai.ChatModel("gpt-test"), m.body.Model)
	assert.Len(t, m.body.Messages, 2)
}

func TestOpenAIGenerateNoChoices(t *testing.T) {
	useChat(t, &mockChat{resp: &openai.ChatCompletion{}})
	g := NewOpenAIGenerator(types.AIConfig{APIKey: "k"}, DefaultOpenAIModel)

	_, err := g.Generate(context.Background(), "prompt")
	assert.Error(t, err)
}

func TestNewGenerator(t *testing.T) {
	_, chatURL := useChat(t, &mockChat{})
	useMessager(t, &mockMessager{})

	g, err := NewGenerator(types.AIConfig{Backend: types.BackendGemini, APIKey: "g"})
	require.NoError(t, err)
	assert.Equal(t, DefaultGeminiModel, g.Model())
	assert.Equal(t, GeminiBaseURL, *chatURL)

	g, err = NewGenerator(types.AIConfig{Backend: types.BackendOpenAI, APIKey: "o"})
	require.NoError(t, err)
	assert.Equal(t, DefaultOpenAIModel, g.Model())
	assert.Equal(t, "", *chatURL)

	g, err = NewGenerator(types.AIConfig{Backend: types.BackendAnthropic, APIKey: "a"})
	require.NoError(t, err)
	assert.IsType(t, &ClaudeGenerator{}, g)

	_, err = NewGenerator(types.AIConfig{Backend: "bard", APIKey: "x"})
	assert.Error(t, err)

	_, err = NewGenerator(types.AIConfig{Backend: types.BackendOpenAI})
	assert.Error(t, err)
}
