package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"

	return &OpenAIProvider{
		client:       openai.NewClientWithConfig(config),
		model:        "gpt-4o-mini",
		strictSchema: true,
	}
}

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

func TestOpenAIProvider_StructuredReply(t *testing.T) {
	var got struct {
		Messages []struct {
			Role string `json:"role"`
		} `json:"messages"`
		ResponseFormat struct {
			Type string `json:"type"`
		} `json:"response_format"`
		Temperature float64 `json:"temperature"`
	}
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"conceptSummary":"off by one","hints":["check <="]}`, "stop"))
	})

	resp, err := p.Generate(context.Background(), Request{
		System:      "You are Code Coach.",
		Messages:    []Message{{Role: RoleUser, Content: "why does my loop skip the last item?"}},
		Schema:      replySchema(),
		MaxTokens:   700,
		Temperature: 0.6,
	})
	require.NoError(t, err)

	assert.Equal(t, 65, resp.Usage.TotalTokens)
	assert.Equal(t, "end", resp.StopReason)
	assert.JSONEq(t, `{"conceptSummary":"off by one","hints":["check <="]}`, string(resp.Content))

	require.Len(t, got.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, got.Messages[0].Role)
	assert.Equal(t, "json_schema", got.ResponseFormat.Type)
	assert.InDelta(t, 0.6, got.Temperature, 1e-6)
}

func TestOpenAIProvider_RawText(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion("1. Ask for an example\n2. Ask why", "stop"))
	})

	resp, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "tips"}}})
	require.NoError(t, err)
	assert.Equal(t, "1. Ask for an example\n2. Ask why", resp.Text())
}

func TestOpenAIProvider_InvalidStructuredReplyKeepsRaw(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion("Loops stop when the condition fails.", "stop"))
	})

	_, err := p.Generate(context.Background(), Request{Schema: replySchema()})
	text, ok := RawContent(err)
	require.True(t, ok)
	assert.Equal(t, "Loops stop when the condition fails.", text)
}

func TestOpenAIProvider_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"rate limit", http.StatusTooManyRequests, func(err error) bool { var e *ErrRateLimit; return errors.As(err, &e) }},
		{"server error", http.StatusBadGateway, func(err error) bool { var e *ErrProviderUnavailable; return errors.As(err, &e) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]any{"message": "nope", "type": "server_error"},
				})
			})
			_, err := p.Generate(context.Background(), Request{})
			require.Error(t, err)
			assert.True(t, tt.check(err), "got %T: %v", err, err)
		})
	}
}

func TestOpenRouterProvider(t *testing.T) {
	_, err := NewOpenRouterProvider(OpenRouterConfig{Model: "openai/gpt-4o-mini"})
	require.Error(t, err)

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: "anthropic/claude-3-haiku"})
	require.NoError(t, err)
	assert.Equal(t, "anthropic/claude-3-haiku", p.ModelID())
	assert.False(t, p.strictSchema)

	format, err := p.responseFormat(replySchema())
	require.NoError(t, err)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, format.Type)
}
