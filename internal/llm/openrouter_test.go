package llm

import (
	"testing"
)

func TestNewOpenRouterProvider(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		p, err := NewOpenRouterProvider(OpenRouterConfig{
			APIKey: "sk-or-test",
			Model:  "meta-llama/llama-3.1-8b-instruct",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ModelID() != "meta-llama/llama-3.1-8b-instruct" {
			t.Errorf("model = %q, want pass-through id", p.ModelID())
		}
	})

	t.Run("empty API key", func(t *testing.T) {
		_, err := NewOpenRouterProvider(OpenRouterConfig{Model: "anthropic/claude-3-haiku"})
		if err == nil {
			t.Fatal("expected error for empty API key")
		}
	})

	t.Run("schema mode is relaxed", func(t *testing.T) {
		p, err := NewOpenRouterProvider(OpenRouterConfig{
			APIKey:  "sk-or-test",
			Model:   "anthropic/claude-3-haiku",
			BaseURL: "https://custom.openrouter.example/v1",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.strictSchema {
			t.Error("strict JSON schema should be off for OpenRouter")
		}
	})
}
