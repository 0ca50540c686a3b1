package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"}, // Pass-through
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"conceptSummary": map[string]any{"type": "string", "description": "key idea"},
			"hints": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": 2,
			},
			"mode": map[string]any{"type": "string", "enum": []any{"debugging", "theory", "coding-help"}},
		},
		"required":             []any{"conceptSummary", "hints"},
		"additionalProperties": false,
	}

	schema := buildGeminiSchema(def)

	if schema.Type != genai.TypeObject {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 3 {
		t.Fatalf("expected 3 properties, got %d", len(schema.Properties))
	}
	if got := schema.Properties["conceptSummary"]; got.Type != genai.TypeString || got.Description != "key idea" {
		t.Fatalf("unexpected conceptSummary schema: %+v", got)
	}
	hints := schema.Properties["hints"]
	if hints.Type != genai.TypeArray || hints.Items == nil || hints.Items.Type != genai.TypeString {
		t.Fatalf("expected ARRAY of STRING for hints, got %+v", hints)
	}
	if hints.MinItems == nil || *hints.MinItems != 2 {
		t.Fatalf("expected minItems 2, got %v", hints.MinItems)
	}
	if len(schema.Properties["mode"].Enum) != 3 {
		t.Fatalf("expected 3 enum values, got %d", len(schema.Properties["mode"].Enum))
	}
	if len(schema.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %d", len(schema.Required))
	}
}

func TestBuildGeminiContentsRoles(t *testing.T) {
	contents := buildGeminiContents([]Message{
		{Role: RoleUser, Content: "why does my loop never end?"},
		{Role: RoleAssistant, Content: "What changes on each pass?"},
	})

	if len(contents) != 2 {
		t.Fatalf("expected 2 contents, got %d", len(contents))
	}
	if contents[0].Role != "user" || contents[1].Role != "model" {
		t.Errorf("unexpected roles: %q, %q", contents[0].Role, contents[1].Role)
	}
	if contents[1].Parts[0].Text != "What changes on each pass?" {
		t.Errorf("unexpected text: %q", contents[1].Parts[0].Text)
	}
}

func TestNewGeminiProviderRequiresKey(t *testing.T) {
	if _, err := NewGeminiProvider(t.Context(), GeminiConfig{Model: "gemini-flash"}); err == nil {
		t.Fatal("expected error for empty API key")
	}
}
