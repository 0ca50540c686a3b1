package tutor

import "github.com/abhisek/codecoach/internal/llm"

// ReplySchema defines the structured tutoring reply.
var ReplySchema = &llm.Schema{
	Name:        "tutor-reply",
	Description: "A guided tutoring reply that teaches without giving away the solution",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"conceptSummary": map[string]any{
				"type":        "string",
				"description": "Brief explanation of the key idea in plain language",
			},
			"misconceptionCheck": map[string]any{
				"type":        "string",
				"description": "Likely mistakes or misunderstandings",
			},
			"hints": map[string]any{
				"type":        "array",
				"description": "2-3 concise hints, no full solutions",
				"items":       map[string]any{"type": "string"},
			},
			"nextStepQuestion": map[string]any{
				"type":        "string",
				"description": "A question that nudges the student onward without solving it",
			},
		},
		"required":             []any{"conceptSummary", "misconceptionCheck", "hints", "nextStepQuestion"},
		"additionalProperties": false,
	},
}
