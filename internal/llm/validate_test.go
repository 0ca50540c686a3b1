package llm

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func replySchema() *Schema {
	return &Schema{
		Name:        "test-reply",
		Description: "A tutoring reply",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"conceptSummary": map[string]any{"type": "string"},
				"hints": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"required":             []any{"conceptSummary", "hints"},
			"additionalProperties": false,
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{"valid", `{"conceptSummary":"loops repeat work","hints":["trace i"]}`, ""},
		{"empty hints", `{"conceptSummary":"x","hints":[]}`, ""},
		{"missing required", `{"conceptSummary":"x"}`, "test-reply reply does not match its schema"},
		{"wrong type", `{"conceptSummary":1,"hints":[]}`, "test-reply reply does not match its schema"},
		{"extra field", `{"conceptSummary":"x","hints":[],"answer":"42"}`, "test-reply reply does not match its schema"},
		{"not json", `Loops repeat work.`, `test-reply reply is not JSON (starts "Loops repeat work.")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(replySchema(), json.RawMessage(tt.raw))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var inv *ErrInvalidResponse
			require.True(t, errors.As(err, &inv), "got %T", err)
			assert.Equal(t, tt.raw, string(inv.Content))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	assert.NoError(t, validateResponse(nil, json.RawMessage("anything at all")))
}

func TestValidateResponse_LongReplyIsShortened(t *testing.T) {
	raw := "Think about what the loop counter holds on each pass, then trace it by hand."
	err := validateResponse(replySchema(), json.RawMessage(raw))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `(starts "Think about what the loop counter holds ...")`)
	assert.NotContains(t, err.Error(), "by hand")
}
