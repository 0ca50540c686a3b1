package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/codecoach/internal/store"
)

func TestShortSession(t *testing.T) {
	assert.Equal(t, "1b4e28ba", shortSession("1b4e28ba-2fa1-11d2-883f-0016d3cca427"))
	assert.Equal(t, "custom", shortSession("custom"))
	assert.Equal(t, "", shortSession(""))
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0042", formatCost(0.0042))
	assert.Equal(t, "$1.50", formatCost(1.5))
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	printTable(&buf, []string{"Purpose", "Calls"}, [][]string{{"tutor", "12"}, {"followups", "3"}}, 1)

	out := buf.String()
	for _, want := range []string{"Purpose", "Calls", "tutor", "followups", "12"} {
		assert.Contains(t, out, want)
	}
}

func TestPrintEvent(t *testing.T) {
	var buf bytes.Buffer
	printEvent(&buf, &store.LLMEvent{
		ID:        7,
		Timestamp: time.Date(2026, 3, 1, 9, 30, 0, 0, time.Local),
		LLMRequestEventData: store.LLMRequestEventData{
			SessionID:    "sess-1",
			Provider:     "openai",
			Model:        "gpt-4o-mini",
			Purpose:      "followups",
			Success:      false,
			ErrorMessage: "rate limited",
			RequestBody:  "[user]\nMode: debugging",
		},
	})

	out := buf.String()
	assert.Contains(t, out, "openai/gpt-4o-mini")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "rate limited")
	assert.Contains(t, out, "Mode: debugging")
	assert.True(t, strings.Contains(out, "== Reply ==\n(not captured)"))
}
