package suggest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/codecoach/internal/tutor"
)

func TestStarters_NoTask(t *testing.T) {
	got := Starters(tutor.ModeDebugging, "", 0)
	assert.Equal(t, []string{
		"Help me identify the bug in my code",
		"Explain why this error is occurring",
		"What debugging steps should I follow?",
	}, got)

	assert.Equal(t, "What's wrong with my code?", Starters(tutor.ModeDebugging, "  ", 1)[0])
}

func TestStarters_RotationCycles(t *testing.T) {
	for _, m := range tutor.Modes() {
		assert.Equal(t, Starters(m, "", 0), Starters(m, "", 3), m)
		assert.Equal(t, Starters(m, "", 2), Starters(m, "", -1), m)
		assert.NotEqual(t, Starters(m, "", 0), Starters(m, "", 1), m)
		for i := range 3 {
			assert.Len(t, Starters(m, "task", i), 3)
		}
	}
}

func TestStarters_TaskPreview(t *testing.T) {
	got := Starters(tutor.ModeCodingHelp, "Build a linked list", 0)
	require.Len(t, got, 3)
	assert.Equal(t, "Help me implement: Build a linked list", got[0])
	assert.Equal(t, "What's the best approach to code this task?", got[1])

	long := strings.Repeat("ü", 150)
	got = Starters(tutor.ModeTheory, long, 2)
	assert.Equal(t, "Theoretical explanation for: "+strings.Repeat("ü", 100)+"…", got[0])
}

func TestStarters_UnsetMode(t *testing.T) {
	assert.Empty(t, Starters(tutor.ModeUnset, "", 0))
}
