package suggest

import (
	"strings"

	"github.com/samber/lo"

	"github.com/abhisek/codecoach/internal/tutor"
)

const taskPreviewLength = 100

// starterSet is one canned variation. Entries containing %s receive the
// task preview.
type starterSet [3]string

var starterVariations = map[tutor.Mode]struct {
	withTask [3]starterSet
	noTask   [3]starterSet
}{
	tutor.ModeDebugging: {
		withTask: [3]starterSet{
			{"Help me debug this issue: %s", "What's causing the error in this task and how can I fix it?", "Walk me through debugging this step by step"},
			{"I'm stuck debugging: %s", "Can you help me understand what's wrong with this task?", "Guide me through finding and fixing the bug"},
			{"Debugging help needed for: %s", "What error patterns should I look for in this code?", "Help me systematically troubleshoot this issue"},
		},
		noTask: [3]starterSet{
			{"Help me identify the bug in my code", "Explain why this error is occurring", "What debugging steps should I follow?"},
			{"What's wrong with my code?", "How do I find the source of this error?", "Can you guide me through debugging this?"},
			{"I need help debugging", "What tools and techniques should I use?", "Walk me through the debugging process"},
		},
	},
	tutor.ModeTheory: {
		withTask: [3]starterSet{
			{"Explain the theory behind: %s", "What are the core concepts I need to understand for this task?", "Break down the theoretical principles involved"},
			{"What theory applies to: %s", "Help me understand the fundamental concepts needed", "Explain the underlying principles for this task"},
			{"Theoretical explanation for: %s", "What concepts should I study to understand this?", "Break down the theory step by step"},
		},
		noTask: [3]starterSet{
			{"Explain the fundamental concepts behind this topic", "What are the theoretical principles I should know?", "Help me understand the underlying theory"},
			{"What's the theory behind this?", "Explain the core concepts", "Help me grasp the fundamental principles"},
			{"I want to understand the theory", "What concepts are important here?", "Break down the theoretical foundation"},
		},
	},
	tutor.ModeCodingHelp: {
		withTask: [3]starterSet{
			{"Help me implement: %s", "What's the best approach to code this task?", "Show me how to write code for this requirement"},
			{"How do I code: %s", "What's the best way to implement this task?", "Guide me through writing the code for this"},
			{"I need to code: %s", "What coding patterns should I use for this?", "Help me structure the code for this requirement"},
		},
		noTask: [3]starterSet{
			{"Help me write code for this feature", "What's the best way to implement this?", "Show me example code for this problem"},
			{"How should I code this?", "What's the best implementation approach?", "Guide me through writing this code"},
			{"I need coding help", "What's the right way to implement this?", "Help me write the code step by step"},
		},
	},
}

// Starters returns one of three canned starter sets for mode. rotation
// picks the set modulo 3, so repeated refreshes cycle through the same
// three. An unset mode yields nothing.
func Starters(mode tutor.Mode, task string, rotation int) []string {
	v, ok := starterVariations[mode]
	if !ok {
		return nil
	}
	seed := ((rotation % 3) + 3) % 3

	task = strings.TrimSpace(task)
	if task == "" {
		set := v.noTask[seed]
		return set[:]
	}

	preview := taskPreview(task)
	set := v.withTask[seed]
	return lo.Map(set[:], func(s string, _ int) string {
		return strings.Replace(s, "%s", preview, 1)
	})
}

func taskPreview(task string) string {
	r := []rune(task)
	if len(r) <= taskPreviewLength {
		return task
	}
	return string(r[:taskPreviewLength]) + "…"
}
