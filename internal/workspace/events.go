package workspace

// EventKind identifies what changed in a workspace.
type EventKind int

const (
	// EventChanged covers any state change: selections, input, task,
	// submission state, errors.
	EventChanged EventKind = iota
	// EventModeWarning fires when a submit was attempted without a mode.
	EventModeWarning
	// EventWarningCleared fires when the mode warning goes away.
	EventWarningCleared
	// EventQuestionSubmitted fires after an answer was added to history.
	EventQuestionSubmitted
	// EventSuggestionsUpdated fires when a starter or follow-up fetch
	// settles.
	EventSuggestionsUpdated
)

func (k EventKind) String() string {
	switch k {
	case EventChanged:
		return "changed"
	case EventModeWarning:
		return "mode-warning"
	case EventWarningCleared:
		return "warning-cleared"
	case EventQuestionSubmitted:
		return "question-submitted"
	case EventSuggestionsUpdated:
		return "suggestions-updated"
	}
	return "unknown"
}

// Event is delivered to subscribers.
type Event struct {
	Kind EventKind
}
