package workspace

import (
	ws "github.com/abhisek/codecoach/internal/workspace"
)

// EventMsg carries a workspace event into the Bubble Tea loop.
type EventMsg struct {
	Event ws.Event
}

// submitDoneMsg is sent when a tutor request settles.
type submitDoneMsg struct {
	Err error
}
