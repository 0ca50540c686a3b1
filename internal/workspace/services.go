// Package workspace is the learner's tutoring session: mode, level, task
// context, question history and the suggestion panel, with the asynchronous
// starter and follow-up fetches that feed it.
package workspace

import (
	"context"
	"errors"
	"io"

	"github.com/abhisek/codecoach/internal/tutor"
)

// Tutor answers questions.
type Tutor interface {
	Ask(ctx context.Context, q tutor.Question) (tutor.Result, error)
}

// Starters produces opening prompt ideas.
type Starters interface {
	Suggestions(ctx context.Context, req tutor.StarterRequest) ([]string, error)
}

// Followups produces next-question ideas after an exchange.
type Followups interface {
	Followups(ctx context.Context, req tutor.FollowupRequest) ([]string, error)
}

// TaskParser extracts text from an uploaded PDF.
type TaskParser interface {
	ParsePDF(ctx context.Context, name string, r io.Reader) (string, error)
}

// Services are the external collaborators of a workspace.
type Services struct {
	Tutor      Tutor
	Starters   Starters
	Followups  Followups
	TaskParser TaskParser
}

// TipSource computes typing tips for the text being written.
type TipSource interface {
	Suggest(text string, mode tutor.Mode, hasTask bool) []string
}

var (
	ErrModeRequired   = errors.New("workspace: select a mode first")
	ErrEmptyInput     = errors.New("workspace: question is empty")
	ErrSubmitInFlight = errors.New("workspace: a question is already being answered")
	ErrUploadInFlight = errors.New("workspace: an upload is already in progress")
	ErrClosed         = errors.New("workspace: closed")
)

// Messages shown when a failure carries no user-facing text of its own.
const (
	MsgSubmitFailed    = "Tutor is unavailable right now."
	MsgFollowupsFailed = "Unable to generate follow-up suggestions."
	MsgNoFollowups     = "No follow-up ideas this time. Ask another question to get more."
	MsgUploadFailed    = "Could not read the task file."
	MsgUnsupportedTask = "Unsupported file type. Upload a .txt, .md or .pdf file."
	MsgGeneratingIdeas = "Generating ideas…"
)

type userMessager interface {
	UserMessage() string
}

// userMessage extracts the text meant for the learner from err.
func userMessage(err error, fallback string) string {
	var um userMessager
	if errors.As(err, &um) {
		if msg := um.UserMessage(); msg != "" {
			return msg
		}
	}
	return fallback
}
