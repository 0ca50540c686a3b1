package client

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/abhisek/codecoach/internal/llm"
	"github.com/abhisek/codecoach/internal/store"
	"github.com/abhisek/codecoach/internal/taskparse"
	"github.com/abhisek/codecoach/internal/tutor"
)

// Local runs the tutor services in-process and reports failures the same
// way the HTTP server does, so callers cannot tell the two apart.
type Local struct {
	configured  bool
	development bool
	tutor       *tutor.Service
	starters    *tutor.StarterService
	followups   *tutor.FollowupService
}

// NewLocal creates an in-process client. provider may be nil. With
// development set, failures carry the underlying error as Details, as the
// server does in development.
func NewLocal(provider llm.Provider, history store.ConversationRepo, development bool) *Local {
	return &Local{
		configured:  provider != nil,
		development: development,
		tutor:       tutor.NewService(provider, history),
		starters:    tutor.NewStarterService(provider),
		followups:   tutor.NewFollowupService(provider, history),
	}
}

func misconfigured() error {
	return &APIError{Status: http.StatusInternalServerError, Message: tutor.MsgMisconfigured}
}

// failure logs err and returns the generic message for it.
func (l *Local) failure(err error, message string) error {
	log.Warn().Err(err).Msg(message)
	apiErr := &APIError{Status: http.StatusInternalServerError, Message: message}
	if l.development {
		apiErr.Details = err.Error()
	}
	return apiErr
}

// Ask answers a tutor question.
func (l *Local) Ask(ctx context.Context, q tutor.Question) (tutor.Result, error) {
	if !l.configured {
		return tutor.Result{}, misconfigured()
	}
	reply, err := l.tutor.Ask(ctx, q)
	if errors.Is(err, tutor.ErrEmptyQuestion) {
		return tutor.Result{}, &APIError{Status: http.StatusBadRequest, Message: tutor.MsgMissingQuestion}
	}
	if err != nil {
		return tutor.Result{}, l.failure(err, tutor.MsgTutorUnavailable)
	}
	return reply.Result(), nil
}

// Suggestions generates starter prompts.
func (l *Local) Suggestions(ctx context.Context, req tutor.StarterRequest) ([]string, error) {
	if !l.configured {
		return nil, misconfigured()
	}
	if !req.Mode.Valid() {
		return nil, &APIError{Status: http.StatusBadRequest, Message: tutor.MsgMissingMode}
	}
	out, err := l.starters.Suggestions(ctx, req.Mode, req.UploadedTask)
	if err != nil {
		return nil, l.failure(err, tutor.MsgSuggestionsFailed)
	}
	return out, nil
}

// Followups generates follow-up prompts.
func (l *Local) Followups(ctx context.Context, req tutor.FollowupRequest) ([]string, error) {
	if !l.configured {
		return nil, misconfigured()
	}
	if req.SessionID == "" || !req.Mode.Valid() {
		return nil, &APIError{Status: http.StatusBadRequest, Message: tutor.MsgMissingFollowupArgs}
	}
	out, err := l.followups.Followups(ctx, req.SessionID, req.Mode, req.UploadedTask)
	if err != nil {
		return nil, l.failure(err, tutor.MsgFollowupsFailed)
	}
	return out, nil
}

// ParsePDF extracts text from a PDF without a network hop.
func (l *Local) ParsePDF(_ context.Context, name string, r io.Reader) (string, error) {
	if !taskparse.IsPDF(name, "") {
		return "", &APIError{Status: http.StatusBadRequest, Message: taskparse.MsgNotPDF}
	}
	text, err := taskparse.ExtractPDF(r)
	if errors.Is(err, taskparse.ErrEmptyPDF) {
		return "", &APIError{Status: http.StatusBadRequest, Message: taskparse.MsgEmptyPDF}
	}
	if err != nil {
		return "", l.failure(err, taskparse.MsgPDFFailed)
	}
	return text, nil
}
