package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/abhisek/codecoach/internal/llm"
	"github.com/abhisek/codecoach/internal/store"
)

// LLM purposes recorded with each request.
const (
	PurposeTutor     = "tutor"
	PurposeStarters  = "starters"
	PurposeFollowups = "followups"
)

// Validation errors returned before any model call is made.
var (
	ErrEmptyQuestion   = errors.New("tutor: empty question")
	ErrModeRequired    = errors.New("tutor: mode required")
	ErrSessionRequired = errors.New("tutor: session id required")
)

// Question is one student request to the tutor.
type Question struct {
	Question     string `json:"question"`
	StudentCode  string `json:"studentCode,omitempty"`
	Language     string `json:"language,omitempty"`
	Goal         string `json:"goal,omitempty"`
	Topic        string `json:"topic,omitempty"`
	Mode         Mode   `json:"mode,omitempty"`
	Level        Level  `json:"level,omitempty"`
	UploadedTask string `json:"uploadedTask,omitempty"`
	SessionID    string `json:"sessionId,omitempty"`
}

// Service answers tutoring questions and keeps per-session history.
type Service struct {
	provider llm.Provider
	history  store.ConversationRepo
}

// NewService creates a tutor service. history may be nil, in which case
// nothing is remembered between questions.
func NewService(provider llm.Provider, history store.ConversationRepo) *Service {
	return &Service{provider: provider, history: history}
}

// Ask sends the question to the model and returns its reply. A reply that
// does not match ReplySchema comes back unstructured rather than as an error.
func (s *Service) Ask(ctx context.Context, q Question) (Reply, error) {
	q.Question = strings.TrimSpace(q.Question)
	if q.Question == "" {
		return Reply{}, ErrEmptyQuestion
	}
	if s.provider == nil {
		return Reply{}, llm.ErrNotConfigured
	}
	if q.Topic == "" && q.Mode != ModeUnset {
		q.Topic = q.Mode.Topic()
	}
	if q.Language == "" {
		q.Language = "General"
	}

	ctx = llm.WithPurpose(ctx, PurposeTutor)
	if q.SessionID != "" {
		ctx = llm.WithSession(ctx, q.SessionID)
	}

	gen := tutorGeneration(q.Mode)
	req := llm.Request{
		System: SystemPrompt(q.Mode, q.Level),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildTutorUserMessage(q)},
		},
		Schema:      ReplySchema,
		MaxTokens:   gen.MaxTokens,
		Temperature: gen.Temperature,
	}

	var reply Reply
	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		raw, ok := llm.RawContent(err)
		if !ok {
			return Reply{}, fmt.Errorf("generate tutor reply: %w", err)
		}
		reply = Unstructured(raw)
	} else {
		reply = decodeReply(resp)
	}

	s.remember(ctx, q, reply.Result())
	return reply, nil
}

func decodeReply(resp *llm.Response) Reply {
	var r Result
	if err := json.Unmarshal(resp.Content, &r); err != nil || strings.TrimSpace(r.ConceptSummary) == "" {
		return Unstructured(resp.Text())
	}
	if r.Hints == nil {
		r.Hints = []string{}
	}
	return Structured(r)
}

// remember appends the exchange to the session history. Failures are logged
// and never fail the request.
func (s *Service) remember(ctx context.Context, q Question, r Result) {
	if s.history == nil || q.SessionID == "" {
		return
	}
	answer := r.ConceptSummary
	if r.NextStepQuestion != "" {
		answer += "\n\n" + r.NextStepQuestion
	}
	err := s.history.Append(context.WithoutCancel(ctx), q.SessionID,
		store.ConversationMessage{Role: store.RoleUser, Content: q.Question},
		store.ConversationMessage{Role: store.RoleAssistant, Content: answer},
	)
	if err != nil {
		log.Warn().Err(err).Str("session", q.SessionID).Msg("record conversation")
	}
}
