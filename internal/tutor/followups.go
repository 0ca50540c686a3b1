package tutor

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/abhisek/codecoach/internal/llm"
	"github.com/abhisek/codecoach/internal/store"
)

// FollowupService suggests what to ask next, based on the session's recent
// conversation.
type FollowupService struct {
	provider llm.Provider
	history  store.ConversationRepo
}

// NewFollowupService creates a follow-up service. history may be nil.
func NewFollowupService(provider llm.Provider, history store.ConversationRepo) *FollowupService {
	return &FollowupService{provider: provider, history: history}
}

// Followups returns up to three follow-up prompts. An unreadable history is
// treated as empty.
func (s *FollowupService) Followups(ctx context.Context, sessionID string, mode Mode, task string) ([]string, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}
	if !mode.Valid() {
		return nil, ErrModeRequired
	}
	if s.provider == nil {
		return nil, llm.ErrNotConfigured
	}

	var recent []store.ConversationMessage
	if s.history != nil {
		msgs, err := s.history.Recent(ctx, sessionID, followupContextMessages)
		if err != nil {
			log.Warn().Err(err).Str("session", sessionID).Msg("load conversation for follow-ups")
		} else {
			recent = msgs
		}
	}

	ctx = llm.WithSession(llm.WithPurpose(ctx, PurposeFollowups), sessionID)
	resp, err := s.provider.Generate(ctx, llm.Request{
		System: followupSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildFollowupUserMessage(mode, strings.TrimSpace(task), recent)},
		},
		MaxTokens:   200,
		Temperature: 0.9,
	})
	if err != nil {
		return nil, fmt.Errorf("generate follow-ups: %w", err)
	}
	raw := resp.Text()
	if raw == "" {
		return nil, fmt.Errorf("generate follow-ups: empty reply")
	}
	tips := parseFollowupList(raw)
	if len(tips) == 0 {
		return DefaultFollowups(), nil
	}
	return tips, nil
}

// DefaultFollowups is returned when the model replied but produced no usable
// prompts.
func DefaultFollowups() []string {
	return []string{
		"Ask the tutor to recap key insights from the previous answer.",
		"Request an example or analogy to deepen understanding.",
		"Ask what the next logical step would be for your project.",
	}
}
