package tutor

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/codecoach/internal/llm"
)

// StarterService produces opening prompt ideas for an empty input box.
type StarterService struct {
	provider llm.Provider
}

// NewStarterService creates a starter-suggestion service.
func NewStarterService(provider llm.Provider) *StarterService {
	return &StarterService{provider: provider}
}

// Suggestions asks the model for up to three short prompts suited to mode,
// grounded on task when one is uploaded.
func (s *StarterService) Suggestions(ctx context.Context, mode Mode, task string) ([]string, error) {
	if !mode.Valid() {
		return nil, ErrModeRequired
	}
	if s.provider == nil {
		return nil, llm.ErrNotConfigured
	}
	task = strings.TrimSpace(task)

	ctx = llm.WithPurpose(ctx, PurposeStarters)
	resp, err := s.provider.Generate(ctx, llm.Request{
		System: starterSystemPrompt(mode, task),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: starterUserMessage(mode, task)},
		},
		MaxTokens:   100,
		Temperature: 0.9,
	})
	if err != nil {
		return nil, fmt.Errorf("generate starters: %w", err)
	}

	raw := resp.Text()
	if raw == "" {
		return nil, fmt.Errorf("generate starters: empty reply")
	}
	return parseStarterList(raw), nil
}
