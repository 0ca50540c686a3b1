package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit     int    // max results (0 = unlimited)
	Purpose   string // exact purpose match ("" = any)
	SessionID string // exact session match ("" = any)
	After     int64  // sequence > After
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	SessionID    string
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates token usage for one purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates token usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo records and queries LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}

// Conversation roles as stored. Follow-up prompts render them upper-cased.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationMessage is one stored turn of a tutoring conversation.
type ConversationMessage struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// ConversationSummary describes a stored session for listings.
type ConversationSummary struct {
	SessionID string
	Messages  int
	UpdatedAt time.Time
}

// ConversationRepo is the server-side conversation history keyed by
// session id. Messages are append-only.
type ConversationRepo interface {
	// Append adds messages to the end of the session's conversation,
	// creating the conversation on first use.
	Append(ctx context.Context, sessionID string, msgs ...ConversationMessage) error

	// Recent returns up to n of the latest messages in order. n <= 0
	// returns all. An unknown session yields an empty slice.
	Recent(ctx context.Context, sessionID string, n int) ([]ConversationMessage, error)

	// Sessions lists conversations, most recently updated first.
	Sessions(ctx context.Context, limit int) ([]ConversationSummary, error)
}
