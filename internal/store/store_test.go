package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	// A distinct shared-cache name per test keeps tables isolated.
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)

	tests := []struct {
		pragma string
		want   string
	}{
		// journal_mode reports "memory" for in-memory databases.
		{"foreign_keys", "1"},
		{"synchronous", "1"},
	}

	for _, tt := range tests {
		var got string
		require.NoError(t, s.DB().QueryRow("PRAGMA "+tt.pragma).Scan(&got))
		assert.Equal(t, tt.want, got, "PRAGMA %s", tt.pragma)
	}
}

func TestOpenFileDatabaseUsesWAL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "codecoach.db")
	require.NoError(t, EnsureDir(path))

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	var mode string
	require.NoError(t, s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", strings.ToLower(mode))
	assert.NoError(t, s.Ping(context.Background()))
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CODECOACH_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)

	p, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "codecoach", "codecoach.db"), p)

	t.Setenv("CODECOACH_DB", filepath.Join(dir, "custom.db"))
	p, err = DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "custom.db"), p)
}

func TestSequenceCounterMonotonic(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var prev int64
	for range 5 {
		n, err := s.seq.Next(ctx)
		require.NoError(t, err)
		assert.Greater(t, n, prev)
		prev = n
	}
}

func TestEventRepo_AppendQueryGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		SessionID: "s1", Provider: "openai", Model: "gpt-4o-mini", Purpose: "tutor",
		InputTokens: 100, OutputTokens: 50, LatencyMs: 800, Success: true,
		RequestBody: "[user]\nwhy?", ResponseBody: `{"conceptSummary":"x"}`,
	}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		SessionID: "s1", Provider: "openai", Model: "gpt-4o-mini", Purpose: "followups",
		InputTokens: 40, OutputTokens: 20, LatencyMs: 400, Success: false, ErrorMessage: "rate limited",
	}))

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "followups", all[0].Purpose, "newest first")
	assert.False(t, all[0].Success)
	assert.Equal(t, "rate limited", all[0].ErrorMessage)

	tutorOnly, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "tutor", Limit: 10})
	require.NoError(t, err)
	require.Len(t, tutorOnly, 1)

	got, err := repo.GetLLMEvent(ctx, tutorOnly[0].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "[user]\nwhy?", got.RequestBody)
	assert.True(t, got.Success)
	assert.False(t, got.Timestamp.IsZero())

	missing, err := repo.GetLLMEvent(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestEventRepo_Usage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, d := range []LLMRequestEventData{
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "tutor", InputTokens: 100, OutputTokens: 10, LatencyMs: 100, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "tutor", InputTokens: 200, OutputTokens: 20, LatencyMs: 300, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "starters", InputTokens: 10, OutputTokens: 5, LatencyMs: 50, Success: false},
	} {
		require.NoError(t, repo.AppendLLMRequest(ctx, d))
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 2)
	assert.Equal(t, PurposeUsage{Purpose: "tutor", Calls: 2, InputTokens: 300, OutputTokens: 30, AvgLatencyMs: 200}, byPurpose[0])

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 1)
	assert.Equal(t, 2, byModel[0].Calls, "failed calls are not billed")
}

func TestConversationRepo_AppendAndRecent(t *testing.T) {
	s := openTestStore(t)
	repo := s.ConversationRepo()
	ctx := context.Background()

	empty, err := repo.Recent(ctx, "nobody", 8)
	require.NoError(t, err)
	assert.Empty(t, empty)

	for i := range 5 {
		require.NoError(t, repo.Append(ctx, "sess",
			ConversationMessage{Role: RoleUser, Content: fmt.Sprintf("q%d", i)},
			ConversationMessage{Role: RoleAssistant, Content: fmt.Sprintf("a%d", i)},
		))
	}

	last, err := repo.Recent(ctx, "sess", 3)
	require.NoError(t, err)
	require.Len(t, last, 3)
	assert.Equal(t, "a3", last[0].Content)
	assert.Equal(t, "q4", last[1].Content)
	assert.Equal(t, "a4", last[2].Content)
	assert.False(t, last[2].At.IsZero())

	all, err := repo.Recent(ctx, "sess", 0)
	require.NoError(t, err)
	assert.Len(t, all, 10)

	sessions, err := repo.Sessions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "sess", sessions[0].SessionID)
	assert.Equal(t, 10, sessions[0].Messages)
}

func TestConversationRepo_RejectsEmptySession(t *testing.T) {
	s := openTestStore(t)
	err := s.ConversationRepo().Append(context.Background(), "", ConversationMessage{Role: RoleUser, Content: "x"})
	assert.Error(t, err)
}

func TestConversationRepo_ConcurrentAppends(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Separate repos share the store's lock.
			assert.NoError(t, s.ConversationRepo().Append(ctx, "busy",
				ConversationMessage{Role: RoleUser, Content: fmt.Sprint(i)}))
		}()
	}
	wg.Wait()

	all, err := s.ConversationRepo().Recent(ctx, "busy", 0)
	require.NoError(t, err)
	assert.Len(t, all, 10)
}
