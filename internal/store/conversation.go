package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

// conversationRepo keeps each session's messages as one JSON array row.
// Appends are read-modify-write, so access is serialized in-process.
type conversationRepo struct {
	db *sql.DB
	mu *sync.Mutex
}

func (r *conversationRepo) Append(ctx context.Context, sessionID string, msgs ...ConversationMessage) error {
	if sessionID == "" {
		return fmt.Errorf("append conversation: empty session id")
	}
	if len(msgs) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	existing, err := loadMessages(ctx, tx, sessionID)
	if err != nil {
		return err
	}

	now := time.Now()
	for i := range msgs {
		if msgs[i].At.IsZero() {
			msgs[i].At = now
		}
	}
	existing = append(existing, msgs...)

	payload, err := json.Marshal(existing)
	if err != nil {
		return fmt.Errorf("marshal messages: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO conversations (session_id, messages_json, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			messages_json = excluded.messages_json,
			updated_at = excluded.updated_at`,
		sessionID, string(payload), now.UnixMilli(), now.UnixMilli())
	if err != nil {
		return fmt.Errorf("upsert conversation: %w", err)
	}

	return tx.Commit()
}

func (r *conversationRepo) Recent(ctx context.Context, sessionID string, n int) ([]ConversationMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msgs, err := loadMessages(ctx, r.db, sessionID)
	if err != nil {
		return nil, err
	}
	if n > 0 && len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	return msgs, nil
}

func (r *conversationRepo) Sessions(ctx context.Context, limit int) ([]ConversationSummary, error) {
	query := `SELECT session_id, json_array_length(messages_json), updated_at
		FROM conversations ORDER BY updated_at DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var out []ConversationSummary
	for rows.Next() {
		var (
			s       ConversationSummary
			updated int64
		)
		if err := rows.Scan(&s.SessionID, &s.Messages, &updated); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		s.UpdatedAt = time.UnixMilli(updated)
		out = append(out, s)
	}
	return out, rows.Err()
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func loadMessages(ctx context.Context, q queryer, sessionID string) ([]ConversationMessage, error) {
	var raw string
	err := q.QueryRowContext(ctx,
		`SELECT messages_json FROM conversations WHERE session_id = ?`, sessionID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return []ConversationMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}

	var msgs []ConversationMessage
	if err := json.Unmarshal([]byte(raw), &msgs); err != nil {
		return nil, fmt.Errorf("decode conversation %s: %w", sessionID, err)
	}
	return msgs, nil
}
