package repository

import (
	"context"
	"fmt"

	"github.com/eduassist/chat-backend/internal/entity"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WindowSize is the maximum number of transcript messages a read window
// materializes. Older messages stay in storage; the window is a read-time
// projection, never a destructive trim.
const WindowSize = 20

// MessageRepository defines the interface for conversation transcript persistence.
// Append is insert-only: a session exists as soon as its first message does.
// Window returns up to the WindowSize most recent messages, oldest-first, and
// an empty slice (not an error) for a session with no messages.
type MessageRepository interface {
	Append(ctx context.Context, sessionKey string, role entity.MessageRole, content string) (*entity.ChatMessage, error)
	Window(ctx context.Context, sessionKey string) ([]*entity.ChatMessage, error)
	All(ctx context.Context, sessionKey string) ([]*entity.ChatMessage, error)
}

var _ MessageRepository = &MessagePostgres{}

// MessagePostgres implements MessageRepository using PostgreSQL
type MessagePostgres struct {
	db *pgxpool.Pool
}

func NewMessagePostgres(db *pgxpool.Pool) *MessagePostgres {
	return &MessagePostgres{db: db}
}

func (r *MessagePostgres) Append(
	ctx context.Context,
	sessionKey string,
	role entity.MessageRole,
	content string,
) (*entity.ChatMessage, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO conversation_messages (session_key, role, content)
		VALUES ($1, $2, $3)
		RETURNING id, session_key, role, content, created_at`,
		sessionKey, string(role), content,
	)

	msg, err := scanChatMessage(row)
	if err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}

	return msg, nil
}

// Window reads the most recent WindowSize messages in reverse insertion order
// and flips them, so callers always see the tail of the transcript oldest-first.
func (r *MessagePostgres) Window(ctx context.Context, sessionKey string) ([]*entity.ChatMessage, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, session_key, role, content, created_at
		FROM conversation_messages
		WHERE session_key = $1
		ORDER BY id DESC
		LIMIT $2`,
		sessionKey, WindowSize,
	)
	if err != nil {
		return nil, fmt.Errorf("query window: %w", err)
	}
	defer rows.Close()

	messages, err := collectChatMessages(rows)
	if err != nil {
		return nil, fmt.Errorf("scan window: %w", err)
	}

	reverseMessages(messages)
	return messages, nil
}

// All reads the full transcript in insertion order. Used by transcript export,
// which is not bounded by the conversation window.
func (r *MessagePostgres) All(ctx context.Context, sessionKey string) ([]*entity.ChatMessage, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, session_key, role, content, created_at
		FROM conversation_messages
		WHERE session_key = $1
		ORDER BY id ASC`,
		sessionKey,
	)
	if err != nil {
		return nil, fmt.Errorf("query transcript: %w", err)
	}
	defer rows.Close()

	messages, err := collectChatMessages(rows)
	if err != nil {
		return nil, fmt.Errorf("scan transcript: %w", err)
	}

	return messages, nil
}

func reverseMessages(messages []*entity.ChatMessage) {
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
}
