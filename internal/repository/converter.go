package repository

import (
	"github.com/eduassist/chat-backend/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

func scanChatMessage(row pgx.Row) (*entity.ChatMessage, error) {
	var (
		msg       entity.ChatMessage
		role      string
		createdAt pgtype.Timestamptz
	)

	if err := row.Scan(&msg.ID, &msg.SessionKey, &role, &msg.Content, &createdAt); err != nil {
		return nil, err
	}

	msg.Role = entity.MessageRole(role)
	msg.CreatedAt = createdAt.Time
	return &msg, nil
}

func collectChatMessages(rows pgx.Rows) ([]*entity.ChatMessage, error) {
	messages := make([]*entity.ChatMessage, 0, WindowSize)
	for rows.Next() {
		msg, err := scanChatMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

func scanPrompt(row pgx.Row) (*entity.Prompt, error) {
	var (
		prompt    entity.Prompt
		id        pgtype.UUID
		createdAt pgtype.Timestamptz
	)

	if err := row.Scan(&id, &prompt.Name, &prompt.PromptText, &createdAt); err != nil {
		return nil, err
	}

	prompt.ID = uuid.UUID(id.Bytes).String()
	prompt.CreatedAt = createdAt.Time
	return &prompt, nil
}
