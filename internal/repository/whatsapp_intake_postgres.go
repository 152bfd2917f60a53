package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// WhatsAppIntakeRepository defines the interface for the webhook dedup ledger.
// One record per accepted (session key, provider timestamp) pair.
type WhatsAppIntakeRepository interface {
	Exists(ctx context.Context, sessionKey, timestamp string) (bool, error)
	Create(ctx context.Context, sessionKey, timestamp string) error
}

var _ WhatsAppIntakeRepository = &WhatsAppIntakePostgres{}

// WhatsAppIntakePostgres implements WhatsAppIntakeRepository using PostgreSQL
type WhatsAppIntakePostgres struct {
	db *pgxpool.Pool
}

func NewWhatsAppIntakePostgres(db *pgxpool.Pool) *WhatsAppIntakePostgres {
	return &WhatsAppIntakePostgres{db: db}
}

func (r *WhatsAppIntakePostgres) Exists(ctx context.Context, sessionKey, timestamp string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM whatsapp_chats
			WHERE session_key = $1 AND provider_timestamp = $2
		)`,
		sessionKey, timestamp,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check intake record: %w", err)
	}

	return exists, nil
}

func (r *WhatsAppIntakePostgres) Create(ctx context.Context, sessionKey, timestamp string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO whatsapp_chats (session_key, provider_timestamp)
		VALUES ($1, $2)
		ON CONFLICT (session_key, provider_timestamp) DO NOTHING`,
		sessionKey, timestamp,
	)
	if err != nil {
		return fmt.Errorf("create intake record: %w", err)
	}

	return nil
}
