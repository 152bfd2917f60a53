package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eduassist/chat-backend/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	gocache "github.com/patrickmn/go-cache"
)

const (
	promptCacheTTL     = 5 * time.Minute
	promptCacheCleanup = 10 * time.Minute
)

// PromptRepository defines the interface for named prompt persistence.
// Prompts are read-mostly; GetByName returns entity.ErrPromptNotFound when
// the name has never been created.
type PromptRepository interface {
	GetByName(ctx context.Context, name string) (*entity.Prompt, error)
	Create(ctx context.Context, name, promptText string) (*entity.Prompt, error)
}

var _ PromptRepository = &PromptPostgres{}

// PromptPostgres implements PromptRepository using PostgreSQL with an
// in-process read cache in front of it.
type PromptPostgres struct {
	db    *pgxpool.Pool
	cache *gocache.Cache
}

func NewPromptPostgres(db *pgxpool.Pool) *PromptPostgres {
	return &PromptPostgres{
		db:    db,
		cache: gocache.New(promptCacheTTL, promptCacheCleanup),
	}
}

func (r *PromptPostgres) GetByName(ctx context.Context, name string) (*entity.Prompt, error) {
	if cached, ok := r.cache.Get(name); ok {
		return cached.(*entity.Prompt), nil
	}

	row := r.db.QueryRow(ctx, `
		SELECT id, name, prompt_text, created_at
		FROM prompts
		WHERE name = $1`,
		name,
	)

	prompt, err := scanPrompt(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrPromptNotFound
		}
		return nil, fmt.Errorf("get prompt by name: %w", err)
	}

	r.cache.Set(name, prompt, gocache.DefaultExpiration)
	return prompt, nil
}

func (r *PromptPostgres) Create(ctx context.Context, name, promptText string) (*entity.Prompt, error) {
	// Concurrent bootstraps race on the unique name; the existing row wins.
	row := r.db.QueryRow(ctx, `
		INSERT INTO prompts (name, prompt_text)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, prompt_text, created_at`,
		name, promptText,
	)

	prompt, err := scanPrompt(row)
	if err != nil {
		return nil, fmt.Errorf("create prompt: %w", err)
	}

	r.cache.Set(name, prompt, gocache.DefaultExpiration)
	return prompt, nil
}
