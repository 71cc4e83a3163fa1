package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/maheshrc27/tweetgenie/internal/models"
)

type ProviderKeysRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.ProviderKeys, error)
	Upsert(ctx context.Context, keys *models.ProviderKeys) error
}

type providerKeysRepository struct {
	db *sql.DB
}

func NewProviderKeysRepository(db *sql.DB) ProviderKeysRepository {
	return &providerKeysRepository{db: db}
}

func (r *providerKeysRepository) GetByUserID(ctx context.Context, userID int64) (*models.ProviderKeys, error) {
	query := `
		SELECT user_id, COALESCE(perplexity_key, ''), COALESCE(gemini_key, ''), COALESCE(openai_key, ''), updated_at
		FROM provider_keys
		WHERE user_id = $1
	`

	var keys models.ProviderKeys
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&keys.UserID, &keys.PerplexityKey, &keys.GeminiKey, &keys.OpenAIKey, &keys.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &keys, nil
}

func (r *providerKeysRepository) Upsert(ctx context.Context, keys *models.ProviderKeys) error {
	query := `
		INSERT INTO provider_keys (user_id, perplexity_key, gemini_key, openai_key, updated_at)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), $5)
		ON CONFLICT (user_id) DO UPDATE
		SET perplexity_key = EXCLUDED.perplexity_key,
			gemini_key = EXCLUDED.gemini_key,
			openai_key = EXCLUDED.openai_key,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, query, keys.UserID, keys.PerplexityKey, keys.GeminiKey, keys.OpenAIKey, time.Now())
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
