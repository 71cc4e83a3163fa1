package models

import "time"

// ProviderKeys are a user's content provider API keys, encrypted at rest.
type ProviderKeys struct {
	UserID        int64     `db:"user_id" json:"user_id"`
	PerplexityKey string    `db:"perplexity_key" json:"perplexity_key"`
	GeminiKey     string    `db:"gemini_key" json:"gemini_key"`
	OpenAIKey     string    `db:"openai_key" json:"openai_key"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
