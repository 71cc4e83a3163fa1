package service

import (
	"context"
	"fmt"

	"github.com/maheshrc27/tweetgenie/internal/models"
	"github.com/maheshrc27/tweetgenie/internal/repository"
	"github.com/maheshrc27/tweetgenie/internal/transfer"
	"github.com/maheshrc27/tweetgenie/pkg/utils"
)

type KeysService interface {
	Get(ctx context.Context, userID int64) (*transfer.ProviderKeys, error)
	Update(ctx context.Context, userID int64, keys transfer.ProviderKeys) error
	Resolve(ctx context.Context, userID int64) (transfer.ProviderKeys, error)
}

type keysService struct {
	kr  repository.ProviderKeysRepository
	key []byte
}

func NewKeysService(kr repository.ProviderKeysRepository, key []byte) KeysService {
	return &keysService{kr: kr, key: key}
}

// Get returns the stored keys masked down to their last four characters.
func (s *keysService) Get(ctx context.Context, userID int64) (*transfer.ProviderKeys, error) {
	keys, err := s.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &transfer.ProviderKeys{
		PerplexityAPIKey: maskIfSet(keys.PerplexityAPIKey),
		GeminiAPIKey:     maskIfSet(keys.GeminiAPIKey),
		OpenAIAPIKey:     maskIfSet(keys.OpenAIAPIKey),
	}, nil
}

// Update stores the given keys. An empty field keeps the key already stored.
func (s *keysService) Update(ctx context.Context, userID int64, keys transfer.ProviderKeys) error {
	existing, err := s.kr.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if existing == nil {
		existing = &models.ProviderKeys{UserID: userID}
	}

	fields := []struct {
		plain string
		dst   *string
	}{
		{keys.PerplexityAPIKey, &existing.PerplexityKey},
		{keys.GeminiAPIKey, &existing.GeminiKey},
		{keys.OpenAIAPIKey, &existing.OpenAIKey},
	}
	for _, f := range fields {
		if !isValidKey(f.plain) {
			continue
		}
		sealed, err := utils.Encrypt([]byte(f.plain), s.key)
		if err != nil {
			return fmt.Errorf("error encrypting key: %w", err)
		}
		*f.dst = sealed
	}

	return s.kr.Upsert(ctx, existing)
}

func (s *keysService) Resolve(ctx context.Context, userID int64) (transfer.ProviderKeys, error) {
	stored, err := s.kr.GetByUserID(ctx, userID)
	if err != nil {
		return transfer.ProviderKeys{}, err
	}
	if stored == nil {
		return transfer.ProviderKeys{}, nil
	}

	var keys transfer.ProviderKeys
	fields := []struct {
		sealed string
		dst    *string
	}{
		{stored.PerplexityKey, &keys.PerplexityAPIKey},
		{stored.GeminiKey, &keys.GeminiAPIKey},
		{stored.OpenAIKey, &keys.OpenAIAPIKey},
	}
	for _, f := range fields {
		if f.sealed == "" {
			continue
		}
		plain, err := utils.Decrypt(f.sealed, s.key)
		if err != nil {
			return transfer.ProviderKeys{}, fmt.Errorf("error decrypting key: %w", err)
		}
		*f.dst = plain
	}
	return keys, nil
}

func maskIfSet(key string) string {
	if key == "" {
		return ""
	}
	return utils.MaskKey(key)
}
