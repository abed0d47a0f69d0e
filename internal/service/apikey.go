package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/womencount/womencount/internal/auth"
	"github.com/womencount/womencount/internal/model"
	"github.com/womencount/womencount/internal/repository"
)

// DefaultKeyDescription is used when issuance provides no description.
const DefaultKeyDescription = "Default API Key"

// maxIssueRetries bounds the uniqueness retry loop. A collision on 256
// bits of entropy is effectively impossible; the loop exists for
// robustness, not because collisions are expected.
const maxIssueRetries = 3

// KeyStore is the persistence surface the API key service needs.
type KeyStore interface {
	CreateAPIKey(ctx context.Context, key *model.APIKey) error
	GetActiveAPIKey(ctx context.Context, token string) (*model.APIKey, error)
	TouchAPIKey(ctx context.Context, token string) error
	DeactivateAPIKey(ctx context.Context, token string) error
	DeleteAPIKey(ctx context.Context, token string) error
	ListAPIKeys(ctx context.Context) ([]*model.APIKey, error)
}

// APIKeyService handles issuance, validation and lifecycle of API keys.
type APIKeyService struct {
	store  KeyStore
	logger *slog.Logger
}

// NewAPIKeyService creates a new APIKeyService.
func NewAPIKeyService(store KeyStore, logger *slog.Logger) *APIKeyService {
	return &APIKeyService{
		store:  store,
		logger: logger.With("component", "service.apikey"),
	}
}

// Issue generates a new key and persists it active.
// The returned record carries the plaintext token; this is the only
// call that exposes it.
func (s *APIKeyService) Issue(ctx context.Context, description string) (*model.APIKey, error) {
	if description == "" {
		description = DefaultKeyDescription
	}

	var lastErr error
	for attempt := 0; attempt < maxIssueRetries; attempt++ {
		token, err := auth.NewToken()
		if err != nil {
			return nil, fmt.Errorf("failed to generate API key: %w", err)
		}

		now := time.Now().UTC()
		key := &model.APIKey{
			Key:         token,
			Description: description,
			CreatedAt:   now,
			LastUsed:    now,
			IsActive:    true,
		}

		if err := s.store.CreateAPIKey(ctx, key); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("failed to store API key: %w", err)
		}

		return key, nil
	}

	return nil, fmt.Errorf("failed to issue API key after %d attempts: %w", maxIssueRetries, lastErr)
}

// Validate checks whether the token belongs to an active key.
// On success, last_used is updated best-effort: a failed timestamp
// write is logged but never fails the authorization decision.
func (s *APIKeyService) Validate(ctx context.Context, token string) (bool, error) {
	key, err := s.store.GetActiveAPIKey(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrAPIKeyNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := s.store.TouchAPIKey(ctx, key.Key); err != nil {
		s.logger.Warn("failed to update API key last_used",
			slog.String("error", err.Error()),
		)
	}

	return true, nil
}

// Revoke deactivates a key. Idempotent.
func (s *APIKeyService) Revoke(ctx context.Context, token string) error {
	return s.store.DeactivateAPIKey(ctx, token)
}

// DeletePermanently removes a key entirely. Idempotent.
func (s *APIKeyService) DeletePermanently(ctx context.Context, token string) error {
	return s.store.DeleteAPIKey(ctx, token)
}

// List returns all keys, active and inactive, most recent first.
func (s *APIKeyService) List(ctx context.Context) ([]*model.APIKey, error) {
	return s.store.ListAPIKeys(ctx)
}
