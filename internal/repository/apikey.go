package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/womencount/womencount/internal/model"
)

// Common errors for API key repository operations.
var (
	ErrAPIKeyNotFound = errors.New("API key not found")
	ErrDuplicateKey   = errors.New("API key already exists")
)

const apiKeyColumns = `key, description, created_at, last_used, is_active`

// CreateAPIKey inserts a new API key.
// Returns ErrDuplicateKey on a token collision so the caller can retry
// with fresh entropy.
func (r *Repository) CreateAPIKey(ctx context.Context, key *model.APIKey) error {
	query := `
		INSERT INTO api_keys (key, description, created_at, last_used, is_active)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		key.Key,
		key.Description,
		key.CreatedAt,
		key.LastUsed,
		key.IsActive,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to create API key: %w", err)
	}

	return nil
}

// GetActiveAPIKey retrieves an active key by exact token match.
// This is the hot path of every protected request: a single indexed
// lookup on the primary key.
func (r *Repository) GetActiveAPIKey(ctx context.Context, token string) (*model.APIKey, error) {
	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE key = $1 AND is_active = TRUE`

	key, err := scanAPIKey(r.pool.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAPIKeyNotFound
		}
		return nil, fmt.Errorf("failed to get API key: %w", err)
	}

	return key, nil
}

// TouchAPIKey updates last_used after a successful validation.
func (r *Repository) TouchAPIKey(ctx context.Context, token string) error {
	query := `UPDATE api_keys SET last_used = $2 WHERE key = $1`

	_, err := r.pool.Exec(ctx, query, token, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update API key last used: %w", err)
	}

	return nil
}

// DeactivateAPIKey flips is_active off. Idempotent: deactivating an
// already-inactive or missing key is not an error.
func (r *Repository) DeactivateAPIKey(ctx context.Context, token string) error {
	query := `UPDATE api_keys SET is_active = FALSE WHERE key = $1`

	if _, err := r.pool.Exec(ctx, query, token); err != nil {
		return fmt.Errorf("failed to deactivate API key: %w", err)
	}

	return nil
}

// DeleteAPIKey removes a key entirely. Idempotent.
func (r *Repository) DeleteAPIKey(ctx context.Context, token string) error {
	query := `DELETE FROM api_keys WHERE key = $1`

	if _, err := r.pool.Exec(ctx, query, token); err != nil {
		return fmt.Errorf("failed to delete API key: %w", err)
	}

	return nil
}

// ListAPIKeys retrieves all keys, active and inactive, most recent first.
func (r *Repository) ListAPIKeys(ctx context.Context) ([]*model.APIKey, error) {
	query := `SELECT ` + apiKeyColumns + ` FROM api_keys ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list API keys: %w", err)
	}
	defer rows.Close()

	var keys []*model.APIKey
	for rows.Next() {
		key, err := scanAPIKey(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan API key: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating API keys: %w", err)
	}

	return keys, nil
}

// scanAPIKey scans a row into an APIKey model.
func scanAPIKey(row pgx.Row) (*model.APIKey, error) {
	var key model.APIKey

	err := row.Scan(
		&key.Key,
		&key.Description,
		&key.CreatedAt,
		&key.LastUsed,
		&key.IsActive,
	)

	if err != nil {
		return nil, err
	}

	return &key, nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique
// constraint violation (error code 23505).
func isUniqueViolation(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "23505") || strings.Contains(err.Error(), "unique"))
}
