package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/JRocha1994/archi-track/internal/repository"
)

// APIKeyRepository stores hashed API keys and the owner each one acts for.
type APIKeyRepository struct {
	db  *DB
	now func() time.Time
}

// NewAPIKeyRepository creates a new APIKeyRepository.
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db, now: time.Now}
}

// Create stores a key hash for an owner.
func (r *APIKeyRepository) Create(ctx context.Context, ownerID, keyHash, description string) error {
	_, err := r.db.exec(ctx, r.db,
		`INSERT INTO api_keys (key_hash, owner_id, created_at, description) VALUES (?, ?, ?, ?)`,
		keyHash, ownerID, r.now(), description)
	if err := insertError(err); err != nil {
		return fmt.Errorf("failed to create api key: %w", err)
	}
	return nil
}

// OwnerForKeyHash returns the owner of a key hash and records its use.
func (r *APIKeyRepository) OwnerForKeyHash(ctx context.Context, keyHash string) (string, error) {
	var ownerID string
	err := r.db.queryRow(ctx,
		`SELECT owner_id FROM api_keys WHERE key_hash = ?`, keyHash).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up api key: %w", err)
	}

	if _, err := r.db.exec(ctx, r.db,
		`UPDATE api_keys SET last_used = ? WHERE key_hash = ?`, r.now(), keyHash); err != nil {
		return "", fmt.Errorf("failed to touch api key: %w", err)
	}
	return ownerID, nil
}

// Revoke deletes a key hash.
func (r *APIKeyRepository) Revoke(ctx context.Context, keyHash string) error {
	result, err := r.db.exec(ctx, r.db, `DELETE FROM api_keys WHERE key_hash = ?`, keyHash)
	if err != nil {
		return fmt.Errorf("failed to revoke api key: %w", err)
	}
	return requireAffected(result)
}
