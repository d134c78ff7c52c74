package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

type TokenRepository struct {
	pool PgxPool
}

func NewTokenRepository(pool PgxPool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

func (r *TokenRepository) Create(ctx context.Context, token *domain.APIToken) error {
	query := `
		INSERT INTO api_tokens (id, user_id, key_hash, expires_at, revoked, created_at)
		VALUES ($1, $2, $3, $4, false, NOW())
		RETURNING created_at
	`

	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query, token.ID, token.UserID, token.KeyHash, token.ExpiresAt).Scan(&token.CreatedAt)
	if err != nil {
		return fmt.Errorf("create token: %w", err)
	}

	return nil
}

func (r *TokenRepository) GetByHash(ctx context.Context, keyHash string) (*domain.APIToken, error) {
	query := `
		SELECT id, user_id, key_hash, expires_at, revoked, created_at
		FROM api_tokens
		WHERE key_hash = $1
	`

	var token domain.APIToken
	err := r.pool.QueryRow(ctx, query, keyHash).Scan(
		&token.ID,
		&token.UserID,
		&token.KeyHash,
		&token.ExpiresAt,
		&token.Revoked,
		&token.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}

	return &token, nil
}

// Revoke marks every token matching the hash as revoked. Revoking a
// hash with no stored token is not an error.
func (r *TokenRepository) Revoke(ctx context.Context, keyHash string) error {
	query := `
		UPDATE api_tokens
		SET revoked = true
		WHERE key_hash = $1
	`

	if _, err := r.pool.Exec(ctx, query, keyHash); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	return nil
}
