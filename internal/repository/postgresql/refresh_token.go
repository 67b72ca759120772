package postgresql

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/turnilab/turni-backend-go/internal/domain/auth"
	"github.com/turnilab/turni-backend-go/internal/pkg/database"
)

type refreshTokenRepository struct {
	db *database.DB
}

func NewRefreshTokenRepository(db *database.DB) auth.RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

// hashToken hashes the token with SHA-256 and encodes the digest in
// base64. Only the hash touches the database.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.StdEncoding.EncodeToString(sum[:])
}

func (r *refreshTokenRepository) Create(ctx context.Context, userID string, token string, expiresAt int64) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`
	_, err := q.Exec(ctx, query, userID, hashToken(token), time.Unix(expiresAt, 0).UTC())
	if err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

func (r *refreshTokenRepository) IsRevoked(ctx context.Context, token string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT revoked_at, expires_at
		FROM refresh_tokens
		WHERE token_hash = $1
		ORDER BY expires_at DESC
		LIMIT 1
	`

	var revokedAt *time.Time
	var expiresAt time.Time

	err := q.QueryRow(ctx, query, hashToken(token)).Scan(&revokedAt, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Never issued here: refuse it.
			return true, nil
		}
		return false, fmt.Errorf("failed to look up refresh token: %w", err)
	}

	if revokedAt != nil || !expiresAt.After(time.Now()) {
		return true, nil
	}
	return false, nil
}

func (r *refreshTokenRepository) Revoke(ctx context.Context, token string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE token_hash = $1 AND revoked_at IS NULL
	`
	_, err := q.Exec(ctx, query, hashToken(token))
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}
