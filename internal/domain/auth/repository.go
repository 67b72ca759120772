package auth

import "context"

// RefreshTokenRepository persists issued refresh tokens so revocation
// survives process restarts and applies across instances. Implementations
// store a hash of the token, never the token itself.
type RefreshTokenRepository interface {
	Create(ctx context.Context, userID string, token string, expiresAt int64) error

	// IsRevoked reports whether the token may no longer be redeemed.
	// A token with no stored row was never issued here and counts as
	// revoked.
	IsRevoked(ctx context.Context, token string) (bool, error)

	Revoke(ctx context.Context, token string) error
}
