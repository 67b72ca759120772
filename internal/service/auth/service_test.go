package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/turnilab/turni-backend-go/internal/domain/auth"
	"github.com/turnilab/turni-backend-go/internal/domain/user"
	"github.com/turnilab/turni-backend-go/internal/pkg/jwt"
)

type memUserRepo struct {
	users map[string]user.User
}

func (r *memUserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	r.users[u.ID] = u
	return u, nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *memUserRepo) List(ctx context.Context, activeOnly bool) ([]user.User, error) {
	var out []user.User
	for _, u := range r.users {
		if activeOnly && !u.Active {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (r *memUserRepo) Update(ctx context.Context, u user.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) SetActive(ctx context.Context, id string, active bool) error {
	u, ok := r.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Active = active
	r.users[id] = u
	return nil
}

func (r *memUserRepo) SetPushToken(ctx context.Context, id string, token *string) error {
	u, ok := r.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.PushToken = token
	r.users[id] = u
	return nil
}

type tokenRow struct {
	userID    string
	expiresAt int64
	revokedAt *time.Time
}

type memRefreshTokenRepo struct {
	tokens map[string]*tokenRow
}

func newMemRefreshTokenRepo() *memRefreshTokenRepo {
	return &memRefreshTokenRepo{tokens: make(map[string]*tokenRow)}
}

func (r *memRefreshTokenRepo) Create(ctx context.Context, userID string, token string, expiresAt int64) error {
	r.tokens[token] = &tokenRow{userID: userID, expiresAt: expiresAt}
	return nil
}

func (r *memRefreshTokenRepo) IsRevoked(ctx context.Context, token string) (bool, error) {
	row, ok := r.tokens[token]
	if !ok {
		return true, nil
	}
	if row.revokedAt != nil {
		return true, nil
	}
	return time.Now().Unix() >= row.expiresAt, nil
}

func (r *memRefreshTokenRepo) Revoke(ctx context.Context, token string) error {
	if row, ok := r.tokens[token]; ok && row.revokedAt == nil {
		now := time.Now()
		row.revokedAt = &now
	}
	return nil
}

const testSecret = "test-secret-key-for-auth-service"

func newAuthFixture(t *testing.T, store *memRefreshTokenRepo) auth.AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	users := &memUserRepo{users: map[string]user.User{
		"u1": {
			ID:           "u1",
			Email:        "marco@example.com",
			Name:         "Marco",
			Role:         user.RoleCollaborator,
			PasswordHash: string(hash),
			Active:       true,
		},
	}}
	jwtSvc := jwt.NewJWTService(testSecret, "1h", "168h")
	return NewAuthService(users, jwtSvc, store)
}

func TestLoginThenRefresh(t *testing.T) {
	store := newMemRefreshTokenRepo()
	svc := newAuthFixture(t, store)
	ctx := context.Background()

	tokens, err := svc.Login(ctx, auth.LoginRequest{Email: "marco@example.com", Password: "password123"})
	require.NoError(t, err)
	require.NotEmpty(t, tokens.RefreshToken)
	require.Contains(t, store.tokens, tokens.RefreshToken)

	access, err := svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, access.AccessToken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthFixture(t, newMemRefreshTokenRepo())

	_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "marco@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	store := newMemRefreshTokenRepo()
	svc := newAuthFixture(t, store)
	ctx := context.Background()

	tokens, err := svc.Login(ctx, auth.LoginRequest{Email: "marco@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, tokens.RefreshToken))

	_, err = svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

// Revocation lives in the repository, so it must hold across process
// restarts. A second service built over the same store stands in for
// the restarted process.
func TestRevocationSurvivesRestart(t *testing.T) {
	store := newMemRefreshTokenRepo()
	svc := newAuthFixture(t, store)
	ctx := context.Background()

	tokens, err := svc.Login(ctx, auth.LoginRequest{Email: "marco@example.com", Password: "password123"})
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, tokens.RefreshToken))

	restarted := newAuthFixture(t, store)
	_, err = restarted.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestRefreshUnknownTokenRejected(t *testing.T) {
	store := newMemRefreshTokenRepo()
	svc := newAuthFixture(t, store)
	ctx := context.Background()

	// A structurally valid token that was never issued through Login
	// has no stored row and must be refused.
	other := newAuthFixture(t, newMemRefreshTokenRepo())
	tokens, err := other.Login(ctx, auth.LoginRequest{Email: "marco@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}
