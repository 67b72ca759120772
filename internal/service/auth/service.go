package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/turnilab/turni-backend-go/internal/domain/auth"
	"github.com/turnilab/turni-backend-go/internal/domain/user"
	"github.com/turnilab/turni-backend-go/internal/pkg/jwt"
)

type AuthServiceImpl struct {
	users         user.UserRepository
	jwtService    jwt.Service
	refreshTokens auth.RefreshTokenRepository
}

func NewAuthService(users user.UserRepository, jwtService jwt.Service, refreshTokens auth.RefreshTokenRepository) auth.AuthService {
	return &AuthServiceImpl{
		users:         users,
		jwtService:    jwtService,
		refreshTokens: refreshTokens,
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	u, err := a.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to look up user: %w", err)
	}
	if !u.Active {
		return auth.TokenResponse{}, user.ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	accessToken, accessExp, err := a.jwtService.GenerateAccessToken(u.ID, u.Email, u.Name, u.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, refreshExp, err := a.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	if err := a.refreshTokens.Create(ctx, u.ID, refreshToken, refreshExp); err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken:           accessToken,
		AccessTokenExpiresIn:  accessExp,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresIn: refreshExp,
	}, nil
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}

	revoked, err := a.refreshTokens.IsRevoked(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if revoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	token, err := a.jwtService.JWTAuth().Decode(req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != "refresh" {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	userIDVal, ok := token.Get("user_id")
	if !ok {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	u, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.AccessTokenResponse{}, auth.ErrUserNotFound
		}
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to look up user: %w", err)
	}
	if !u.Active {
		return auth.AccessTokenResponse{}, user.ErrUserInactive
	}

	accessToken, accessExp, err := a.jwtService.GenerateAccessToken(u.ID, u.Email, u.Name, u.Role)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return auth.AccessTokenResponse{
		AccessToken:          accessToken,
		AccessTokenExpiresIn: accessExp,
	}, nil
}

// Logout implements auth.AuthService. The refresh token is revoked for
// the remainder of its lifetime; access tokens simply age out.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return auth.ErrInvalidToken
	}
	if _, err := a.jwtService.JWTAuth().Decode(refreshToken); err != nil {
		return auth.ErrInvalidToken
	}

	if err := a.refreshTokens.Revoke(ctx, refreshToken); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// RegisterPushToken implements auth.AuthService.
func (a *AuthServiceImpl) RegisterPushToken(ctx context.Context, req auth.RegisterPushTokenRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to extract claims from context: %w", err)
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return fmt.Errorf("user_id claim is missing or invalid")
	}

	return a.users.SetPushToken(ctx, userID, &req.PushToken)
}
