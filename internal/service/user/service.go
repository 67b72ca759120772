package user

import (
	"context"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/turnilab/turni-backend-go/internal/domain/user"
)

type UserServiceImpl struct {
	users user.UserRepository
}

func NewUserService(users user.UserRepository) user.UserService {
	return &UserServiceImpl{users: users}
}

func roleFromContext(ctx context.Context) (string, user.Role, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", "", fmt.Errorf("user_id claim is missing or invalid")
	}
	roleStr, ok := claims["role"].(string)
	if !ok || roleStr == "" {
		return "", "", fmt.Errorf("role claim is missing or invalid")
	}
	return userID, user.Role(roleStr), nil
}

// Create implements user.UserService. Founder only.
func (s *UserServiceImpl) Create(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	_, role, err := roleFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	if role != user.RoleFounder {
		return user.UserResponse{}, user.ErrFounderAccessRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	u := user.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Role:         user.Role(req.Role),
		Active:       true,
	}

	stored, err := s.users.Create(ctx, u)
	if err != nil {
		return user.UserResponse{}, err
	}

	return user.ToResponse(stored), nil
}

// Get implements user.UserService.
func (s *UserServiceImpl) Get(ctx context.Context, id string) (user.UserResponse, error) {
	callerID, role, err := roleFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	if role == user.RoleCollaborator && callerID != id {
		return user.UserResponse{}, user.ErrAdminAccessRequired
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}

	return user.ToResponse(u), nil
}

// List implements user.UserService. Managers use this to pick
// assignees when scheduling.
func (s *UserServiceImpl) List(ctx context.Context, activeOnly bool) ([]user.UserResponse, error) {
	_, role, err := roleFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if role != user.RoleAdmin && role != user.RoleFounder {
		return nil, user.ErrAdminAccessRequired
	}

	users, err := s.users.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}

	responses := make([]user.UserResponse, len(users))
	for i, u := range users {
		responses[i] = user.ToResponse(u)
	}
	return responses, nil
}

// Deactivate implements user.UserService. Founder only.
func (s *UserServiceImpl) Deactivate(ctx context.Context, id string) error {
	callerID, role, err := roleFromContext(ctx)
	if err != nil {
		return err
	}
	if role != user.RoleFounder {
		return user.ErrFounderAccessRequired
	}
	if callerID == id {
		return user.ErrFounderAccessRequired
	}

	return s.users.SetActive(ctx, id, false)
}
