package user

import (
	"context"
)

// UserService manages venue staff accounts. All operations require the
// founder role except List, which managers use to pick assignees.
type UserService interface {
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	Get(ctx context.Context, id string) (UserResponse, error)
	List(ctx context.Context, activeOnly bool) ([]UserResponse, error)
	Deactivate(ctx context.Context, id string) error
}
