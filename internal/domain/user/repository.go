package user

import "context"

// UserRepository defines data access for the staff roster.
type UserRepository interface {
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context, activeOnly bool) ([]User, error)
	Update(ctx context.Context, u User) error
	SetActive(ctx context.Context, id string, active bool) error
	SetPushToken(ctx context.Context, id string, token *string) error
}
