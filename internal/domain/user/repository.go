package user

import "context"

// Repository defines the interface for user data access
type Repository interface {
	Create(ctx context.Context, params CreateUserParams) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	// GetByEmail returns (nil, nil) when no user has the given email
	GetByEmail(ctx context.Context, email string) (*User, error)
}
