package liability

import "context"

// Repository defines the interface for liability data access
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Liability, error)
	GetByID(ctx context.Context, id string) (*Liability, error)
	ListByOwnerID(ctx context.Context, ownerID int64) ([]*Liability, error)
	Update(ctx context.Context, id string, params UpdateParams) (*Liability, error)
	Delete(ctx context.Context, id string) error
}
