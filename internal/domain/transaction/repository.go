package transaction

import "context"

// Repository defines the interface for transaction data access
// This interface is defined in the domain layer, but implemented in the infrastructure layer
type Repository interface {
	// Create creates a new transaction
	Create(ctx context.Context, params CreateParams) (*Transaction, error)

	// GetByID retrieves a transaction by its ID; returns (nil, nil) when absent
	GetByID(ctx context.Context, id string) (*Transaction, error)

	// ListByOwnerID retrieves up to limit transactions for an owner,
	// most recent first
	ListByOwnerID(ctx context.Context, ownerID int64, limit int) ([]*Transaction, error)

	// Update applies the non-nil fields of params to a transaction
	Update(ctx context.Context, id string, params UpdateParams) (*Transaction, error)

	// Delete removes a transaction
	Delete(ctx context.Context, id string) error
}
