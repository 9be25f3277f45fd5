package asset

import "context"

// Repository defines the interface for asset data access
// This interface is defined in the domain layer, but implemented in the infrastructure layer
type Repository interface {
	// Create creates a new asset
	Create(ctx context.Context, params CreateParams) (*Asset, error)

	// GetByID retrieves an asset by its ID; returns (nil, nil) when absent
	GetByID(ctx context.Context, id string) (*Asset, error)

	// ListByOwnerID retrieves all assets for a specific owner
	ListByOwnerID(ctx context.Context, ownerID int64) ([]*Asset, error)

	// Update applies the non-nil fields of params to an asset
	Update(ctx context.Context, id string, params UpdateParams) (*Asset, error)

	// Delete removes an asset
	Delete(ctx context.Context, id string) error
}
