package asset

import "context"

// Service contains the business logic for asset operations
type Service struct {
	repo Repository
}

// NewService creates a new asset service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create creates a new asset with business validation
func (s *Service) Create(ctx context.Context, params CreateParams) (*Asset, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, params)
}

// Get retrieves an asset, enforcing ownership
func (s *Service) Get(ctx context.Context, ownerID int64, id string) (*Asset, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	if a.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return a, nil
}

// List retrieves all assets owned by the given account
func (s *Service) List(ctx context.Context, ownerID int64) ([]*Asset, error) {
	return s.repo.ListByOwnerID(ctx, ownerID)
}

// Update applies a partial update to an owned asset
func (s *Service) Update(ctx context.Context, ownerID int64, id string, params UpdateParams) (*Asset, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, params)
}

// Delete removes an owned asset
func (s *Service) Delete(ctx context.Context, ownerID int64, id string) error {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
