package transaction

import (
	"context"
	"errors"
)

// Service contains the business logic for transaction operations
type Service struct {
	repo Repository
}

// NewService creates a new transaction service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create creates a new transaction after validating the sign invariant
func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	params.Category = NormalizeCategory(params.Category)
	return s.repo.Create(ctx, params)
}

// Get retrieves a transaction, enforcing ownership
func (s *Service) Get(ctx context.Context, ownerID int64, id string) (*Transaction, error) {
	tx, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, ErrNotFound
	}
	if tx.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return tx, nil
}

// List retrieves up to limit transactions owned by the given account
func (s *Service) List(ctx context.Context, ownerID int64, limit int) ([]*Transaction, error) {
	return s.repo.ListByOwnerID(ctx, ownerID, limit)
}

// Update edits an owned transaction. The kind/amount sign invariant is
// re-validated against the merged state, so an edit can never leave a
// positive expense or a negative income behind.
func (s *Service) Update(ctx context.Context, ownerID int64, id string, params UpdateParams) (*Transaction, error) {
	current, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	kind := current.Kind
	if params.Kind != nil {
		kind = *params.Kind
	}
	amount := current.Amount
	if params.Amount != nil {
		amount = *params.Amount
	}
	if err := ValidateKindAmount(kind, amount); err != nil {
		return nil, err
	}
	if params.Title != nil && *params.Title == "" {
		return nil, errors.New("transaction title must not be empty")
	}
	params.Category = NormalizeCategory(params.Category)

	return s.repo.Update(ctx, id, params)
}

// Delete removes an owned transaction
func (s *Service) Delete(ctx context.Context, ownerID int64, id string) error {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
