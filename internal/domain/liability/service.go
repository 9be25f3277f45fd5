package liability

import "context"

// Service contains the business logic for liability operations
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Liability, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, params)
}

func (s *Service) Get(ctx context.Context, ownerID int64, id string) (*Liability, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrNotFound
	}
	if l.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return l, nil
}

func (s *Service) List(ctx context.Context, ownerID int64) ([]*Liability, error) {
	return s.repo.ListByOwnerID(ctx, ownerID)
}

func (s *Service) Update(ctx context.Context, ownerID int64, id string, params UpdateParams) (*Liability, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, params)
}

func (s *Service) Delete(ctx context.Context, ownerID int64, id string) error {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
