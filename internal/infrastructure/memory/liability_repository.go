package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"finmind/internal/domain/liability"
)

type LiabilityRepository struct {
	mu          sync.RWMutex
	liabilities map[string]*liability.Liability
}

func NewLiabilityRepository() *LiabilityRepository {
	return &LiabilityRepository{liabilities: make(map[string]*liability.Liability)}
}

func (r *LiabilityRepository) Create(ctx context.Context, params liability.CreateParams) (*liability.Liability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	l := &liability.Liability{
		ID:        uuid.NewString(),
		OwnerID:   params.OwnerID,
		Name:      params.Name,
		Tag:       params.Tag,
		Value:     params.Value,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.liabilities[l.ID] = l

	out := *l
	return &out, nil
}

func (r *LiabilityRepository) GetByID(ctx context.Context, id string) (*liability.Liability, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, exists := r.liabilities[id]
	if !exists {
		return nil, nil
	}
	out := *l
	return &out, nil
}

func (r *LiabilityRepository) ListByOwnerID(ctx context.Context, ownerID int64) ([]*liability.Liability, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*liability.Liability
	for _, l := range r.liabilities {
		if l.OwnerID == ownerID {
			out := *l
			result = append(result, &out)
		}
	}
	return result, nil
}

func (r *LiabilityRepository) Update(ctx context.Context, id string, params liability.UpdateParams) (*liability.Liability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, exists := r.liabilities[id]
	if !exists {
		return nil, liability.ErrNotFound
	}

	if params.Name != nil {
		l.Name = *params.Name
	}
	if params.Tag != nil {
		l.Tag = params.Tag
	}
	if params.Value != nil {
		l.Value = *params.Value
	}
	l.UpdatedAt = time.Now()

	out := *l
	return &out, nil
}

func (r *LiabilityRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.liabilities[id]; !exists {
		return liability.ErrNotFound
	}
	delete(r.liabilities, id)
	return nil
}
