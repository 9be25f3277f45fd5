package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"finmind/internal/domain/asset"
)

type AssetRepository struct {
	mu     sync.RWMutex
	assets map[string]*asset.Asset
}

func NewAssetRepository() *AssetRepository {
	return &AssetRepository{assets: make(map[string]*asset.Asset)}
}

func (r *AssetRepository) Create(ctx context.Context, params asset.CreateParams) (*asset.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	a := &asset.Asset{
		ID:        uuid.NewString(),
		OwnerID:   params.OwnerID,
		Name:      params.Name,
		Tag:       params.Tag,
		Value:     params.Value,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.assets[a.ID] = a

	out := *a
	return &out, nil
}

func (r *AssetRepository) GetByID(ctx context.Context, id string) (*asset.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, exists := r.assets[id]
	if !exists {
		return nil, nil
	}
	out := *a
	return &out, nil
}

func (r *AssetRepository) ListByOwnerID(ctx context.Context, ownerID int64) ([]*asset.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*asset.Asset
	for _, a := range r.assets {
		if a.OwnerID == ownerID {
			out := *a
			result = append(result, &out)
		}
	}
	return result, nil
}

func (r *AssetRepository) Update(ctx context.Context, id string, params asset.UpdateParams) (*asset.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, exists := r.assets[id]
	if !exists {
		return nil, asset.ErrNotFound
	}

	if params.Name != nil {
		a.Name = *params.Name
	}
	if params.Tag != nil {
		a.Tag = params.Tag
	}
	if params.Value != nil {
		a.Value = *params.Value
	}
	a.UpdatedAt = time.Now()

	out := *a
	return &out, nil
}

func (r *AssetRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.assets[id]; !exists {
		return asset.ErrNotFound
	}
	delete(r.assets, id)
	return nil
}
