package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"finmind/internal/domain/transaction"
)

type TransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*transaction.Transaction
}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{transactions: make(map[string]*transaction.Transaction)}
}

func (r *TransactionRepository) Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	t := &transaction.Transaction{
		ID:         uuid.NewString(),
		OwnerID:    params.OwnerID,
		Title:      params.Title,
		Category:   params.Category,
		Kind:       params.Kind,
		Amount:     params.Amount,
		OccurredOn: params.OccurredOn,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.transactions[t.ID] = t

	out := *t
	return &out, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, exists := r.transactions[id]
	if !exists {
		return nil, nil
	}
	out := *t
	return &out, nil
}

func (r *TransactionRepository) ListByOwnerID(ctx context.Context, ownerID int64, limit int) ([]*transaction.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*transaction.Transaction
	for _, t := range r.transactions {
		if t.OwnerID == ownerID {
			out := *t
			result = append(result, &out)
		}
	}

	// Most recent first, matching the SQL ordering
	sort.Slice(result, func(i, j int) bool {
		return result[i].EffectiveDate().After(result[j].EffectiveDate())
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *TransactionRepository) Update(ctx context.Context, id string, params transaction.UpdateParams) (*transaction.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, exists := r.transactions[id]
	if !exists {
		return nil, transaction.ErrNotFound
	}

	if params.Title != nil {
		t.Title = *params.Title
	}
	if params.Category != nil {
		t.Category = params.Category
	}
	if params.Kind != nil {
		t.Kind = *params.Kind
	}
	if params.Amount != nil {
		t.Amount = *params.Amount
	}
	if params.OccurredOn != nil {
		t.OccurredOn = *params.OccurredOn
	}
	t.UpdatedAt = time.Now()

	out := *t
	return &out, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.transactions[id]; !exists {
		return transaction.ErrNotFound
	}
	delete(r.transactions, id)
	return nil
}
