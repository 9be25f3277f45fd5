package memory

import (
	"context"
	"sync"
	"time"

	"finmind/internal/domain/entitlement"
)

type EntitlementRepository struct {
	mu       sync.Mutex
	accounts map[int64]*entitlement.Account
}

func NewEntitlementRepository() *EntitlementRepository {
	return &EntitlementRepository{accounts: make(map[int64]*entitlement.Account)}
}

func (r *EntitlementRepository) Create(ctx context.Context, params entitlement.CreateParams) (*entitlement.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	acct := &entitlement.Account{
		UserID:           params.UserID,
		Plan:             params.Plan,
		TrialStartedAt:   params.TrialStartedAt,
		TrialExpiresAt:   params.TrialExpiresAt,
		PlanExpiresAt:    params.PlanExpiresAt,
		AIQuota:          params.AIQuota,
		AIQuotaRemaining: params.AIQuotaRemaining,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	r.accounts[acct.UserID] = acct

	out := *acct
	return &out, nil
}

func (r *EntitlementRepository) GetByUserID(ctx context.Context, userID int64) (*entitlement.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	acct, exists := r.accounts[userID]
	if !exists {
		return nil, nil
	}
	out := *acct
	return &out, nil
}

func (r *EntitlementRepository) ApplyPlan(ctx context.Context, userID int64, params entitlement.ApplyPlanParams) (*entitlement.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	acct, exists := r.accounts[userID]
	if !exists {
		return nil, nil
	}

	expires := params.PlanExpiresAt
	acct.Plan = params.Plan
	acct.PlanExpiresAt = &expires
	acct.TrialExpiresAt = nil
	acct.AIQuota = params.Quota
	acct.AIQuotaRemaining = params.Quota
	acct.UpdatedAt = time.Now()

	out := *acct
	return &out, nil
}

// DowngradeLapsed applies the lazy downgrade under the write lock so a
// concurrent reader never observes a half-reset account.
func (r *EntitlementRepository) DowngradeLapsed(ctx context.Context, userID int64, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	acct, exists := r.accounts[userID]
	if !exists || !acct.Lapsed(now) {
		return false, nil
	}

	acct.Plan = entitlement.PlanFree
	acct.TrialExpiresAt = nil
	acct.PlanExpiresAt = nil
	acct.AIQuota = 0
	acct.AIQuotaRemaining = 0
	acct.UpdatedAt = time.Now()
	return true, nil
}

// ConsumeQuota is the in-memory analogue of the conditional SQL
// decrement: check and mutate happen under one lock acquisition.
func (r *EntitlementRepository) ConsumeQuota(ctx context.Context, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	acct, exists := r.accounts[userID]
	if !exists || acct.AIQuotaRemaining <= 0 {
		return false, nil
	}

	acct.AIQuotaRemaining--
	acct.UpdatedAt = time.Now()
	return true, nil
}
