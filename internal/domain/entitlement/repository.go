package entitlement

import (
	"context"
	"time"
)

// Repository defines the interface for entitlement data access.
// The conditional operations (DowngradeLapsed, ConsumeQuota) must be
// implemented as single atomic read-modify-writes against the backing
// store; the store's native atomicity, not application locking, is what
// keeps concurrent requests from over-spending quota.
type Repository interface {
	// Create creates the entitlement row for a new user
	Create(ctx context.Context, params CreateParams) (*Account, error)

	// GetByUserID retrieves an entitlement; returns (nil, nil) when absent
	GetByUserID(ctx context.Context, userID int64) (*Account, error)

	// ApplyPlan moves the account to a paid plan, clears any trial
	// expiry, and resets the quota to the plan's allotment
	ApplyPlan(ctx context.Context, userID int64, params ApplyPlanParams) (*Account, error)

	// DowngradeLapsed resets the account to the free plan with quota
	// zeroed iff its trial or plan expiry has elapsed as of now.
	// Returns whether a downgrade happened. Idempotent.
	DowngradeLapsed(ctx context.Context, userID int64, now time.Time) (bool, error)

	// ConsumeQuota decrements aiQuotaRemaining by exactly one iff it is
	// currently positive. Returns whether a unit was consumed.
	ConsumeQuota(ctx context.Context, userID int64) (bool, error)
}
