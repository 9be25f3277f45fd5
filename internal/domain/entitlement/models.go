package entitlement

import (
	"errors"
	"time"
)

// Plan is the subscription tier of an account.
type Plan string

const (
	PlanFree  Plan = "free"
	PlanTrial Plan = "trial"
	PlanPlus  Plan = "plus"
	PlanPrime Plan = "prime"
)

// TrialPeriod is the window granted to new accounts at signup.
const TrialPeriod = 7 * 24 * time.Hour

// PlanQuotas maps paid plans to their per-period AI advice allotment.
// Prime carries a quota figure for display but is never metered.
var PlanQuotas = map[Plan]int{
	PlanPlus:  10,
	PlanPrime: 30,
}

// Domain errors
var (
	ErrNotFound       = errors.New("entitlement not found")
	ErrInvalidPlan    = errors.New("invalid plan")
	ErrPlanRequired   = errors.New("plan required")
	ErrQuotaExhausted = errors.New("quota exhausted")
)

// Paid reports whether p is a purchasable premium plan.
func (p Plan) Paid() bool {
	return p == PlanPlus || p == PlanPrime
}

// Account is the entitlement state of one user. It is never trusted as
// stored: Service.Normalize recomputes the effective plan on every access.
type Account struct {
	UserID           int64      `json:"userId"`
	Plan             Plan       `json:"plan"`
	TrialStartedAt   *time.Time `json:"trialStartedAt,omitempty"`
	TrialExpiresAt   *time.Time `json:"trialExpiresAt,omitempty"`
	PlanExpiresAt    *time.Time `json:"planExpiresAt,omitempty"`
	AIQuota          int        `json:"aiQuota"`
	AIQuotaRemaining int        `json:"aiQuotaRemaining"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// TrialActive reports whether the account is inside a live trial window.
func (a *Account) TrialActive(now time.Time) bool {
	return a.Plan == PlanTrial && a.TrialExpiresAt != nil && a.TrialExpiresAt.After(now)
}

// Premium reports whether the account may access insights at all:
// a paid plan, or a trial whose window has not elapsed.
func (a *Account) Premium(now time.Time) bool {
	return a.Plan.Paid() || a.TrialActive(now)
}

// Lapsed reports whether the stored state is stale and due for the lazy
// downgrade to free: an elapsed (or never set) trial window, or a paid
// plan past its expiry.
func (a *Account) Lapsed(now time.Time) bool {
	if a.Plan == PlanTrial {
		return a.TrialExpiresAt == nil || !a.TrialExpiresAt.After(now)
	}
	if a.Plan.Paid() {
		return a.PlanExpiresAt != nil && !a.PlanExpiresAt.After(now)
	}
	return false
}

// CreateParams contains parameters for creating an entitlement row
type CreateParams struct {
	UserID           int64
	Plan             Plan
	TrialStartedAt   *time.Time
	TrialExpiresAt   *time.Time
	PlanExpiresAt    *time.Time
	AIQuota          int
	AIQuotaRemaining int
}

// ApplyPlanParams contains parameters for a plan purchase confirmation
type ApplyPlanParams struct {
	Plan          Plan
	PlanExpiresAt time.Time
	Quota         int
}
