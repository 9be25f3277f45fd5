package entitlement

import (
	"context"
	"time"
)

// Service contains the business logic for entitlement state transitions
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new entitlement service
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// SignUp creates the entitlement row for a new user. Accounts default to
// a 7-day trial; an explicitly requested paid plan is applied immediately
// with its quota and no trial window.
func (s *Service) SignUp(ctx context.Context, userID int64, requested Plan) (*Account, error) {
	now := s.now()

	switch requested {
	case PlanPlus, PlanPrime:
		quota := PlanQuotas[requested]
		expires := now.AddDate(0, 1, 0)
		return s.repo.Create(ctx, CreateParams{
			UserID:           userID,
			Plan:             requested,
			PlanExpiresAt:    &expires,
			AIQuota:          quota,
			AIQuotaRemaining: quota,
		})
	case "", PlanFree, PlanTrial:
		trialEnd := now.Add(TrialPeriod)
		return s.repo.Create(ctx, CreateParams{
			UserID:         userID,
			Plan:           PlanTrial,
			TrialStartedAt: &now,
			TrialExpiresAt: &trialEnd,
		})
	default:
		return nil, ErrInvalidPlan
	}
}

// ConfirmPurchase applies a confirmed plan purchase: the account moves
// directly to the paid plan for one month and the quota resets to the
// plan's allotment. Payment capture happens upstream.
func (s *Service) ConfirmPurchase(ctx context.Context, userID int64, plan Plan) (*Account, error) {
	if !plan.Paid() {
		return nil, ErrInvalidPlan
	}

	acct, err := s.repo.ApplyPlan(ctx, userID, ApplyPlanParams{
		Plan:          plan,
		PlanExpiresAt: s.now().AddDate(0, 1, 0),
		Quota:         PlanQuotas[plan],
	})
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, ErrNotFound
	}
	return acct, nil
}

// Normalize recomputes the effective entitlement on access. Expired
// trials and lapsed paid plans are downgraded to free with quota zeroed
// before the row is returned, so callers always observe current state
// even though no background job ever expires accounts. Idempotent.
func (s *Service) Normalize(ctx context.Context, userID int64) (*Account, error) {
	if _, err := s.repo.DowngradeLapsed(ctx, userID, s.now()); err != nil {
		return nil, err
	}

	acct, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, ErrNotFound
	}
	return acct, nil
}

// Authorize is the quota gate's read side: it rejects accounts that are
// not premium, and plus accounts whose quota is spent. It never mutates.
func (s *Service) Authorize(acct *Account) error {
	if !acct.Premium(s.now()) {
		return ErrPlanRequired
	}
	if acct.Plan == PlanPlus && acct.AIQuotaRemaining <= 0 {
		return ErrQuotaExhausted
	}
	return nil
}

// Consume commits one quota unit for a served request. Only plus is
// metered; trial and prime pass through untouched. A conditional
// decrement that finds no quota left (a concurrent request won the last
// unit) surfaces as ErrQuotaExhausted.
func (s *Service) Consume(ctx context.Context, acct *Account) error {
	if acct.Plan != PlanPlus {
		return nil
	}

	consumed, err := s.repo.ConsumeQuota(ctx, acct.UserID)
	if err != nil {
		return err
	}
	if !consumed {
		return ErrQuotaExhausted
	}
	if acct.AIQuotaRemaining > 0 {
		acct.AIQuotaRemaining--
	}
	return nil
}
