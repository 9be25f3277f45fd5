package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"finmind/internal/domain/entitlement"
)

// EntitlementRepository implements the entitlement.Repository interface
// for PostgreSQL. The conditional operations run as single statements so
// the database, not the application, arbitrates concurrent requests.
type EntitlementRepository struct {
	db *DB
}

// NewEntitlementRepository creates a new PostgreSQL entitlement repository
func NewEntitlementRepository(db *DB) *EntitlementRepository {
	return &EntitlementRepository{db: db}
}

const entitlementColumns = `user_id, plan, trial_started_at, trial_expires_at, plan_expires_at, ai_quota, ai_quota_remaining, created_at, updated_at`

// Create creates the entitlement row for a new user
func (r *EntitlementRepository) Create(ctx context.Context, params entitlement.CreateParams) (*entitlement.Account, error) {
	query := `
		INSERT INTO entitlements (user_id, plan, trial_started_at, trial_expires_at, plan_expires_at, ai_quota, ai_quota_remaining)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + entitlementColumns

	row := r.db.QueryRowContext(
		ctx, query,
		params.UserID, params.Plan,
		nullTimePtr(params.TrialStartedAt), nullTimePtr(params.TrialExpiresAt), nullTimePtr(params.PlanExpiresAt),
		params.AIQuota, params.AIQuotaRemaining,
	)
	acct, err := scanEntitlementRow(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create entitlement: %w", err)
	}
	return acct, nil
}

// GetByUserID retrieves an entitlement; returns (nil, nil) when absent
func (r *EntitlementRepository) GetByUserID(ctx context.Context, userID int64) (*entitlement.Account, error) {
	query := `SELECT ` + entitlementColumns + ` FROM entitlements WHERE user_id = $1`

	acct, err := scanEntitlementRow(r.db.QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		// Intentionally returns (nil, nil) instead of an error
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entitlement: %w", err)
	}
	return acct, nil
}

// ApplyPlan moves the account to a paid plan, clears any trial expiry,
// and resets the quota to the plan's allotment
func (r *EntitlementRepository) ApplyPlan(ctx context.Context, userID int64, params entitlement.ApplyPlanParams) (*entitlement.Account, error) {
	query := `
		UPDATE entitlements
		SET plan = $2,
		    plan_expires_at = $3,
		    trial_expires_at = NULL,
		    ai_quota = $4,
		    ai_quota_remaining = $4,
		    updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1
		RETURNING ` + entitlementColumns

	row := r.db.QueryRowContext(ctx, query, userID, params.Plan, params.PlanExpiresAt, params.Quota)
	acct, err := scanEntitlementRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to apply plan: %w", err)
	}
	return acct, nil
}

// DowngradeLapsed resets the account to the free plan with quota zeroed
// iff its trial or plan expiry has elapsed as of now. One conditional
// statement; running it twice is a no-op.
func (r *EntitlementRepository) DowngradeLapsed(ctx context.Context, userID int64, now time.Time) (bool, error) {
	query := `
		UPDATE entitlements
		SET plan = 'free',
		    trial_expires_at = NULL,
		    plan_expires_at = NULL,
		    ai_quota = 0,
		    ai_quota_remaining = 0,
		    updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1
		  AND (
		    (plan = 'trial' AND (trial_expires_at IS NULL OR trial_expires_at <= $2))
		    OR (plan IN ('plus', 'prime') AND plan_expires_at IS NOT NULL AND plan_expires_at <= $2)
		  )
	`

	result, err := r.db.ExecContext(ctx, query, userID, now)
	if err != nil {
		return false, fmt.Errorf("failed to downgrade entitlement: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows > 0, nil
}

// ConsumeQuota decrements ai_quota_remaining by exactly one iff it is
// currently positive. The WHERE clause is the whole concurrency story:
// two racing requests over the last unit resolve to one winner.
func (r *EntitlementRepository) ConsumeQuota(ctx context.Context, userID int64) (bool, error) {
	query := `
		UPDATE entitlements
		SET ai_quota_remaining = ai_quota_remaining - 1,
		    updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1 AND ai_quota_remaining > 0
	`

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return false, fmt.Errorf("failed to consume quota: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows > 0, nil
}

func scanEntitlementRow(row *tracedRow) (*entitlement.Account, error) {
	var acct entitlement.Account
	var trialStarted, trialExpires, planExpires sql.NullTime

	err := row.Scan(
		&acct.UserID, &acct.Plan, &trialStarted, &trialExpires, &planExpires,
		&acct.AIQuota, &acct.AIQuotaRemaining, &acct.CreatedAt, &acct.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if trialStarted.Valid {
		acct.TrialStartedAt = &trialStarted.Time
	}
	if trialExpires.Valid {
		acct.TrialExpiresAt = &trialExpires.Time
	}
	if planExpires.Valid {
		acct.PlanExpiresAt = &planExpires.Time
	}
	return &acct, nil
}

func nullTimePtr(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
