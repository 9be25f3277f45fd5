package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"finmind/internal/domain/entitlement"
	"finmind/internal/infrastructure/memory"
)

type billingFixture struct {
	handler *BillingHandler
	repo    *memory.EntitlementRepository
}

func newBillingFixture() *billingFixture {
	repo := memory.NewEntitlementRepository()
	return &billingFixture{
		handler: NewBillingHandler(entitlement.NewService(repo)),
		repo:    repo,
	}
}

func TestHandleConfirm_UpgradesPlan(t *testing.T) {
	f := newBillingFixture()
	trialEnd := time.Now().Add(-time.Hour)
	if _, err := f.repo.Create(context.Background(), entitlement.CreateParams{
		UserID: 1, Plan: entitlement.PlanTrial, TrialExpiresAt: &trialEnd,
	}); err != nil {
		t.Fatal(err)
	}

	rr, req := authedRequest(http.MethodPost, "/api/billing/confirm", `{"plan":"plus"}`, 1)
	f.handler.HandleConfirm(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}

	var acct entitlement.Account
	if err := json.Unmarshal(rr.Body.Bytes(), &acct); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if acct.Plan != entitlement.PlanPlus {
		t.Errorf("plan = %s, want plus", acct.Plan)
	}
	if acct.AIQuotaRemaining != 10 {
		t.Errorf("quota = %d, want a fresh allotment of 10", acct.AIQuotaRemaining)
	}
	if acct.TrialExpiresAt != nil {
		t.Error("purchase must clear the trial window")
	}
	if acct.PlanExpiresAt == nil || !acct.PlanExpiresAt.After(time.Now()) {
		t.Error("paid plan must carry a future expiry")
	}
}

func TestHandleConfirm_Errors(t *testing.T) {
	tests := []struct {
		name       string
		seed       bool
		body       string
		wantStatus int
		wantCode   string
	}{
		{"invalid plan", true, `{"plan":"free"}`, http.StatusBadRequest, "invalid_plan"},
		{"unknown plan", true, `{"plan":"gold"}`, http.StatusBadRequest, "invalid_plan"},
		{"no account", false, `{"plan":"plus"}`, http.StatusNotFound, "account_not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBillingFixture()
			if tt.seed {
				if _, err := f.repo.Create(context.Background(), entitlement.CreateParams{
					UserID: 1, Plan: entitlement.PlanFree,
				}); err != nil {
					t.Fatal(err)
				}
			}

			rr, req := authedRequest(http.MethodPost, "/api/billing/confirm", tt.body, 1)
			f.handler.HandleConfirm(rr, req)
			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			var body map[string]string
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid error body: %v", err)
			}
			if body["error"] != tt.wantCode {
				t.Errorf("error = %q, want %q", body["error"], tt.wantCode)
			}
		})
	}
}

func TestHandleEntitlement_NormalizesOnRead(t *testing.T) {
	f := newBillingFixture()
	expired := time.Now().Add(-time.Minute)
	if _, err := f.repo.Create(context.Background(), entitlement.CreateParams{
		UserID: 1, Plan: entitlement.PlanPlus, PlanExpiresAt: &expired, AIQuota: 10, AIQuotaRemaining: 7,
	}); err != nil {
		t.Fatal(err)
	}

	rr, req := authedRequest(http.MethodGet, "/api/billing/entitlement", "", 1)
	f.handler.HandleEntitlement(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var acct entitlement.Account
	if err := json.Unmarshal(rr.Body.Bytes(), &acct); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if acct.Plan != entitlement.PlanFree {
		t.Errorf("plan = %s, lapsed paid plans must read as free", acct.Plan)
	}
	if acct.AIQuotaRemaining != 0 {
		t.Errorf("quota = %d, downgrade must zero it", acct.AIQuotaRemaining)
	}
}

func TestHandleEntitlement_NoAccount(t *testing.T) {
	f := newBillingFixture()

	rr, req := authedRequest(http.MethodGet, "/api/billing/entitlement", "", 1)
	f.handler.HandleEntitlement(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}
