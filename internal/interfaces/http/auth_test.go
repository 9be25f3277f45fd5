package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"finmind/internal/domain/entitlement"
	"finmind/internal/infrastructure/memory"
	"finmind/internal/shared/auth"
)

func newAuthHandler() *AuthHandler {
	return NewAuthHandler(
		memory.NewUserRepository(),
		entitlement.NewService(memory.NewEntitlementRepository()),
		auth.NewJWT("test-secret"),
	)
}

func postJSON(target, body string) (*httptest.ResponseRecorder, *http.Request) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	return httptest.NewRecorder(), req
}

func TestHandleRegister(t *testing.T) {
	h := newAuthHandler()

	rr, req := postJSON("/api/auth/register", `{"email":"ana@example.com","password":"hunter22","name":"Ana"}`)
	h.HandleRegister(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rr.Code, rr.Body.String())
	}

	var resp AuthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Token == "" {
		t.Error("response has no token")
	}
	if resp.User == nil || resp.User.Email != "ana@example.com" {
		t.Errorf("user = %+v, want ana@example.com", resp.User)
	}
	if resp.Entitlement == nil {
		t.Fatal("registration must provision an entitlement")
	}
	if resp.Entitlement.Plan != entitlement.PlanTrial {
		t.Errorf("plan = %s, new accounts start on trial", resp.Entitlement.Plan)
	}
	if resp.Entitlement.TrialExpiresAt == nil {
		t.Error("trial account has no expiry")
	}

	var cookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == "access_token" {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("access_token cookie not set")
	}
	if !cookie.HttpOnly {
		t.Error("auth cookie must be HttpOnly")
	}
}

func TestHandleRegister_DuplicateEmail(t *testing.T) {
	h := newAuthHandler()

	rr, req := postJSON("/api/auth/register", `{"email":"ana@example.com","password":"hunter22","name":"Ana"}`)
	h.HandleRegister(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("first register: %d", rr.Code)
	}

	rr, req = postJSON("/api/auth/register", `{"email":"ANA@example.com","password":"other","name":"Impostor"}`)
	h.HandleRegister(rr, req)
	if rr.Code != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", rr.Code)
	}
}

func TestHandleRegister_WithPaidPlan(t *testing.T) {
	h := newAuthHandler()

	rr, req := postJSON("/api/auth/register", `{"email":"bo@example.com","password":"pw123456","name":"Bo","plan":"plus"}`)
	h.HandleRegister(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rr.Code, rr.Body.String())
	}
	var resp AuthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Entitlement.Plan != entitlement.PlanPlus {
		t.Errorf("plan = %s, want plus", resp.Entitlement.Plan)
	}
	if resp.Entitlement.AIQuotaRemaining != 10 {
		t.Errorf("quota = %d, want 10", resp.Entitlement.AIQuotaRemaining)
	}
}

func TestHandleRegister_InvalidPlan(t *testing.T) {
	h := newAuthHandler()

	rr, req := postJSON("/api/auth/register", `{"email":"cy@example.com","password":"pw123456","name":"Cy","plan":"platinum"}`)
	h.HandleRegister(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestHandleLogin(t *testing.T) {
	h := newAuthHandler()

	rr, req := postJSON("/api/auth/register", `{"email":"ana@example.com","password":"hunter22","name":"Ana"}`)
	h.HandleRegister(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("register: %d", rr.Code)
	}

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"correct credentials", `{"email":"ana@example.com","password":"hunter22"}`, http.StatusOK},
		{"wrong password", `{"email":"ana@example.com","password":"wrong"}`, http.StatusUnauthorized},
		{"unknown email", `{"email":"ghost@example.com","password":"hunter22"}`, http.StatusUnauthorized},
		{"missing fields", `{"email":"ana@example.com"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, req := postJSON("/api/auth/login", tt.body)
			h.HandleLogin(rr, req)
			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
		})
	}
}

func TestHandleLogout(t *testing.T) {
	h := newAuthHandler()

	rr, req := postJSON("/api/auth/logout", "")
	h.HandleLogout(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rr.Code)
	}
	for _, c := range rr.Result().Cookies() {
		if c.Name == "access_token" && c.MaxAge >= 0 {
			t.Error("logout must expire the access_token cookie")
		}
	}
}
