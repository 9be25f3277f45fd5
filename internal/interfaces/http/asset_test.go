package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"finmind/internal/domain/asset"
	"finmind/internal/infrastructure/memory"
	"finmind/internal/shared/middleware"
)

func newAssetHandler() *AssetHandler {
	return NewAssetHandler(asset.NewService(memory.NewAssetRepository()))
}

func authedRequest(method, target, body string, userID int64) (*httptest.ResponseRecorder, *http.Request) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	return httptest.NewRecorder(), req.WithContext(ctx)
}

func TestHandleAssets_CreateAndList(t *testing.T) {
	h := newAssetHandler()

	rr, req := authedRequest(http.MethodPost, "/api/assets", `{"name":"brokerage","value":1500.50}`, 1)
	h.HandleAssets(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201 (body %s)", rr.Code, rr.Body.String())
	}
	var created asset.Asset
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("invalid create body: %v", err)
	}
	if created.ID == "" {
		t.Error("created asset has no ID")
	}
	if created.Name != "brokerage" {
		t.Errorf("name = %q, want brokerage", created.Name)
	}

	rr, req = authedRequest(http.MethodGet, "/api/assets", "", 1)
	h.HandleAssets(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rr.Code)
	}
	var listed []asset.Asset
	if err := json.Unmarshal(rr.Body.Bytes(), &listed); err != nil {
		t.Fatalf("invalid list body: %v", err)
	}
	if len(listed) != 1 {
		t.Errorf("listed %d assets, want 1", len(listed))
	}
}

func TestHandleAssets_ListEmptyIsArray(t *testing.T) {
	h := newAssetHandler()

	rr, req := authedRequest(http.MethodGet, "/api/assets", "", 1)
	h.HandleAssets(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != "[]" {
		t.Errorf("empty list body = %s, want []", got)
	}
}

func TestHandleAssets_CreateValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"value":100}`},
		{"empty name", `{"name":"","value":100}`},
		{"missing value", `{"name":"car"}`},
		{"negative value", `{"name":"car","value":-5}`},
		{"malformed json", `{"name":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newAssetHandler()
			rr, req := authedRequest(http.MethodPost, "/api/assets", tt.body, 1)
			h.HandleAssets(rr, req)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rr.Code)
			}
		})
	}
}

func TestHandleAssetByID_OwnershipAndLifecycle(t *testing.T) {
	h := newAssetHandler()

	rr, req := authedRequest(http.MethodPost, "/api/assets", `{"name":"house","value":250000}`, 1)
	h.HandleAssets(rr, req)
	var created asset.Asset
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("invalid create body: %v", err)
	}

	// Another user cannot read it.
	rr, req = authedRequest(http.MethodGet, "/api/assets/"+created.ID, "", 2)
	req.SetPathValue("id", created.ID)
	h.HandleAssetByID(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Errorf("cross-user get status = %d, want 403", rr.Code)
	}

	// Owner updates the value.
	rr, req = authedRequest(http.MethodPatch, "/api/assets/"+created.ID, `{"value":260000}`, 1)
	req.SetPathValue("id", created.ID)
	h.HandleAssetByID(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("patch status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}
	var updated asset.Asset
	if err := json.Unmarshal(rr.Body.Bytes(), &updated); err != nil {
		t.Fatalf("invalid patch body: %v", err)
	}
	if updated.Value.String() != "260000" {
		t.Errorf("value = %s, want 260000", updated.Value)
	}
	if updated.Name != "house" {
		t.Errorf("name = %q, partial update must not clear it", updated.Name)
	}

	// Patching name to empty is rejected.
	rr, req = authedRequest(http.MethodPatch, "/api/assets/"+created.ID, `{"name":""}`, 1)
	req.SetPathValue("id", created.ID)
	h.HandleAssetByID(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("empty-name patch status = %d, want 400", rr.Code)
	}

	// Owner deletes, then a second read is a 404.
	rr, req = authedRequest(http.MethodDelete, "/api/assets/"+created.ID, "", 1)
	req.SetPathValue("id", created.ID)
	h.HandleAssetByID(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rr.Code)
	}

	rr, req = authedRequest(http.MethodGet, "/api/assets/"+created.ID, "", 1)
	req.SetPathValue("id", created.ID)
	h.HandleAssetByID(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rr.Code)
	}
}

func TestHandleAssets_Unauthenticated(t *testing.T) {
	h := newAssetHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/assets", nil)
	rr := httptest.NewRecorder()
	h.HandleAssets(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}
