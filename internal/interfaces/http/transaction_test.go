package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"finmind/internal/domain/transaction"
	"finmind/internal/infrastructure/memory"
)

func newTransactionHandler() *TransactionHandler {
	return NewTransactionHandler(transaction.NewService(memory.NewTransactionRepository()))
}

func TestHandleTransactions_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "income",
			body:       `{"title":"salary","kind":"income","amount":5000,"occurredOn":"2026-08-01"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "expense with negative amount",
			body:       `{"title":"rent","category":"Housing","kind":"expense","amount":-1800,"occurredOn":"2026-08-05"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "expense with positive amount",
			body:       `{"title":"rent","kind":"expense","amount":1800}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "income with negative amount",
			body:       `{"title":"salary","kind":"income","amount":-5000}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown kind",
			body:       `{"title":"stuff","kind":"transfer","amount":10}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing title",
			body:       `{"kind":"income","amount":10}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			// Bad dates are tolerated on create; the record keeps its
			// creation time as the effective date.
			name:       "unparseable date",
			body:       `{"title":"coffee","kind":"expense","amount":-4,"occurredOn":"August 5th"}`,
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTransactionHandler()
			rr, req := authedRequest(http.MethodPost, "/api/transactions", tt.body, 1)
			h.HandleTransactions(rr, req)
			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rr.Code, tt.wantStatus, rr.Body.String())
			}
		})
	}
}

func TestHandleTransactions_ListNewestFirst(t *testing.T) {
	h := newTransactionHandler()

	for _, body := range []string{
		`{"title":"old","kind":"expense","amount":-10,"occurredOn":"2026-06-01"}`,
		`{"title":"new","kind":"expense","amount":-20,"occurredOn":"2026-08-01"}`,
		`{"title":"mid","kind":"expense","amount":-15,"occurredOn":"2026-07-01"}`,
	} {
		rr, req := authedRequest(http.MethodPost, "/api/transactions", body, 1)
		h.HandleTransactions(rr, req)
		if rr.Code != http.StatusCreated {
			t.Fatalf("seed create failed: %d %s", rr.Code, rr.Body.String())
		}
	}

	rr, req := authedRequest(http.MethodGet, "/api/transactions?limit=2", "", 1)
	h.HandleTransactions(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rr.Code)
	}

	var listed []transaction.Transaction
	if err := json.Unmarshal(rr.Body.Bytes(), &listed); err != nil {
		t.Fatalf("invalid list body: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("listed %d transactions, want 2", len(listed))
	}
	if listed[0].Title != "new" || listed[1].Title != "mid" {
		t.Errorf("order = [%s, %s], want [new, mid]", listed[0].Title, listed[1].Title)
	}
}

func TestHandleTransactionByID_Edit(t *testing.T) {
	h := newTransactionHandler()

	rr, req := authedRequest(http.MethodPost, "/api/transactions", `{"title":"groceries","kind":"expense","amount":-120,"occurredOn":"2026-08-10"}`, 1)
	h.HandleTransactions(rr, req)
	var created transaction.Transaction
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("invalid create body: %v", err)
	}

	// Changing only the amount keeps the expense sign invariant in play.
	rr, req = authedRequest(http.MethodPatch, "/api/transactions/"+created.ID, `{"amount":120}`, 1)
	req.SetPathValue("id", created.ID)
	h.HandleTransactionByID(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("sign-flip patch status = %d, want 400", rr.Code)
	}

	rr, req = authedRequest(http.MethodPatch, "/api/transactions/"+created.ID, `{"amount":-135,"category":"Food"}`, 1)
	req.SetPathValue("id", created.ID)
	h.HandleTransactionByID(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("patch status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}
	var updated transaction.Transaction
	if err := json.Unmarshal(rr.Body.Bytes(), &updated); err != nil {
		t.Fatalf("invalid patch body: %v", err)
	}
	if updated.Amount.String() != "-135" {
		t.Errorf("amount = %s, want -135", updated.Amount)
	}
	if updated.Category == nil || *updated.Category != "Food" {
		t.Errorf("category = %v, want Food", updated.Category)
	}

	// Invalid date on edit is rejected, unlike create.
	rr, req = authedRequest(http.MethodPatch, "/api/transactions/"+created.ID, `{"occurredOn":"not-a-date"}`, 1)
	req.SetPathValue("id", created.ID)
	h.HandleTransactionByID(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad-date patch status = %d, want 400", rr.Code)
	}

	// Another user cannot delete it.
	rr, req = authedRequest(http.MethodDelete, "/api/transactions/"+created.ID, "", 2)
	req.SetPathValue("id", created.ID)
	h.HandleTransactionByID(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Errorf("cross-user delete status = %d, want 403", rr.Code)
	}
}
