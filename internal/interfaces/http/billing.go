package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"finmind/internal/domain/entitlement"
)

type BillingHandler struct {
	entitlements *entitlement.Service
}

func NewBillingHandler(entitlements *entitlement.Service) *BillingHandler {
	return &BillingHandler{entitlements: entitlements}
}

type ConfirmPurchaseRequest struct {
	Plan string `json:"plan"`
}

// HandleConfirm applies a confirmed plan purchase. Payment capture is
// upstream; this endpoint trusts the confirmation and moves the account
// to the paid plan with a fresh quota.
func (h *BillingHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	var req ConfirmPurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	acct, err := h.entitlements.ConfirmPurchase(r.Context(), userID, entitlement.Plan(req.Plan))
	if err != nil {
		switch {
		case errors.Is(err, entitlement.ErrInvalidPlan):
			writeError(w, http.StatusBadRequest, "invalid_plan")
		case errors.Is(err, entitlement.ErrNotFound):
			writeError(w, http.StatusNotFound, "account_not_found")
		default:
			log.Printf("Purchase confirmation failed for user %d: %v", userID, err)
			writeError(w, http.StatusInternalServerError, "internal_error")
		}
		return
	}

	writeJSON(w, http.StatusOK, acct)
}

// HandleEntitlement returns the caller's current entitlement state,
// normalized on read so expired plans never leak out as active.
func (h *BillingHandler) HandleEntitlement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	acct, err := h.entitlements.Normalize(r.Context(), userID)
	if err != nil {
		if errors.Is(err, entitlement.ErrNotFound) {
			writeError(w, http.StatusNotFound, "account_not_found")
			return
		}
		log.Printf("Entitlement lookup failed for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	writeJSON(w, http.StatusOK, acct)
}
