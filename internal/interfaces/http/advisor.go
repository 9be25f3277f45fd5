package http

import (
	"errors"
	"log"
	"net/http"

	"finmind/internal/domain/advisor"
	"finmind/internal/domain/entitlement"
)

type AdvisorHandler struct {
	advisor *advisor.Service
}

func NewAdvisorHandler(svc *advisor.Service) *AdvisorHandler {
	return &AdvisorHandler{advisor: svc}
}

// HandleInsights computes the financial insights report for the
// authenticated user. Entitlement denials map to 402 with a
// machine-readable error code so clients can route the user to the
// paywall or the quota screen.
func (h *AdvisorHandler) HandleInsights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "all"
	}
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = "en"
	}

	insights, err := h.advisor.Insights(r.Context(), userID, period, lang)
	if err != nil {
		switch {
		case errors.Is(err, entitlement.ErrNotFound):
			writeError(w, http.StatusNotFound, "account_not_found")
		case errors.Is(err, entitlement.ErrPlanRequired):
			writeError(w, http.StatusPaymentRequired, "plan_required")
		case errors.Is(err, entitlement.ErrQuotaExhausted):
			writeError(w, http.StatusPaymentRequired, "quota_exhausted")
		default:
			log.Printf("Insights failed for user %d: %v", userID, err)
			writeError(w, http.StatusInternalServerError, "internal_error")
		}
		return
	}

	writeJSON(w, http.StatusOK, insights)
}
