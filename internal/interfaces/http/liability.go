package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/shopspring/decimal"

	"finmind/internal/domain/liability"
)

type LiabilityHandler struct {
	liabilities *liability.Service
}

func NewLiabilityHandler(liabilities *liability.Service) *LiabilityHandler {
	return &LiabilityHandler{liabilities: liabilities}
}

type liabilityRequest struct {
	Name  *string          `json:"name"`
	Tag   *string          `json:"tag"`
	Value *decimal.Decimal `json:"value"`
}

func (h *LiabilityHandler) HandleLiabilities(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		liabilities, err := h.liabilities.List(r.Context(), userID)
		if err != nil {
			log.Printf("Error listing liabilities for user %d: %v", userID, err)
			http.Error(w, "Failed to list liabilities", http.StatusInternalServerError)
			return
		}
		if liabilities == nil {
			liabilities = []*liability.Liability{}
		}
		writeJSON(w, http.StatusOK, liabilities)

	case http.MethodPost:
		var req liabilityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.Name == nil || *req.Name == "" || req.Value == nil {
			http.Error(w, "name and value are required", http.StatusBadRequest)
			return
		}

		created, err := h.liabilities.Create(r.Context(), liability.CreateParams{
			OwnerID: userID,
			Name:    *req.Name,
			Tag:     req.Tag,
			Value:   *req.Value,
		})
		if err != nil {
			h.writeLiabilityError(w, userID, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *LiabilityHandler) HandleLiabilityByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Liability ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		l, err := h.liabilities.Get(r.Context(), userID, id)
		if err != nil {
			h.writeLiabilityError(w, userID, err)
			return
		}
		writeJSON(w, http.StatusOK, l)

	case http.MethodPatch:
		var req liabilityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.Name != nil && *req.Name == "" {
			http.Error(w, "name must not be empty", http.StatusBadRequest)
			return
		}

		updated, err := h.liabilities.Update(r.Context(), userID, id, liability.UpdateParams{
			Name:  req.Name,
			Tag:   req.Tag,
			Value: req.Value,
		})
		if err != nil {
			h.writeLiabilityError(w, userID, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		if err := h.liabilities.Delete(r.Context(), userID, id); err != nil {
			h.writeLiabilityError(w, userID, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *LiabilityHandler) writeLiabilityError(w http.ResponseWriter, userID int64, err error) {
	switch {
	case errors.Is(err, liability.ErrNotFound):
		http.Error(w, "Liability not found", http.StatusNotFound)
	case errors.Is(err, liability.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, liability.ErrNegativeValue):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("Liability operation failed for user %d: %v", userID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
