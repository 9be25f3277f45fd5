package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"finmind/internal/domain/transaction"
)

const defaultTransactionLimit = 50

type TransactionHandler struct {
	transactions *transaction.Service
}

func NewTransactionHandler(transactions *transaction.Service) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

type transactionRequest struct {
	Title      *string          `json:"title"`
	Category   *string          `json:"category"`
	Kind       *string          `json:"kind"`
	Amount     *decimal.Decimal `json:"amount"`
	OccurredOn *string          `json:"occurredOn"`
}

// HandleTransactions serves the transaction collection: GET lists, POST
// creates.
func (h *TransactionHandler) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		limit := defaultTransactionLimit
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
				limit = parsed
			}
		}

		transactions, err := h.transactions.List(r.Context(), userID, limit)
		if err != nil {
			log.Printf("Error listing transactions for user %d: %v", userID, err)
			http.Error(w, "Failed to list transactions", http.StatusInternalServerError)
			return
		}
		if transactions == nil {
			transactions = []*transaction.Transaction{}
		}
		writeJSON(w, http.StatusOK, transactions)

	case http.MethodPost:
		var req transactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.Title == nil || *req.Title == "" || req.Kind == nil || req.Amount == nil {
			http.Error(w, "title, kind, and amount are required", http.StatusBadRequest)
			return
		}

		// An unparseable date is not fatal: the record falls back to its
		// creation time for period filtering.
		var occurredOn time.Time
		if req.OccurredOn != nil {
			if parsed, err := time.Parse("2006-01-02", *req.OccurredOn); err == nil {
				occurredOn = parsed
			}
		}

		created, err := h.transactions.Create(r.Context(), transaction.CreateParams{
			OwnerID:    userID,
			Title:      *req.Title,
			Category:   req.Category,
			Kind:       transaction.Kind(*req.Kind),
			Amount:     *req.Amount,
			OccurredOn: occurredOn,
		})
		if err != nil {
			h.writeTransactionError(w, userID, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleTransactionByID serves one transaction: GET, PATCH, DELETE.
func (h *TransactionHandler) HandleTransactionByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Transaction ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		tx, err := h.transactions.Get(r.Context(), userID, id)
		if err != nil {
			h.writeTransactionError(w, userID, err)
			return
		}
		writeJSON(w, http.StatusOK, tx)

	case http.MethodPatch:
		var req transactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		params := transaction.UpdateParams{
			Title:    req.Title,
			Category: req.Category,
			Amount:   req.Amount,
		}
		if req.Kind != nil {
			kind := transaction.Kind(*req.Kind)
			params.Kind = &kind
		}
		if req.OccurredOn != nil {
			parsed, err := time.Parse("2006-01-02", *req.OccurredOn)
			if err != nil {
				http.Error(w, "Invalid occurredOn format (use YYYY-MM-DD)", http.StatusBadRequest)
				return
			}
			params.OccurredOn = &parsed
		}

		updated, err := h.transactions.Update(r.Context(), userID, id, params)
		if err != nil {
			h.writeTransactionError(w, userID, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		if err := h.transactions.Delete(r.Context(), userID, id); err != nil {
			h.writeTransactionError(w, userID, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *TransactionHandler) writeTransactionError(w http.ResponseWriter, userID int64, err error) {
	switch {
	case errors.Is(err, transaction.ErrNotFound):
		http.Error(w, "Transaction not found", http.StatusNotFound)
	case errors.Is(err, transaction.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, transaction.ErrInvalidKind), errors.Is(err, transaction.ErrSignMismatch):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("Transaction operation failed for user %d: %v", userID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
