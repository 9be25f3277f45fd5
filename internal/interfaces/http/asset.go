package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/shopspring/decimal"

	"finmind/internal/domain/asset"
)

type AssetHandler struct {
	assets *asset.Service
}

func NewAssetHandler(assets *asset.Service) *AssetHandler {
	return &AssetHandler{assets: assets}
}

type assetRequest struct {
	Name  *string          `json:"name"`
	Tag   *string          `json:"tag"`
	Value *decimal.Decimal `json:"value"`
}

// HandleAssets serves the asset collection: GET lists, POST creates.
func (h *AssetHandler) HandleAssets(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		assets, err := h.assets.List(r.Context(), userID)
		if err != nil {
			log.Printf("Error listing assets for user %d: %v", userID, err)
			http.Error(w, "Failed to list assets", http.StatusInternalServerError)
			return
		}
		if assets == nil {
			assets = []*asset.Asset{}
		}
		writeJSON(w, http.StatusOK, assets)

	case http.MethodPost:
		var req assetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.Name == nil || *req.Name == "" || req.Value == nil {
			http.Error(w, "name and value are required", http.StatusBadRequest)
			return
		}

		created, err := h.assets.Create(r.Context(), asset.CreateParams{
			OwnerID: userID,
			Name:    *req.Name,
			Tag:     req.Tag,
			Value:   *req.Value,
		})
		if err != nil {
			h.writeAssetError(w, userID, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleAssetByID serves one asset: GET, PATCH, DELETE.
func (h *AssetHandler) HandleAssetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Asset ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		a, err := h.assets.Get(r.Context(), userID, id)
		if err != nil {
			h.writeAssetError(w, userID, err)
			return
		}
		writeJSON(w, http.StatusOK, a)

	case http.MethodPatch:
		var req assetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.Name != nil && *req.Name == "" {
			http.Error(w, "name must not be empty", http.StatusBadRequest)
			return
		}

		updated, err := h.assets.Update(r.Context(), userID, id, asset.UpdateParams{
			Name:  req.Name,
			Tag:   req.Tag,
			Value: req.Value,
		})
		if err != nil {
			h.writeAssetError(w, userID, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		if err := h.assets.Delete(r.Context(), userID, id); err != nil {
			h.writeAssetError(w, userID, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AssetHandler) writeAssetError(w http.ResponseWriter, userID int64, err error) {
	switch {
	case errors.Is(err, asset.ErrNotFound):
		http.Error(w, "Asset not found", http.StatusNotFound)
	case errors.Is(err, asset.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, asset.ErrNegativeValue):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("Asset operation failed for user %d: %v", userID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
