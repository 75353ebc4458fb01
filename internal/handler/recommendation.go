package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oticahub/lens-engine/internal/domain"
	"github.com/oticahub/lens-engine/internal/logger"
	"github.com/oticahub/lens-engine/internal/service"
)

type recommendRequest struct {
	Measurements *domain.FacialMeasurements `json:"measurements"`
	Preferences  domain.CustomerPreferences `json:"preferences"`
	Limit        int                        `json:"limit"`
}

// POST /stores/{storeID}/recommendations
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "storeID")
	if !validStoreID(storeID) {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Identificador de loja inválido")
		return
	}

	var req recommendRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Corpo da requisição inválido")
		return
	}
	if req.Measurements == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Medidas faciais são obrigatórias")
		return
	}
	if req.Limit < 0 || req.Limit > 50 {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "O limite deve estar entre 1 e 50")
		return
	}

	result, err := h.service.GetRecommendations(r.Context(), storeID, *req.Measurements, req.Preferences, req.Limit)
	if err != nil {
		h.writeServiceError(w, err, storeID)
		return
	}

	resp := RecommendationResponse{
		StoreID:         storeID,
		Recommendations: result.Recommendations,
		Metadata: domain.RecommendationMeta{
			CacheHit:    result.CacheHit,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			TotalCount:  len(result.Recommendations),
		},
	}

	writeJSON(w, http.StatusOK, resp)
}

// DELETE /stores/{storeID}/recommendations/cache
func (h *Handler) InvalidateRecommendations(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "storeID")
	if !validStoreID(storeID) {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Identificador de loja inválido")
		return
	}

	n, err := h.service.InvalidateStore(r.Context(), storeID)
	if err != nil {
		h.writeServiceError(w, err, storeID)
		return
	}
	writeJSON(w, http.StatusOK, InvalidateResponse{StoreID: storeID, Deleted: n})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, storeID string) {
	code, msg := service.CategorizeError(err)
	switch code {
	case "validation_error":
		writeError(w, http.StatusUnprocessableEntity, code, msg)
	case "store_not_found":
		writeError(w, http.StatusNotFound, code, msg)
	case "request_timeout":
		writeError(w, http.StatusServiceUnavailable, code, msg)
	default:
		logger.WithError(err).WithField("store_id", storeID).Error("[handler] request failed")
		writeError(w, http.StatusInternalServerError, code, msg)
	}
}
