package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oticahub/lens-engine/internal/calibration"
	"github.com/oticahub/lens-engine/internal/domain"
)

type catalogCalibrationRequest struct {
	Prescription   *domain.Prescription       `json:"prescription"`
	Face           *domain.FacialMeasurements `json:"face"`
	LensPreference domain.LensType            `json:"lensPreference"`
}

// POST /stores/{storeID}/calibrations
func (h *Handler) CalibrateCatalog(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "storeID")
	if !validStoreID(storeID) {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Identificador de loja inválido")
		return
	}

	var req catalogCalibrationRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Corpo da requisição inválido")
		return
	}
	if req.Prescription == nil || req.Face == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Receita e medidas faciais são obrigatórias")
		return
	}

	result, err := h.service.CalibrateCatalog(r.Context(), storeID, calibration.Input{
		Prescription:   *req.Prescription,
		Face:           *req.Face,
		LensPreference: req.LensPreference,
	})
	if err != nil {
		h.writeServiceError(w, err, storeID)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
