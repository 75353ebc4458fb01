package handler

import (
	"net/http"

	"github.com/oticahub/lens-engine/internal/calibration"
	"github.com/oticahub/lens-engine/internal/domain"
)

type calibrateRequest struct {
	Prescription   *domain.Prescription       `json:"prescription"`
	Face           *domain.FacialMeasurements `json:"face"`
	Frame          *domain.FrameSpecs         `json:"frame"`
	LensPreference domain.LensType            `json:"lensPreference"`
}

// POST /lens/calibrate
func (h *Handler) CalibrateLens(w http.ResponseWriter, r *http.Request) {
	var req calibrateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Corpo da requisição inválido")
		return
	}
	if req.Prescription == nil || req.Face == nil || req.Frame == nil {
		writeError(w, http.StatusBadRequest, "invalid_request",
			"Receita, medidas faciais e armação são obrigatórias")
		return
	}

	result := h.service.CalibrateLens(r.Context(), calibration.Input{
		Prescription:   *req.Prescription,
		Face:           *req.Face,
		Frame:          *req.Frame,
		LensPreference: req.LensPreference,
	})

	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}
