package handler

import "github.com/oticahub/lens-engine/internal/domain"

type RecommendationResponse struct {
	StoreID         string                       `json:"storeId"`
	Recommendations []domain.FrameRecommendation `json:"recommendations"`
	Metadata        domain.RecommendationMeta    `json:"metadata"`
}

type InvalidateResponse struct {
	StoreID string `json:"storeId"`
	Deleted int    `json:"deleted"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
