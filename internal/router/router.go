package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oticahub/lens-engine/internal/handler"
)

func Setup(h *handler.Handler, limiter Limiter, timeout time.Duration) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.Get("/health", healthCheck)

	// Routes
	r.Group(func(r chi.Router) {
		r.Use(rateLimit(limiter))

		r.Post("/lens/calibrate", h.CalibrateLens)
		r.Route("/stores/{storeID}", func(r chi.Router) {
			r.Post("/recommendations", h.GetRecommendations)
			r.Delete("/recommendations/cache", h.InvalidateRecommendations)
			r.Post("/calibrations", h.CalibrateCatalog)
		})
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
