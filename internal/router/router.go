package router

import (
	"net/http"

	"promo-service/internal/handler"
	"promo-service/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// New creates the HTTP router with all routes and middleware configured.
func New(
	promoHandler *handler.PromoHandler,
	adminHandler *handler.AdminHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)

	// Health check endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Public validation endpoints
	r.Route("/api/promos", func(r chi.Router) {
		r.Post("/validate", promoHandler.Validate)
		r.Post("/redeem", promoHandler.Redeem)
	})

	// Admin catalog endpoints, guarded by API key
	r.Route("/admin/promos", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(apiKey, logger))

		r.Get("/", adminHandler.List)
		r.Post("/", adminHandler.Create)
		r.Get("/stats", adminHandler.Stats)
		r.Delete("/{code}", adminHandler.Delete)
		r.Patch("/{code}/toggle", adminHandler.Toggle)
	})

	return r
}
