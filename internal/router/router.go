package router

import (
	"net/http"

	"mercadito/internal/handler"
	"mercadito/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	customerHandler *handler.CustomerOrderHandler,
	restockHandler *handler.RestockOrderHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middleware in order: Recovery -> Logging -> CORS -> APIKeyAuth -> Actor
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)
	r.Use(middleware.APIKeyAuth(apiKey, logger))
	r.Use(middleware.ActorContext)

	// Health check endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Post("/", customerHandler.Create)
		r.Get("/{id}", customerHandler.GetByID)
		r.Post("/{id}/status", customerHandler.UpdateStatus)
		r.Post("/{id}/cancel", customerHandler.Cancel)
	})

	r.Route("/api/restocks", func(r chi.Router) {
		r.Post("/", restockHandler.Create)
		r.Get("/{id}", restockHandler.GetByID)
		r.Post("/{id}/status", restockHandler.UpdateStatus)
		r.Post("/{id}/accept", restockHandler.Accept)
		r.Post("/{id}/reject", restockHandler.Reject)
		r.Post("/{id}/cancel", restockHandler.Cancel)
		r.Post("/{id}/confirm-delivery", restockHandler.ConfirmDelivery)
	})

	return r
}
