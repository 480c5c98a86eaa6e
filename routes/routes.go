package routes

import (
	"net/http"
	"time"

	"github.com/cardoctor/server/app"
	"github.com/cardoctor/server/handlers"
	"github.com/cardoctor/server/internal/observability"
	appmw "github.com/cardoctor/server/middleware"
	"github.com/cardoctor/server/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appmw.RequestLogger(deps.Logger, deps.Metrics))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(appmw.SecurityHeaders)

	// CORS middleware. Credentialed requests need explicit origins.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", handlers.HandleRoot)

	// Health check endpoints
	r.Get("/healthz", deps.HealthHandler.HandleHealth)
	r.Get("/readyz", deps.HealthHandler.HandleReadiness)

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", observability.Handler(deps.Registry))
	}

	// Session endpoints
	r.With(deps.LoginLimiter.Middleware).Post("/jwt", deps.AuthHandler.HandleLogin)
	r.Post("/logout", deps.AuthHandler.HandleLogout)

	// Public catalog
	r.Route("/services", func(r chi.Router) {
		r.Get("/", deps.CatalogHandler.HandleList)
		r.Get("/{id}", deps.CatalogHandler.HandleCheckout)
	})

	// Owner-scoped bookings
	r.Route("/bookings", func(r chi.Router) {
		r.Use(deps.AuthMiddleware.RequireAuth)
		r.With(deps.AuthMiddleware.RequireOwner("email")).Get("/", deps.BookingHandler.HandleList)
		r.Post("/", deps.BookingHandler.HandleCreate)
		r.Patch("/{id}", deps.BookingHandler.HandleUpdate)
		r.Delete("/{id}", deps.BookingHandler.HandleDelete)
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "endpoint not found")
	})

	return r
}
