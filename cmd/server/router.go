package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Lixing-Zhang/storefront-menu/internal/config"
	"github.com/Lixing-Zhang/storefront-menu/internal/handlers"
	"github.com/Lixing-Zhang/storefront-menu/internal/metrics"
	"github.com/Lixing-Zhang/storefront-menu/internal/middleware"
)

// routerDeps is everything the HTTP surface is built from.
type routerDeps struct {
	auth    config.AuthConfig
	logger  *slog.Logger
	metrics *metrics.Metrics
	health  *handlers.HealthHandler
	menu    *handlers.MenuHandler
	orders  *handlers.OrderHandler
	admin   *handlers.AdminHandler
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(d.logger))
	r.Use(middleware.Metrics(d.metrics))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", middleware.APIKeyHeader},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", d.health.ServeHTTP)
	r.Method(http.MethodGet, "/metrics", d.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		// Menu read
		r.Get("/restaurants/{restaurantId}/menu", d.menu.GetMenu)
		r.Get("/dishes/{dishId}", d.menu.GetDish)
		r.Post("/dishes/{dishId}/price", d.menu.PreviewPrice)

		// Order placement
		r.Post("/orders", d.orders.PlaceOrder)

		// Menu builder
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(d.auth, d.logger))

			r.Post("/templates/{templateId}/apply", d.admin.ApplyToDishes)
			r.Post("/templates/{templateId}/apply-category", d.admin.ApplyToCategory)
			r.Delete("/templates/{templateId}", d.admin.DeleteTemplate)
			r.Post("/dishes/{dishId}/break-inheritance", d.admin.BreakInheritance)
		})
	})

	return r
}
