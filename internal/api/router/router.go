package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pratik-mahalle/alertprobe/internal/api/handlers"
	"github.com/pratik-mahalle/alertprobe/internal/api/middleware"
	"github.com/pratik-mahalle/alertprobe/internal/config"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/errors"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/logger"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/metrics"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/utils"
)

type Handlers struct {
	Health *handlers.HealthHandler
	Auth   *handlers.AuthHandler
	Alert  *handlers.AlertHandler
	Scan   *handlers.ScanHandler
	Policy *handlers.PolicyHandler
	Admin  *handlers.AdminHandler
}

func New(cfg *config.Config, log *logger.Logger, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(metrics.Middleware)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.CORSForEnvironment(cfg.Server.FrontendURL, cfg.Server.Environment))
	r.Use(middleware.RateLimit(float64(cfg.Server.RateLimitRPS), 2*cfg.Server.RateLimitRPS))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteError(w, errors.NotFound("route"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteErrorMessage(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	})

	// Public routes
	r.Group(func(r chi.Router) {
		r.Get("/api/health", h.Health.Health)
		r.Get("/health", h.Health.Health)
		r.Post("/api/login", h.Auth.Login)
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(cfg.Auth.JWTSecret))

		// Alerts
		r.Route("/api/alerts", func(r chi.Router) {
			r.Get("/", h.Alert.List)
			r.Post("/", h.Alert.Create)
			r.Get("/{id}", h.Alert.Get)
			r.Patch("/{id}", h.Alert.UpdateStatus)
			r.Post("/{id}/remediate", h.Alert.Remediate)
			r.Post("/{id}/comments", h.Alert.AddComment)
		})

		// Scans
		r.Route("/api/scans", func(r chi.Router) {
			r.Get("/", h.Scan.List)
			r.Post("/", h.Scan.Start)
			r.Get("/status", h.Scan.Status)
			r.Get("/{id}", h.Scan.Get)
		})

		// Policies
		r.Get("/api/policies", h.Policy.List)
		r.Get("/api/policies/{id}", h.Policy.Get)
		r.Get("/api/policy-config", h.Policy.Config)

		// Admin
		r.Post("/api/admin/reset", h.Admin.Reset)
	})

	return r
}
