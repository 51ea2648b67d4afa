package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpmiddleware "github.com/karbadigital/leads-api/internal/http/middleware"
	"github.com/karbadigital/leads-api/internal/leads"
	"github.com/karbadigital/leads-api/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	LeadsHandler   *leads.Handler
	OriginGate     *httpmiddleware.OriginGate
	MetricsHandler http.Handler

	// Per-IP rate limit on the public lead endpoint. Zero disables it.
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Health check stays outside the origin gate so server-to-server
	// probes are never blocked by front-end CORS policy.
	r.Get("/api/health", cfg.LeadsHandler.Health)

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Group(func(gated chi.Router) {
		if cfg.OriginGate != nil {
			gated.Use(cfg.OriginGate.Handler)
		}
		if cfg.RateLimitPerSecond > 0 {
			gated.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
		}
		gated.Post("/api/leads", cfg.LeadsHandler.Create)
		// Registered so browser preflights reach the gate middleware.
		gated.Options("/api/leads", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})

	return r
}
