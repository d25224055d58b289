package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/preston-bernstein/teetime-service/internal/http/handlers"
	"github.com/preston-bernstein/teetime-service/internal/http/middleware"
	"github.com/preston-bernstein/teetime-service/internal/metrics"
)

// RouterConfig carries the collaborators the router mounts.
type RouterConfig struct {
	Handler        *handlers.Handler
	Admin          *handlers.AdminHandler
	Logger         *slog.Logger
	Metrics        *metrics.Recorder
	AllowedOrigins []string
}

// NewRouter registers HTTP routes on a chi mux.
func NewRouter(cfg RouterConfig) nethttp.Handler {
	h := cfg.Handler
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(cfg.Logger, cfg.Metrics))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins(cfg.AllowedOrigins),
		AllowedMethods: []string{nethttp.MethodGet, nethttp.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)

	r.Route("/api", func(r chi.Router) {
		r.Get("/courses", h.Courses)
		r.Get("/teetimes", h.TeeTimes)
	})

	if cfg.Admin != nil {
		r.Post("/admin/cache/prune", cfg.Admin.PruneCache)
	}
	return r
}

func allowedOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
