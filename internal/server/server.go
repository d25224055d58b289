package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/teetime-service/internal/app/search"
	"github.com/preston-bernstein/teetime-service/internal/catalog"
	"github.com/preston-bernstein/teetime-service/internal/config"
	httpserver "github.com/preston-bernstein/teetime-service/internal/http"
	"github.com/preston-bernstein/teetime-service/internal/http/handlers"
	"github.com/preston-bernstein/teetime-service/internal/logging"
	"github.com/preston-bernstein/teetime-service/internal/metrics"
	"github.com/preston-bernstein/teetime-service/internal/poller"
	"github.com/preston-bernstein/teetime-service/internal/providers"
	"github.com/preston-bernstein/teetime-service/internal/store"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	catalog       *catalog.Catalog
	search        *search.Service
	httpServer    httpServer
	metricsServer httpServer
	// poller is nil when the cache warmer is disabled.
	poller      Poller
	metricsStop func(context.Context) error
	cacheCloser io.Closer
}

// New loads the course catalog and wires providers, cache, search, warmer and router.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	cat, err := catalog.Load(cfg.CoursesFile)
	if err != nil {
		return nil, fmt.Errorf("load course catalog: %w", err)
	}
	logging.Info(logger, "course catalog loaded", logging.FieldCount, len(cat.Courses()))
	return newServerWithMetrics(cfg, logger, cat, nil, nil), nil
}

func newServerWithProvider(cfg config.Config, logger *slog.Logger, cat *catalog.Catalog, provider providers.SlotProvider) *Server {
	return newServerWithMetrics(cfg, logger, cat, provider, nil)
}

func newServerWithMetrics(cfg config.Config, logger *slog.Logger, cat *catalog.Catalog, provider providers.SlotProvider, recorder *metrics.Recorder) *Server {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	if provider == nil {
		provider = newProviderFactory(logger, recorder).build(cfg, cat.FeeGroups())
	}
	caches := buildCache(cfg.Cache, logger)
	svc := search.NewService(provider, caches.cache, search.Config{
		TTL:         cfg.Cache.TTL,
		Timeout:     cfg.Upstream.Timeout,
		Concurrency: cfg.Search.Concurrency,
	}, logger, recorder)

	var plr Poller
	if cfg.Warmer.Enabled {
		plr = poller.New(svc, cat, caches.pruner, logger, recorder, poller.Options{
			Interval:  cfg.Warmer.Interval,
			DaysAhead: cfg.Warmer.DaysAhead,
			TTL:       cfg.Cache.TTL,
		})
	}
	httpSrv := buildHTTPServer(cfg, cat, svc, caches.pruner, logger, recorder, plr)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		catalog:       cat,
		search:        svc,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		poller:        plr,
		metricsStop:   metricsShutdown,
		cacheCloser:   caches.closer,
	}
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, httpSrv httpServer, plr Poller) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpSrv,
		poller:     plr,
	}
}

func buildHTTPServer(cfg config.Config, cat *catalog.Catalog, svc *search.Service, pruner store.Pruner, logger *slog.Logger, recorder *metrics.Recorder, plr Poller) httpServer {
	var statusFn func() poller.Status
	if plr != nil {
		statusFn = plr.Status
	}

	handler := handlers.NewHandler(svc, cat, logger, statusFn)
	var admin *handlers.AdminHandler
	if cfg.HTTP.AdminToken != "" {
		admin = handlers.NewAdminHandler(pruner, cfg.HTTP.AdminToken, logger)
	}
	router := httpserver.NewRouter(httpserver.RouterConfig{
		Handler:        handler,
		Admin:          admin,
		Logger:         logger,
		Metrics:        recorder,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the warmer and HTTP server, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	if s.poller != nil {
		s.poller.Start(ctx)
	}

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	logging.Info(s.logger, "http server starting", slog.String("addr", s.httpServer.Addr()))
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	logging.Info(s.logger, "metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "error", err)
		}
	}

	if s.poller != nil {
		if err := s.poller.Stop(shutdownCtx); err != nil {
			logging.Error(s.logger, "failed to stop cache warmer", err)
		}
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	// The cache closes last so in-flight searches can still write back.
	if s.cacheCloser != nil {
		if err := s.cacheCloser.Close(); err != nil {
			logging.Warn(s.logger, "slot cache close failed", "error", err)
		}
	}

	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "err", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:              ":" + recCfg.Port,
				Handler:           handler,
				ReadHeaderTimeout: readTimeout,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Warn(logger, name+" server failed", "error", err)
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
