package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"

	alertapp "github.com/gsihag/immigration-ai-saas/internal/alerting/application"
	"github.com/gsihag/immigration-ai-saas/internal/api/handlers"
	apimiddleware "github.com/gsihag/immigration-ai-saas/internal/api/middleware"
	configapp "github.com/gsihag/immigration-ai-saas/internal/config/application"
	healthapp "github.com/gsihag/immigration-ai-saas/internal/health/application"
	metricsapp "github.com/gsihag/immigration-ai-saas/internal/metrics/application"
	sharedlogger "github.com/gsihag/immigration-ai-saas/internal/shared/logger"
)

// Server represents the API server
type Server struct {
	httpServer *http.Server
	logger     sharedlogger.Logger
}

// NewServer creates a new API server
func NewServer(
	logger sharedlogger.Logger,
	runtimeCfg *configapp.RuntimeConfig,
	collector *metricsapp.Collector,
	checker *healthapp.Checker,
	manager *alertapp.Manager,
) (*Server, error) {
	if runtimeCfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required (set IMMIGRATION_API_KEY or use --api-key flag)")
	}

	healthHandler := handlers.NewHealthHandler(checker)
	metricsHandler := handlers.NewMetricsHandler(collector)
	alertsHandler := handlers.NewAlertsHandler(manager)

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// HTTP logging middleware - need concrete slog.Logger for httplog
	var slogLogger *slog.Logger
	if infraLogger, ok := logger.(interface{ SLog() *slog.Logger }); ok {
		slogLogger = infraLogger.SLog()
	} else {
		slogLogger = slog.Default()
	}

	r.Use(httplog.RequestLogger(slogLogger, &httplog.Options{
		Level:             slog.LevelDebug,
		Schema:            httplog.SchemaECS.Concise(true),
		LogRequestHeaders: []string{},
	}))

	// Liveness probe, unauthenticated
	r.Get("/healthz", healthHandler.GetLiveness)

	// API v1 routes (with authentication)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apimiddleware.APIKeyAuthWithKey(runtimeCfg.APIKey))
		// The monitoring surface observes its own traffic
		r.Use(apimiddleware.RequestMetrics(collector))

		r.Get("/health", healthHandler.GetHealth)
		r.Get("/metrics/summary", metricsHandler.GetSummary)
		r.Post("/metrics/requests", metricsHandler.RecordRequest)
		r.Post("/metrics/activity", metricsHandler.RecordActivity)
		r.Post("/metrics/uploads", metricsHandler.RecordUpload)
		r.Post("/metrics/chat", metricsHandler.RecordChat)
		r.Get("/alerts", alertsHandler.ListActive)
		r.Get("/alerts/history", alertsHandler.ListHistory)
		r.Post("/alerts/suppress", alertsHandler.Suppress)
	})

	httpServer := &http.Server{
		Addr:         ":" + runtimeCfg.APIPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Debug("Server configured",
		"port", runtimeCfg.APIPort,
		"middleware", []string{"RequestID", "RealIP", "Recoverer", "httplog", "RequestMetrics"},
	)

	return &Server{
		httpServer: httpServer,
		logger:     logger,
	}, nil
}

// Handler exposes the router for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		s.logger.Error("Server error", "err", err)
	}
	return err
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		s.logger.Error("Server shutdown error", "err", err)
	} else {
		s.logger.Info("Server shutdown complete")
	}
	return err
}
