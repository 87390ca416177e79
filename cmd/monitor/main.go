package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/urfave/cli/v2"

	alertapp "github.com/gsihag/immigration-ai-saas/internal/alerting/application"
	alertdomain "github.com/gsihag/immigration-ai-saas/internal/alerting/domain"
	alertinfra "github.com/gsihag/immigration-ai-saas/internal/alerting/infrastructure"
	apiserver "github.com/gsihag/immigration-ai-saas/internal/api"
	configapp "github.com/gsihag/immigration-ai-saas/internal/config/application"
	healthapp "github.com/gsihag/immigration-ai-saas/internal/health/application"
	healthinfra "github.com/gsihag/immigration-ai-saas/internal/health/infrastructure"
	"github.com/gsihag/immigration-ai-saas/internal/infrastructure/logger"
	metricsapp "github.com/gsihag/immigration-ai-saas/internal/metrics/application"
)

func main() {
	app := &cli.App{
		Name:  "monitor",
		Usage: "Immigration AI monitoring service: metrics, health checks, and alerting",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api-key", Usage: "API key for authenticated endpoints"},
			&cli.StringFlag{Name: "port", Usage: "HTTP listen port"},
			&cli.StringFlag{Name: "log-level", Usage: "log level (DEBUG, INFO, WARN, ERROR)"},
			&cli.StringFlag{Name: "log-format", Usage: "log format (text or json)"},
			&cli.StringFlag{Name: "log-output", Usage: "log output (stdout, stderr, or file path)"},
			&cli.StringFlag{Name: "database-url", Usage: "Postgres connection string for the database health check"},
			&cli.StringFlag{Name: "storage-url", Usage: "storage service base URL for the storage health check"},
			&cli.StringFlag{Name: "env-file", Usage: "path to a .env file", Value: ".env"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		logger.DefaultLogger().Error("Application error", "err", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	// Bootstrap logger for config loading; replaced once config is known
	appLogger := logger.NewLogger()

	configapp.LoadEnvFile(appLogger, c.String("env-file"))

	cfg := configapp.LoadRuntimeConfig(configapp.Flags{
		APIKey:      c.String("api-key"),
		APIPort:     c.String("port"),
		LogLevel:    c.String("log-level"),
		LogFormat:   c.String("log-format"),
		LogOutput:   c.String("log-output"),
		DatabaseURL: c.String("database-url"),
		StorageURL:  c.String("storage-url"),
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Rebuild the logger with the resolved log settings
	os.Setenv("IMMIGRATION_LOG_LEVEL", cfg.LogLevel)
	os.Setenv("IMMIGRATION_LOG_FORMAT", cfg.LogFormat)
	os.Setenv("IMMIGRATION_LOG_OUTPUT", cfg.LogOutput)
	appLogger = logger.NewLogger()
	logger.SetDefaultLogger(appLogger)

	appLogger.Info("Starting Immigration AI monitor", "version", "1.0")

	sigCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Health probers
	appLogger.Debug("Initializing health checker")
	dbProber, err := healthinfra.NewPostgresProber(cfg.DatabaseURL)
	if err != nil {
		appLogger.Error("Failed to open database connection", "err", err)
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer dbProber.Close()

	storageProber := healthinfra.NewStorageProber(cfg.StorageURL, cfg.StorageKey)
	systemReader := healthinfra.NewSystemReader()

	checkerLogger := logger.NewLogger()
	checker := healthapp.NewChecker(checkerLogger, dbProber, storageProber, systemReader)
	appLogger.Debug("Health checker initialized")

	// Metrics collector
	appLogger.Debug("Initializing metrics collector")
	collectorLogger := logger.NewLogger()
	collector := metricsapp.NewCollector(collectorLogger)
	appLogger.Debug("Metrics collector initialized")

	// Alert notifiers
	var notifiers []alertdomain.Notifier
	if cfg.EmailAlertsEnabled {
		notifiers = append(notifiers, alertinfra.NewEmailNotifier(cfg.SMTP))
		appLogger.Info("Email alerts enabled", "recipients", len(cfg.SMTP.ToEmails))
	}
	if cfg.SlackWebhookURL != "" {
		notifiers = append(notifiers, alertinfra.NewSlackNotifier(cfg.SlackWebhookURL))
		appLogger.Info("Slack alerts enabled")
	}
	if len(notifiers) == 0 {
		appLogger.Warn("No alert channels configured, alerts will only be logged")
	}

	// Alert manager and background monitor
	appLogger.Debug("Initializing alert manager")
	managerLogger := logger.NewLogger()
	manager := alertapp.NewManager(managerLogger, collector, checker, notifiers...)

	monitorLogger := logger.NewLogger()
	interval := time.Duration(cfg.AlertIntervalSeconds) * time.Second
	monitor := alertapp.NewMonitor(monitorLogger, manager, interval)
	appLogger.Debug("Alert manager initialized", "interval", interval)

	// API server
	appLogger.Debug("Initializing API server")
	server, err := apiserver.NewServer(appLogger, cfg, collector, checker, manager)
	if err != nil {
		appLogger.Error("Failed to create API server", "err", err)
		return fmt.Errorf("failed to create API server: %w", err)
	}
	appLogger.Debug("API server initialized")

	// Start the background monitoring loop
	monitorDone := make(chan error, 1)
	go func() {
		monitorDone <- monitor.Run(sigCtx)
	}()

	// Start API server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	appLogger.Info("Monitor started successfully, waiting for shutdown signal")

	// Wait for interrupt or server error
	select {
	case <-sigCtx.Done():
		appLogger.Info("Shutdown signal received, starting graceful shutdown")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		var shutdownErr error
		if err := server.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("API server shutdown error", "err", err)
			shutdownErr = fmt.Errorf("API server shutdown error: %w", err)
		}

		// The monitor loop exits on context cancellation
		select {
		case <-monitorDone:
		case <-shutdownCtx.Done():
			appLogger.Warn("Monitor loop did not stop before shutdown deadline")
		}

		appLogger.Info("Graceful shutdown completed")
		return shutdownErr
	case err := <-serverErrChan:
		appLogger.Error("Server error received", "err", err)
		return err
	}
}
