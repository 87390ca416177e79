package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	alertapp "github.com/gsihag/immigration-ai-saas/internal/alerting/application"
	configapp "github.com/gsihag/immigration-ai-saas/internal/config/application"
	healthapp "github.com/gsihag/immigration-ai-saas/internal/health/application"
	healthdomain "github.com/gsihag/immigration-ai-saas/internal/health/domain"
	"github.com/gsihag/immigration-ai-saas/internal/infrastructure/logger"
	metricsapp "github.com/gsihag/immigration-ai-saas/internal/metrics/application"
)

type okDatabaseProber struct{}

func (okDatabaseProber) Probe(ctx context.Context) error { return nil }

type okStorageProber struct{}

func (okStorageProber) ListBuckets(ctx context.Context) (int, error) { return 1, nil }

type okSystemReader struct{}

func (okSystemReader) CPUPercent(ctx context.Context, interval time.Duration) (float64, error) {
	return 5.0, nil
}

func (okSystemReader) VirtualMemory(ctx context.Context) (healthdomain.MemoryStat, error) {
	return healthdomain.MemoryStat{UsedPercent: 30.0, AvailableBytes: 4 << 30}, nil
}

func (okSystemReader) DiskUsage(ctx context.Context, path string) (healthdomain.DiskStat, error) {
	return healthdomain.DiskStat{UsedPercent: 50.0, FreeBytes: 50 << 30}, nil
}

func setupTestServer(t *testing.T, apiKey string) *Server {
	t.Helper()

	appLogger := logger.DefaultLogger()
	collector := metricsapp.NewCollector(appLogger)
	checker := healthapp.NewChecker(appLogger, okDatabaseProber{}, okStorageProber{}, okSystemReader{})
	manager := alertapp.NewManager(appLogger, collector, checker)

	cfg := &configapp.RuntimeConfig{
		APIKey:  apiKey,
		APIPort: "8080",
	}

	server, err := NewServer(appLogger, cfg, collector, checker, manager)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	return server
}

func TestNewServer_MissingAPIKey(t *testing.T) {
	appLogger := logger.DefaultLogger()
	collector := metricsapp.NewCollector(appLogger)
	checker := healthapp.NewChecker(appLogger, okDatabaseProber{}, okStorageProber{}, okSystemReader{})
	manager := alertapp.NewManager(appLogger, collector, checker)

	cfg := &configapp.RuntimeConfig{APIPort: "8080"}
	if _, err := NewServer(appLogger, cfg, collector, checker, manager); err == nil {
		t.Error("expected error for missing API key, got nil")
	}
}

func TestServer_Routes(t *testing.T) {
	server := setupTestServer(t, "test-api-key")

	tests := []struct {
		name           string
		method         string
		path           string
		apiKey         string
		expectedStatus int
	}{
		{
			name:           "liveness probe is unauthenticated",
			method:         http.MethodGet,
			path:           "/healthz",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "health requires API key",
			method:         http.MethodGet,
			path:           "/api/v1/health",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "summary requires API key",
			method:         http.MethodGet,
			path:           "/api/v1/metrics/summary",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "summary with API key",
			method:         http.MethodGet,
			path:           "/api/v1/metrics/summary",
			apiKey:         "test-api-key",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "alerts with API key",
			method:         http.MethodGet,
			path:           "/api/v1/alerts",
			apiKey:         "test-api-key",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "alert history with API key",
			method:         http.MethodGet,
			path:           "/api/v1/alerts/history",
			apiKey:         "test-api-key",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown route",
			method:         http.MethodGet,
			path:           "/api/v1/nope",
			apiKey:         "test-api-key",
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.apiKey != "" {
				req.Header.Set("X-API-Key", tt.apiKey)
			}

			w := httptest.NewRecorder()
			server.Handler().ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d (body: %s)", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestServer_Shutdown(t *testing.T) {
	server := setupTestServer(t, "test-api-key")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// Shutdown before Start is a no-op
	if err := server.Shutdown(ctx); err != nil {
		t.Errorf("expected clean shutdown, got %v", err)
	}
}
