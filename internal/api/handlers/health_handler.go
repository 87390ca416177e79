package handlers

import (
	"net/http"

	api "github.com/gsihag/immigration-ai-saas/internal/api/application"
	healthapp "github.com/gsihag/immigration-ai-saas/internal/health/application"
	healthdomain "github.com/gsihag/immigration-ai-saas/internal/health/domain"
)

// HealthHandler exposes the comprehensive health check over HTTP
type HealthHandler struct {
	checker *healthapp.Checker
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(checker *healthapp.Checker) *HealthHandler {
	return &HealthHandler{
		checker: checker,
	}
}

// GetHealth handles GET /api/v1/health. An unhealthy aggregate maps to
// 503, anything else to 200.
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	logger := getLogger(r)

	report := h.checker.Comprehensive(r.Context())

	status := http.StatusOK
	if report.OverallStatus == healthdomain.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}

	logger.Debug("Health check served", "overall_status", report.OverallStatus)
	respondJSON(w, status, report)
}

// GetLiveness handles GET /healthz, a trivial liveness probe
func (h *HealthHandler) GetLiveness(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, api.StatusResponse{Status: "ok"})
}
