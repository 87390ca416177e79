package handlers

import (
	"net/http"
	"time"

	alertapp "github.com/gsihag/immigration-ai-saas/internal/alerting/application"
	alertdomain "github.com/gsihag/immigration-ai-saas/internal/alerting/domain"
	api "github.com/gsihag/immigration-ai-saas/internal/api/application"
)

// AlertsHandler exposes alert evaluation, history, and suppression
type AlertsHandler struct {
	manager *alertapp.Manager
}

// NewAlertsHandler creates a new alerts handler
func NewAlertsHandler(manager *alertapp.Manager) *AlertsHandler {
	return &AlertsHandler{
		manager: manager,
	}
}

// ListActive handles GET /api/v1/alerts. It evaluates the current
// alert conditions without dispatching notifications.
func (h *AlertsHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	logger := getLogger(r)

	alerts := h.manager.CheckAlerts(r.Context())
	if alerts == nil {
		alerts = []alertdomain.Alert{}
	}

	logger.Debug("Active alerts served", "count", len(alerts))
	respondJSON(w, http.StatusOK, alerts)
}

// ListHistory handles GET /api/v1/alerts/history
func (h *AlertsHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	history := h.manager.History()
	if history == nil {
		history = []alertdomain.Alert{}
	}
	respondJSON(w, http.StatusOK, history)
}

// Suppress handles POST /api/v1/alerts/suppress
func (h *AlertsHandler) Suppress(w http.ResponseWriter, r *http.Request) {
	logger := getLogger(r)

	var req api.SuppressRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if problems := req.Valid(r.Context()); len(problems) > 0 {
		respondProblems(w, r, "suppress", problems)
		return
	}

	h.manager.Suppress(req.Type, req.Endpoint, time.Duration(req.DurationMinutes)*time.Minute)
	logger.Info("Suppression added", "type", req.Type, "endpoint", req.Endpoint, "duration_minutes", req.DurationMinutes)
	respondJSON(w, http.StatusOK, api.StatusResponse{Status: "suppressed"})
}
