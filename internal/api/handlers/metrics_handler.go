package handlers

import (
	"net/http"
	"strconv"
	"time"

	api "github.com/gsihag/immigration-ai-saas/internal/api/application"
	metricsapp "github.com/gsihag/immigration-ai-saas/internal/metrics/application"
)

const defaultSummaryWindowHours = 24

// MetricsHandler exposes metrics summaries and event ingestion
type MetricsHandler struct {
	collector *metricsapp.Collector
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(collector *metricsapp.Collector) *MetricsHandler {
	return &MetricsHandler{
		collector: collector,
	}
}

// GetSummary handles GET /api/v1/metrics/summary?window_hours=N
func (h *MetricsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	logger := getLogger(r)

	hours := float64(defaultSummaryWindowHours)
	if hoursStr := r.URL.Query().Get("window_hours"); hoursStr != "" {
		parsed, err := strconv.ParseFloat(hoursStr, 64)
		if err != nil || parsed <= 0 {
			respondJSONError(w, http.StatusBadRequest, "window_hours must be a positive number")
			return
		}
		hours = parsed
	}

	summary := h.collector.Summary(time.Duration(hours * float64(time.Hour)))
	logger.Debug("Metrics summary served", "window_hours", hours)
	respondJSON(w, http.StatusOK, summary)
}

// RecordRequest handles POST /api/v1/metrics/requests
func (h *MetricsHandler) RecordRequest(w http.ResponseWriter, r *http.Request) {
	var obs api.RequestObservation
	if err := decodeJSON(r, &obs); err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if problems := obs.Valid(r.Context()); len(problems) > 0 {
		respondProblems(w, r, "request", problems)
		return
	}
	method, ok := api.NormalizeMethod(obs.Method)
	if !ok {
		respondProblems(w, r, "request", map[string]string{"method": "unknown HTTP method: " + obs.Method})
		return
	}

	h.collector.RecordRequest(obs.Endpoint, method, obs.ResponseTimeMs, obs.StatusCode)
	respondJSON(w, http.StatusAccepted, api.StatusResponse{Status: "recorded"})
}

// RecordActivity handles POST /api/v1/metrics/activity
func (h *MetricsHandler) RecordActivity(w http.ResponseWriter, r *http.Request) {
	var obs api.ActivityObservation
	if err := decodeJSON(r, &obs); err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if problems := obs.Valid(r.Context()); len(problems) > 0 {
		respondProblems(w, r, "activity", problems)
		return
	}

	h.collector.RecordUserActivity(obs.UserID, obs.Activity)
	respondJSON(w, http.StatusAccepted, api.StatusResponse{Status: "recorded"})
}

// RecordUpload handles POST /api/v1/metrics/uploads
func (h *MetricsHandler) RecordUpload(w http.ResponseWriter, r *http.Request) {
	var obs api.UploadObservation
	if err := decodeJSON(r, &obs); err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if problems := obs.Valid(r.Context()); len(problems) > 0 {
		respondProblems(w, r, "upload", problems)
		return
	}

	h.collector.RecordDocumentUpload(obs.FileSizeBytes, obs.FileType, obs.ProcessingTimeMs)
	respondJSON(w, http.StatusAccepted, api.StatusResponse{Status: "recorded"})
}

// RecordChat handles POST /api/v1/metrics/chat
func (h *MetricsHandler) RecordChat(w http.ResponseWriter, r *http.Request) {
	var obs api.ChatObservation
	if err := decodeJSON(r, &obs); err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if problems := obs.Valid(r.Context()); len(problems) > 0 {
		respondProblems(w, r, "chat", problems)
		return
	}

	h.collector.RecordChatInteraction(obs.ResponseTimeMs, obs.IsAIResponse, obs.Satisfaction)
	respondJSON(w, http.StatusAccepted, api.StatusResponse{Status: "recorded"})
}
