package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	api "github.com/gsihag/immigration-ai-saas/internal/api/application"
	"github.com/gsihag/immigration-ai-saas/internal/shared/validation"
)

// getLogger extracts the logger from the request context
// Falls back to slog.Default() if not found
func getLogger(r *http.Request) *slog.Logger {
	if ctxLogger := r.Context().Value("logger"); ctxLogger != nil {
		if l, ok := ctxLogger.(*slog.Logger); ok {
			return l
		}
	}
	return slog.Default()
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondJSONError sends a JSON error response
func respondJSONError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, api.ErrorResponse{Error: message})
}

// respondProblems sends field-level validation failures
func respondProblems(w http.ResponseWriter, r *http.Request, path string, problems map[string]string) {
	getLogger(r).Debug("Validation failed", "err", validation.NewValidationError(problems, path))
	respondJSON(w, http.StatusBadRequest, api.ProblemsResponse{Problems: problems})
}

// decodeJSON decodes a request body into dst, rejecting unknown fields
func decodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}
