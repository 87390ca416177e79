package application

import (
	"context"
	"net/http"
	"strings"

	"github.com/gsihag/immigration-ai-saas/internal/shared/validation"
)

var (
	_ validation.Validator = (*RequestObservation)(nil)
	_ validation.Validator = (*ActivityObservation)(nil)
	_ validation.Validator = (*UploadObservation)(nil)
	_ validation.Validator = (*ChatObservation)(nil)
	_ validation.Validator = (*SuppressRequest)(nil)
)

// ErrorResponse represents an API error payload
type ErrorResponse struct {
	Error string `json:"error"`
}

// ProblemsResponse reports field-level validation failures
type ProblemsResponse struct {
	Problems map[string]string `json:"problems"`
}

// StatusResponse acknowledges a state-changing request
type StatusResponse struct {
	Status string `json:"status"`
}

// RequestObservation is one API request reported by the enclosing app
type RequestObservation struct {
	Endpoint       string  `json:"endpoint"`
	Method         string  `json:"method"`
	ResponseTimeMs float64 `json:"response_time_ms"`
	StatusCode     int     `json:"status_code"`
}

func (o *RequestObservation) Valid(ctx context.Context) map[string]string {
	problems := make(map[string]string, 4)
	if o.Endpoint == "" {
		problems["endpoint"] = "'endpoint' is required"
	}
	if o.Method == "" {
		problems["method"] = "'method' is required"
	}
	if o.ResponseTimeMs < 0 {
		problems["response_time_ms"] = "response time cannot be negative"
	}
	if o.StatusCode < 100 || o.StatusCode > 599 {
		problems["status_code"] = "status code must be between 100 and 599"
	}
	return problems
}

// ActivityObservation is one user-activity event
type ActivityObservation struct {
	UserID   string `json:"user_id"`
	Activity string `json:"activity"`
}

func (o *ActivityObservation) Valid(ctx context.Context) map[string]string {
	problems := make(map[string]string, 2)
	if o.UserID == "" {
		problems["user_id"] = "'user_id' is required"
	}
	if o.Activity == "" {
		problems["activity"] = "'activity' is required"
	}
	return problems
}

// UploadObservation is one document-upload event
type UploadObservation struct {
	FileSizeBytes    int64   `json:"file_size_bytes"`
	FileType         string  `json:"file_type"`
	ProcessingTimeMs float64 `json:"processing_time_ms"`
}

func (o *UploadObservation) Valid(ctx context.Context) map[string]string {
	problems := make(map[string]string, 3)
	if o.FileSizeBytes <= 0 {
		problems["file_size_bytes"] = "file size must be positive"
	}
	if o.FileType == "" {
		problems["file_type"] = "'file_type' is required"
	}
	if o.ProcessingTimeMs < 0 {
		problems["processing_time_ms"] = "processing time cannot be negative"
	}
	return problems
}

// ChatObservation is one chat-interaction event. Satisfaction is an
// optional 1-5 score.
type ChatObservation struct {
	ResponseTimeMs float64 `json:"response_time_ms"`
	IsAIResponse   bool    `json:"is_ai_response"`
	Satisfaction   *int    `json:"satisfaction,omitempty"`
}

func (o *ChatObservation) Valid(ctx context.Context) map[string]string {
	problems := make(map[string]string, 2)
	if o.ResponseTimeMs < 0 {
		problems["response_time_ms"] = "response time cannot be negative"
	}
	if o.Satisfaction != nil && (*o.Satisfaction < 1 || *o.Satisfaction > 5) {
		problems["satisfaction"] = "satisfaction must be between 1 and 5"
	}
	return problems
}

// SuppressRequest asks the alert manager to drop alerts for a while
type SuppressRequest struct {
	Type            string `json:"type"`
	Endpoint        string `json:"endpoint,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
}

func (r *SuppressRequest) Valid(ctx context.Context) map[string]string {
	problems := make(map[string]string, 2)
	if r.Type == "" {
		problems["type"] = "'type' is required"
	}
	if r.DurationMinutes < 0 {
		problems["duration_minutes"] = "duration cannot be negative"
	}
	return problems
}

// methodAllowed guards observation methods against junk values
var methodAllowed = map[string]bool{
	http.MethodGet:     true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}

// NormalizeMethod uppercases and validates an observation method,
// returning false for methods outside the allowed set
func NormalizeMethod(method string) (string, bool) {
	upper := strings.ToUpper(method)
	return upper, methodAllowed[upper]
}
