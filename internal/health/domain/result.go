package domain

import "time"

// Status represents the health state of a component or of the system
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

// Check names used in comprehensive reports
const (
	CheckDatabase = "database"
	CheckStorage  = "storage"
	CheckSystem   = "system"
)

// CheckResult is the outcome of a single sub-check. Produced fresh on
// every invocation and never persisted.
type CheckResult struct {
	Status         Status         `json:"status"`
	Timestamp      time.Time      `json:"timestamp"`
	ResponseTimeMs float64        `json:"response_time_ms,omitempty"`
	Error          string         `json:"error,omitempty"`
	Details        map[string]any `json:"details,omitempty"`
}

// Healthy reports whether the check succeeded
func (r CheckResult) Healthy() bool {
	return r.Status == StatusHealthy
}

// Report folds all sub-checks into one aggregate status
type Report struct {
	OverallStatus Status                 `json:"overall_status"`
	Timestamp     time.Time              `json:"timestamp"`
	Error         string                 `json:"error,omitempty"`
	Checks        map[string]CheckResult `json:"checks,omitempty"`
}
