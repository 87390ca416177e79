package domain

import (
	"time"

	"github.com/google/uuid"
)

// Severity represents the severity level of an alert
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Alert type tags raised by the monitoring pipeline
const (
	TypeHighErrorRate = "high_error_rate"
	TypeSlowResponse  = "slow_response"
	TypeSystemHealth  = "system_health"
	TypeDatabaseIssue = "database_issue"
	TypeSlowDatabase  = "slow_database"
)

// DefaultEndpoint is the endpoint used for alerts that are not tied to
// a specific API endpoint
const DefaultEndpoint = "system"

// Alert represents a condition that crossed an alerting threshold.
// Timestamp is assigned at dispatch time, not detection time.
type Alert struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Severity  Severity       `json:"severity"`
	Message   string         `json:"message"`
	Endpoint  string         `json:"endpoint,omitempty"`
	Value     float64        `json:"value,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp,omitzero"`
}

// NewAlert creates an alert with a fresh ID and no dispatch timestamp
func NewAlert(alertType string, severity Severity, message string) Alert {
	return Alert{
		ID:       uuid.NewString(),
		Type:     alertType,
		Severity: severity,
		Message:  message,
	}
}

// Key returns the deduplication key for suppression, composed from the
// alert type and endpoint. Alerts without an endpoint share the
// "system" endpoint.
func (a Alert) Key() string {
	endpoint := a.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return a.Type + ":" + endpoint
}
