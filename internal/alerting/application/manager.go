package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gsihag/immigration-ai-saas/internal/alerting/domain"
	healthdomain "github.com/gsihag/immigration-ai-saas/internal/health/domain"
	sharedlogger "github.com/gsihag/immigration-ai-saas/internal/shared/logger"
)

const (
	// historyLimit bounds the in-memory alert history; the oldest
	// entries are dropped first
	historyLimit = 1000

	// spamWindow/spamLimit rate-limit alerts of the same type: at most
	// spamLimit dispatches per type within the trailing spamWindow,
	// regardless of endpoint
	spamWindow = 30 * time.Minute
	spamLimit  = 3

	slowDatabaseThresholdMs = 1000.0

	// DefaultSuppression is how long a suppression lasts when no
	// duration is given
	DefaultSuppression = time.Hour
)

// MetricsSource produces threshold-based alerts from collected metrics
type MetricsSource interface {
	Alerts() []domain.Alert
}

// HealthSource produces the aggregate health report
type HealthSource interface {
	Comprehensive(ctx context.Context) healthdomain.Report
}

// Manager merges metric-derived and health-derived alert sources,
// suppresses noisy alerts, and dispatches the survivors to the
// configured notification channels. The suppression set and alert
// history are process-wide state with no persistence across restarts.
type Manager struct {
	logger    sharedlogger.Logger
	metrics   MetricsSource
	health    HealthSource
	notifiers []domain.Notifier

	mu           sync.Mutex
	history      []domain.Alert
	suppressions map[string]time.Time

	now func() time.Time
}

// NewManager creates an alert manager over the given sources and
// notification channels
func NewManager(logger sharedlogger.Logger, metrics MetricsSource, health HealthSource, notifiers ...domain.Notifier) *Manager {
	return &Manager{
		logger:       logger,
		metrics:      metrics,
		health:       health,
		notifiers:    notifiers,
		suppressions: make(map[string]time.Time),
		now:          time.Now,
	}
}

// CheckAlerts evaluates all alert conditions and returns the alerts
// that survive the suppression policy
func (m *Manager) CheckAlerts(ctx context.Context) []domain.Alert {
	alerts := m.metrics.Alerts()

	report := m.health.Comprehensive(ctx)
	if report.OverallStatus != healthdomain.StatusHealthy {
		severity := domain.SeverityWarning
		if report.OverallStatus == healthdomain.StatusUnhealthy {
			severity = domain.SeverityCritical
		}
		alert := domain.NewAlert(
			domain.TypeSystemHealth,
			severity,
			fmt.Sprintf("System health is %s", report.OverallStatus),
		)
		alert.Details = map[string]any{
			"overall_status": string(report.OverallStatus),
		}
		if report.Error != "" {
			alert.Details["error"] = report.Error
		}
		alerts = append(alerts, alert)
	}

	if dbCheck, ok := report.Checks[healthdomain.CheckDatabase]; ok {
		if !dbCheck.Healthy() {
			alert := domain.NewAlert(
				domain.TypeDatabaseIssue,
				domain.SeverityCritical,
				"Database health check failed",
			)
			alert.Details = map[string]any{
				"status": string(dbCheck.Status),
				"error":  dbCheck.Error,
			}
			alerts = append(alerts, alert)
		}

		// Not mutually exclusive with the issue alert above
		if dbCheck.ResponseTimeMs > slowDatabaseThresholdMs {
			alert := domain.NewAlert(
				domain.TypeSlowDatabase,
				domain.SeverityWarning,
				fmt.Sprintf("Database response time is slow: %vms", dbCheck.ResponseTimeMs),
			)
			alert.Value = dbCheck.ResponseTimeMs
			alerts = append(alerts, alert)
		}
	}

	active := alerts[:0]
	for _, alert := range alerts {
		if m.shouldSend(alert) {
			active = append(active, alert)
		}
	}
	return active
}

// shouldSend reports whether an alert survives the suppression and
// rate-limit policy
func (m *Manager) shouldSend(alert domain.Alert) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.purgeExpiredLocked(now)

	if _, suppressed := m.suppressions[alert.Key()]; suppressed {
		return false
	}

	cutoff := now.Add(-spamWindow)
	recent := 0
	for _, sent := range m.history {
		if sent.Type == alert.Type && sent.Timestamp.After(cutoff) {
			recent++
		}
	}
	return recent < spamLimit
}

// purgeExpiredLocked drops suppressions whose deadline has passed.
// Callers must hold m.mu.
func (m *Manager) purgeExpiredLocked(now time.Time) {
	for key, deadline := range m.suppressions {
		if !deadline.After(now) {
			delete(m.suppressions, key)
		}
	}
}

// Send stamps the alert with the dispatch time, records it in history,
// and delivers it to every configured channel. Delivery is best-effort:
// a failed channel is logged and does not block the others.
func (m *Manager) Send(ctx context.Context, alert domain.Alert) {
	m.mu.Lock()
	alert.Timestamp = m.now()
	m.history = append(m.history, alert)
	if len(m.history) > historyLimit {
		m.history = m.history[len(m.history)-historyLimit:]
	}
	m.mu.Unlock()

	for _, notifier := range m.notifiers {
		if err := notifier.Send(ctx, alert); err != nil {
			m.logger.Error("Failed to send alert notification",
				"channel", notifier.Name(), "alert_type", alert.Type, "err", err)
		}
	}

	m.logger.Warn("ALERT", "type", alert.Type, "severity", alert.Severity, "message", alert.Message)
}

// Suppress drops alerts matching type:endpoint until the duration
// elapses. Suppressing the same key again extends the deadline to the
// later of the two.
func (m *Manager) Suppress(alertType, endpoint string, duration time.Duration) {
	if endpoint == "" {
		endpoint = domain.DefaultEndpoint
	}
	if duration <= 0 {
		duration = DefaultSuppression
	}
	key := alertType + ":" + endpoint
	deadline := m.now().Add(duration)

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.suppressions[key]; !ok || deadline.After(existing) {
		m.suppressions[key] = deadline
	}
	m.logger.Info("Alert suppressed", "key", key, "until", m.suppressions[key])
}

// History returns a copy of the dispatched-alert history, oldest first
func (m *Manager) History() []domain.Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	history := make([]domain.Alert, len(m.history))
	copy(history, m.history)
	return history
}
