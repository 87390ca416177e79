package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gsihag/immigration-ai-saas/internal/alerting/domain"
	healthdomain "github.com/gsihag/immigration-ai-saas/internal/health/domain"
	"github.com/gsihag/immigration-ai-saas/internal/infrastructure/logger"
)

type fakeMetricsSource struct {
	alerts []domain.Alert
}

func (s *fakeMetricsSource) Alerts() []domain.Alert {
	return s.alerts
}

type fakeHealthSource struct {
	report healthdomain.Report
}

func (s *fakeHealthSource) Comprehensive(ctx context.Context) healthdomain.Report {
	return s.report
}

type fakeNotifier struct {
	name string
	err  error
	sent []domain.Alert
}

func (n *fakeNotifier) Name() string {
	return n.name
}

func (n *fakeNotifier) Send(ctx context.Context, alert domain.Alert) error {
	n.sent = append(n.sent, alert)
	return n.err
}

func healthyReport() healthdomain.Report {
	return healthdomain.Report{
		OverallStatus: healthdomain.StatusHealthy,
		Timestamp:     time.Now(),
		Checks: map[string]healthdomain.CheckResult{
			healthdomain.CheckDatabase: {Status: healthdomain.StatusHealthy, ResponseTimeMs: 12.5},
			healthdomain.CheckStorage:  {Status: healthdomain.StatusHealthy},
			healthdomain.CheckSystem:   {Status: healthdomain.StatusHealthy},
		},
	}
}

func newTestManager(metrics *fakeMetricsSource, health *fakeHealthSource, notifiers ...domain.Notifier) *Manager {
	return NewManager(logger.DefaultLogger(), metrics, health, notifiers...)
}

func TestManager_CheckAlerts_HealthyNoAlerts(t *testing.T) {
	m := newTestManager(&fakeMetricsSource{}, &fakeHealthSource{report: healthyReport()})

	alerts := m.CheckAlerts(context.Background())
	if len(alerts) != 0 {
		t.Errorf("expected no alerts, got %d", len(alerts))
	}
}

func TestManager_CheckAlerts_DegradedHealth(t *testing.T) {
	report := healthyReport()
	report.OverallStatus = healthdomain.StatusDegraded
	m := newTestManager(&fakeMetricsSource{}, &fakeHealthSource{report: report})

	alerts := m.CheckAlerts(context.Background())
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].Type != domain.TypeSystemHealth {
		t.Errorf("expected system_health, got %s", alerts[0].Type)
	}
	if alerts[0].Severity != domain.SeverityWarning {
		t.Errorf("expected warning for degraded, got %s", alerts[0].Severity)
	}
}

func TestManager_CheckAlerts_UnhealthySystemIsCritical(t *testing.T) {
	report := healthdomain.Report{
		OverallStatus: healthdomain.StatusUnhealthy,
		Timestamp:     time.Now(),
		Error:         "aggregation failed",
	}
	m := newTestManager(&fakeMetricsSource{}, &fakeHealthSource{report: report})

	alerts := m.CheckAlerts(context.Background())
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].Severity != domain.SeverityCritical {
		t.Errorf("expected critical for unhealthy, got %s", alerts[0].Severity)
	}
}

func TestManager_CheckAlerts_DatabaseAlertsNotMutuallyExclusive(t *testing.T) {
	report := healthyReport()
	report.OverallStatus = healthdomain.StatusDegraded
	report.Checks[healthdomain.CheckDatabase] = healthdomain.CheckResult{
		Status:         healthdomain.StatusUnhealthy,
		ResponseTimeMs: 1500,
		Error:          "timeout",
	}
	m := newTestManager(&fakeMetricsSource{}, &fakeHealthSource{report: report})

	alerts := m.CheckAlerts(context.Background())

	types := make(map[string]domain.Severity, len(alerts))
	for _, alert := range alerts {
		types[alert.Type] = alert.Severity
	}
	if sev, ok := types[domain.TypeDatabaseIssue]; !ok || sev != domain.SeverityCritical {
		t.Errorf("expected critical database_issue, got %v", types)
	}
	if sev, ok := types[domain.TypeSlowDatabase]; !ok || sev != domain.SeverityWarning {
		t.Errorf("expected warning slow_database, got %v", types)
	}
	if _, ok := types[domain.TypeSystemHealth]; !ok {
		t.Errorf("expected system_health alert alongside database alerts")
	}
}

func TestManager_CheckAlerts_SlowDatabaseOnly(t *testing.T) {
	report := healthyReport()
	report.Checks[healthdomain.CheckDatabase] = healthdomain.CheckResult{
		Status:         healthdomain.StatusHealthy,
		ResponseTimeMs: 1200,
	}
	m := newTestManager(&fakeMetricsSource{}, &fakeHealthSource{report: report})

	alerts := m.CheckAlerts(context.Background())
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].Type != domain.TypeSlowDatabase {
		t.Errorf("expected slow_database, got %s", alerts[0].Type)
	}
}

func TestManager_ShouldSend_RateLimit(t *testing.T) {
	m := newTestManager(&fakeMetricsSource{}, &fakeHealthSource{report: healthyReport()})
	ctx := context.Background()

	// Distinct endpoints still count against the shared per-type budget
	endpoints := []string{"GET:/api/a", "GET:/api/b", "GET:/api/c", "GET:/api/d"}
	for i, endpoint := range endpoints {
		alert := domain.NewAlert(domain.TypeHighErrorRate, domain.SeverityWarning, "test")
		alert.Endpoint = endpoint

		got := m.shouldSend(alert)
		want := i < spamLimit
		if got != want {
			t.Errorf("alert %d: shouldSend = %v, want %v", i+1, got, want)
		}
		if got {
			m.Send(ctx, alert)
		}
	}
}

func TestManager_ShouldSend_RateLimitWindowExpires(t *testing.T) {
	m := newTestManager(&fakeMetricsSource{}, &fakeHealthSource{report: healthyReport()})
	ctx := context.Background()

	for i := 0; i < spamLimit; i++ {
		m.Send(ctx, domain.NewAlert(domain.TypeSlowResponse, domain.SeverityWarning, "test"))
	}

	alert := domain.NewAlert(domain.TypeSlowResponse, domain.SeverityWarning, "test")
	if m.shouldSend(alert) {
		t.Fatal("expected alert suppressed inside rate-limit window")
	}

	// Step the clock past the window
	m.now = func() time.Time { return time.Now().Add(spamWindow + time.Minute) }
	if !m.shouldSend(alert) {
		t.Error("expected alert allowed after rate-limit window elapsed")
	}
}

func TestManager_Suppress(t *testing.T) {
	m := newTestManager(&fakeMetricsSource{}, &fakeHealthSource{report: healthyReport()})

	m.Suppress(domain.TypeSlowDatabase, "system", time.Minute)

	alert := domain.NewAlert(domain.TypeSlowDatabase, domain.SeverityWarning, "test")
	if m.shouldSend(alert) {
		t.Fatal("expected suppressed alert blocked")
	}

	// After the suppression deadline elapses, the alert flows again
	m.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if !m.shouldSend(alert) {
		t.Error("expected alert allowed after suppression expiry")
	}
}

func TestManager_Suppress_RepeatExtendsDeadline(t *testing.T) {
	m := newTestManager(&fakeMetricsSource{}, &fakeHealthSource{report: healthyReport()})

	m.Suppress(domain.TypeSlowDatabase, "system", time.Hour)
	m.Suppress(domain.TypeSlowDatabase, "system", time.Minute)

	// The shorter repeat must not cut the existing suppression short
	m.now = func() time.Time { return time.Now().Add(10 * time.Minute) }
	alert := domain.NewAlert(domain.TypeSlowDatabase, domain.SeverityWarning, "test")
	if m.shouldSend(alert) {
		t.Error("expected suppression to hold for the longer deadline")
	}
}

func TestManager_Suppress_DefaultEndpoint(t *testing.T) {
	m := newTestManager(&fakeMetricsSource{}, &fakeHealthSource{report: healthyReport()})

	m.Suppress(domain.TypeSystemHealth, "", time.Hour)

	// An alert with no endpoint shares the "system" key
	alert := domain.NewAlert(domain.TypeSystemHealth, domain.SeverityWarning, "test")
	if m.shouldSend(alert) {
		t.Error("expected empty endpoint to default to system")
	}
}

func TestManager_Send_BestEffortDispatch(t *testing.T) {
	failing := &fakeNotifier{name: "email", err: errors.New("relay unreachable")}
	working := &fakeNotifier{name: "slack"}
	m := newTestManager(&fakeMetricsSource{}, &fakeHealthSource{report: healthyReport()}, failing, working)

	alert := domain.NewAlert(domain.TypeSystemHealth, domain.SeverityCritical, "test")
	m.Send(context.Background(), alert)

	if len(failing.sent) != 1 {
		t.Errorf("expected failing channel attempted, got %d sends", len(failing.sent))
	}
	if len(working.sent) != 1 {
		t.Errorf("expected working channel attempted after failure, got %d sends", len(working.sent))
	}
	if working.sent[0].Timestamp.IsZero() {
		t.Error("expected dispatch timestamp stamped before delivery")
	}

	history := m.History()
	if len(history) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(history))
	}
	if history[0].Timestamp.IsZero() {
		t.Error("expected history entry stamped with dispatch time")
	}
}

func TestManager_Send_HistoryBounded(t *testing.T) {
	m := newTestManager(&fakeMetricsSource{}, &fakeHealthSource{report: healthyReport()})
	ctx := context.Background()

	for i := 0; i < historyLimit+10; i++ {
		m.Send(ctx, domain.NewAlert(domain.TypeSlowResponse, domain.SeverityWarning, "test"))
	}

	if got := len(m.History()); got != historyLimit {
		t.Errorf("expected history capped at %d, got %d", historyLimit, got)
	}
}
