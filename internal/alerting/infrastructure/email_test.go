package infrastructure

import (
	"strings"
	"testing"
	"time"

	"github.com/gsihag/immigration-ai-saas/internal/alerting/domain"
	configapp "github.com/gsihag/immigration-ai-saas/internal/config/application"
)

func TestBuildMessage(t *testing.T) {
	cfg := configapp.SMTPConfig{
		FromEmail: "alerts@immigrationai.com",
		ToEmails:  []string{"admin@immigrationai.com", "ops@immigrationai.com"},
	}

	alert := domain.NewAlert(domain.TypeDatabaseIssue, domain.SeverityCritical, "Database health check failed")
	alert.Timestamp = time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	alert.Details = map[string]any{"error": "connection refused"}

	msg := string(buildMessage(cfg, alert))

	wantFragments := []string{
		"From: alerts@immigrationai.com",
		"To: admin@immigrationai.com, ops@immigrationai.com",
		"Subject: Immigration AI Alert: database_issue",
		"Alert Type: database_issue",
		"Severity: critical",
		"Message: Database health check failed",
		"Timestamp: 2026-01-15T10:30:00Z",
		`"error": "connection refused"`,
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(msg, fragment) {
			t.Errorf("message missing fragment %q", fragment)
		}
	}

	// Headers and body must be separated by a blank line
	if !strings.Contains(msg, "\r\n\r\nAlert Type:") {
		t.Error("expected blank line between headers and body")
	}
}

func TestBuildMessage_NoDetails(t *testing.T) {
	cfg := configapp.SMTPConfig{
		FromEmail: "alerts@immigrationai.com",
		ToEmails:  []string{"admin@immigrationai.com"},
	}
	alert := domain.NewAlert(domain.TypeSlowDatabase, domain.SeverityWarning, "slow")

	msg := string(buildMessage(cfg, alert))
	if !strings.Contains(msg, "Details: {}") {
		t.Error("expected empty details object for alert without details")
	}
}
