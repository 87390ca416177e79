package infrastructure

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/gsihag/immigration-ai-saas/internal/alerting/domain"
	configapp "github.com/gsihag/immigration-ai-saas/internal/config/application"
)

const smtpDialTimeout = 10 * time.Second

// EmailNotifier delivers alerts as plain-text email through a
// configured SMTP relay
type EmailNotifier struct {
	cfg configapp.SMTPConfig
}

// NewEmailNotifier creates an email notification channel
func NewEmailNotifier(cfg configapp.SMTPConfig) *EmailNotifier {
	return &EmailNotifier{cfg: cfg}
}

// Name identifies the channel in dispatch logs
func (n *EmailNotifier) Name() string {
	return "email"
}

// Send delivers one alert to the fixed recipient list. The connection
// uses an explicit dial timeout so a dead relay cannot block the alert
// loop indefinitely.
func (n *EmailNotifier) Send(ctx context.Context, alert domain.Alert) error {
	addr := net.JoinHostPort(n.cfg.Server, fmt.Sprint(n.cfg.Port))

	dialer := net.Dialer{Timeout: smtpDialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to dial SMTP relay: %w", err)
	}

	client, err := smtp.NewClient(conn, n.cfg.Server)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if n.cfg.UseTLS {
		if err := client.StartTLS(&tls.Config{ServerName: n.cfg.Server}); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if n.cfg.Username != "" {
		auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Server)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(n.cfg.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, recipient := range n.cfg.ToEmails {
		if err := client.Rcpt(recipient); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", recipient, err)
		}
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open message body: %w", err)
	}
	if _, err := writer.Write(buildMessage(n.cfg, alert)); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write message body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish message body: %w", err)
	}

	return client.Quit()
}

// buildMessage renders the alert as an RFC 5322 plain-text message
func buildMessage(cfg configapp.SMTPConfig, alert domain.Alert) []byte {
	details := "{}"
	if len(alert.Details) > 0 {
		if rendered, err := json.MarshalIndent(alert.Details, "", "  "); err == nil {
			details = string(rendered)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", cfg.FromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(cfg.ToEmails, ", "))
	fmt.Fprintf(&b, "Subject: Immigration AI Alert: %s\r\n", alert.Type)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Alert Type: %s\r\n", alert.Type)
	fmt.Fprintf(&b, "Severity: %s\r\n", alert.Severity)
	fmt.Fprintf(&b, "Message: %s\r\n", alert.Message)
	fmt.Fprintf(&b, "Timestamp: %s\r\n", alert.Timestamp.Format(time.RFC3339))
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Details: %s\r\n", details)
	return []byte(b.String())
}

var _ domain.Notifier = (*EmailNotifier)(nil)
