package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gsihag/immigration-ai-saas/internal/alerting/domain"
)

const webhookTimeout = 10 * time.Second

// Attachment colors by severity
const (
	colorCritical = "#ff0000"
	colorWarning  = "#ffaa00"
)

// SlackNotifier posts alerts to a Slack incoming-webhook URL
type SlackNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewSlackNotifier creates a Slack notification channel
func NewSlackNotifier(webhookURL string) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		client: &http.Client{
			Timeout: webhookTimeout,
		},
	}
}

// Name identifies the channel in dispatch logs
func (n *SlackNotifier) Name() string {
	return "slack"
}

type slackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type slackAttachment struct {
	Color  string       `json:"color"`
	Title  string       `json:"title"`
	Text   string       `json:"text"`
	Fields []slackField `json:"fields"`
}

type slackPayload struct {
	Attachments []slackAttachment `json:"attachments"`
}

// Send posts one alert to the webhook. A non-2xx response is reported
// as a failure and never retried.
func (n *SlackNotifier) Send(ctx context.Context, alert domain.Alert) error {
	color := colorWarning
	if alert.Severity == domain.SeverityCritical {
		color = colorCritical
	}

	payload := slackPayload{
		Attachments: []slackAttachment{
			{
				Color: color,
				Title: fmt.Sprintf("Immigration AI Alert: %s", alert.Type),
				Text:  alert.Message,
				Fields: []slackField{
					{Title: "Severity", Value: string(alert.Severity), Short: true},
					{Title: "Timestamp", Value: alert.Timestamp.Format(time.RFC3339), Short: true},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}

var _ domain.Notifier = (*SlackNotifier)(nil)
