package domain

import "context"

// Notifier defines the interface for alert notification channels
// Implementations deliver best-effort: a failed send is reported as an
// error but must not panic or block indefinitely.
type Notifier interface {
	Name() string
	Send(ctx context.Context, alert Alert) error
}
