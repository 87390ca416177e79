package application

import (
	"context"
	"fmt"
	"time"

	sharedlogger "github.com/gsihag/immigration-ai-saas/internal/shared/logger"
)

const defaultErrorBackoff = time.Minute

// Monitor drives the periodic alert evaluation loop. One iteration
// evaluates all alert conditions and dispatches the survivors
// sequentially in list order; an iteration failure shortens the next
// sleep so the loop recovers faster from transient faults.
type Monitor struct {
	logger       sharedlogger.Logger
	manager      *Manager
	interval     time.Duration
	errorBackoff time.Duration
}

// NewMonitor creates a monitoring loop with the given check interval
func NewMonitor(logger sharedlogger.Logger, manager *Manager, interval time.Duration) *Monitor {
	return &Monitor{
		logger:       logger,
		manager:      manager,
		interval:     interval,
		errorBackoff: defaultErrorBackoff,
	}
}

// Run executes the loop until the context is cancelled. Iteration
// errors are logged, never returned; cancellation returns nil.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("Monitoring loop started", "interval", m.interval)

	for {
		delay := m.interval
		if err := m.step(ctx); err != nil {
			if ctx.Err() != nil {
				m.logger.Info("Monitoring loop stopped")
				return nil
			}
			m.logger.Error("Error in monitoring loop", "err", err, "retry_in", m.errorBackoff)
			delay = m.errorBackoff
		}

		select {
		case <-ctx.Done():
			m.logger.Info("Monitoring loop stopped")
			return nil
		case <-time.After(delay):
		}
	}
}

// step runs one evaluation-and-dispatch iteration. Panics are
// converted to errors so a bad iteration never terminates the process.
func (m *Monitor) step(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("monitoring iteration panic: %v", r)
		}
	}()

	alerts := m.manager.CheckAlerts(ctx)
	for _, alert := range alerts {
		m.manager.Send(ctx, alert)
	}

	return ctx.Err()
}
