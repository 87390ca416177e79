package application

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gsihag/immigration-ai-saas/internal/health/domain"
	sharedlogger "github.com/gsihag/immigration-ai-saas/internal/shared/logger"
	"github.com/gsihag/immigration-ai-saas/pkg/utils"
)

// cpuSampleInterval is how long the resource check samples CPU usage
const cpuSampleInterval = time.Second

// Checker answers "is the system currently healthy" by polling three
// independent sub-checks and folding their results. Each call
// recomputes from scratch; the only persisted field is the start time
// used for uptime arithmetic.
type Checker struct {
	logger    sharedlogger.Logger
	database  domain.DatabaseProber
	storage   domain.StorageProber
	system    domain.SystemReader
	startTime time.Time
}

// NewChecker creates a health checker over the given probers
func NewChecker(logger sharedlogger.Logger, database domain.DatabaseProber, storage domain.StorageProber, system domain.SystemReader) *Checker {
	return &Checker{
		logger:    logger,
		database:  database,
		storage:   storage,
		system:    system,
		startTime: time.Now(),
	}
}

// CheckDatabase probes database connectivity and measures latency.
// Never retries internally.
func (c *Checker) CheckDatabase(ctx context.Context) domain.CheckResult {
	start := time.Now()

	if err := c.database.Probe(ctx); err != nil {
		c.logger.Error("Database health check failed", "err", err)
		return domain.CheckResult{
			Status:    domain.StatusUnhealthy,
			Timestamp: time.Now(),
			Error:     err.Error(),
		}
	}

	return domain.CheckResult{
		Status:         domain.StatusHealthy,
		Timestamp:      time.Now(),
		ResponseTimeMs: utils.Round2(float64(time.Since(start)) / float64(time.Millisecond)),
		Details: map[string]any{
			"message": "Database connection successful",
		},
	}
}

// CheckStorage probes the object-storage service by listing buckets
func (c *Checker) CheckStorage(ctx context.Context) domain.CheckResult {
	start := time.Now()

	buckets, err := c.storage.ListBuckets(ctx)
	if err != nil {
		c.logger.Error("Storage health check failed", "err", err)
		return domain.CheckResult{
			Status:    domain.StatusUnhealthy,
			Timestamp: time.Now(),
			Error:     err.Error(),
		}
	}

	return domain.CheckResult{
		Status:         domain.StatusHealthy,
		Timestamp:      time.Now(),
		ResponseTimeMs: utils.Round2(float64(time.Since(start)) / float64(time.Millisecond)),
		Details: map[string]any{
			"buckets_available": buckets,
		},
	}
}

// CheckSystemResources reads CPU, memory, and disk usage plus process
// uptime. It has no external dependency and fails only on host
// introspection errors.
func (c *Checker) CheckSystemResources(ctx context.Context) domain.CheckResult {
	cpuPercent, err := c.system.CPUPercent(ctx, cpuSampleInterval)
	if err != nil {
		return c.systemFailure(err)
	}

	memory, err := c.system.VirtualMemory(ctx)
	if err != nil {
		return c.systemFailure(err)
	}

	disk, err := c.system.DiskUsage(ctx, "/")
	if err != nil {
		return c.systemFailure(err)
	}

	return domain.CheckResult{
		Status:    domain.StatusHealthy,
		Timestamp: time.Now(),
		Details: map[string]any{
			"cpu_usage_percent":    utils.Round2(cpuPercent),
			"memory_usage_percent": utils.Round2(memory.UsedPercent),
			"memory_available_gb":  utils.Round2(utils.BytesToGB(memory.AvailableBytes)),
			"disk_usage_percent":   utils.Round2(disk.UsedPercent),
			"disk_free_gb":         utils.Round2(utils.BytesToGB(disk.FreeBytes)),
			"uptime_seconds":       time.Since(c.startTime).Seconds(),
		},
	}
}

// recoverCheck converts a sub-check panic into an error on the
// enclosing goroutine
func recoverCheck(name string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s check panic: %v", name, r)
	}
}

func (c *Checker) systemFailure(err error) domain.CheckResult {
	c.logger.Error("System resource check failed", "err", err)
	return domain.CheckResult{
		Status:    domain.StatusUnhealthy,
		Timestamp: time.Now(),
		Error:     err.Error(),
	}
}

// Comprehensive runs the database and storage checks concurrently,
// then the resource check, and folds the three results. The overall
// status is healthy only if every sub-check is healthy, degraded
// otherwise. A panic anywhere in the sub-checks or the fold collapses
// to an unhealthy report: uncertainty about health is always reported
// as the worse state.
func (c *Checker) Comprehensive(ctx context.Context) (report domain.Report) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Comprehensive health check failed", "panic", r)
			report = domain.Report{
				OverallStatus: domain.StatusUnhealthy,
				Timestamp:     time.Now(),
				Error:         fmt.Sprint(r),
			}
		}
	}()

	var dbResult, storageResult domain.CheckResult

	// Panics inside group goroutines never reach the deferred recover
	// on this goroutine; each closure converts its own panic to an
	// error so Wait sees it.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		defer recoverCheck(domain.CheckDatabase, &err)
		dbResult = c.CheckDatabase(gctx)
		return nil
	})
	g.Go(func() (err error) {
		defer recoverCheck(domain.CheckStorage, &err)
		storageResult = c.CheckStorage(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		c.logger.Error("Comprehensive health check failed", "err", err)
		return domain.Report{
			OverallStatus: domain.StatusUnhealthy,
			Timestamp:     time.Now(),
			Error:         err.Error(),
		}
	}

	systemResult := c.CheckSystemResources(ctx)

	overall := domain.StatusHealthy
	for _, result := range []domain.CheckResult{dbResult, storageResult, systemResult} {
		if !result.Healthy() {
			overall = domain.StatusDegraded
			break
		}
	}

	return domain.Report{
		OverallStatus: overall,
		Timestamp:     time.Now(),
		Checks: map[string]domain.CheckResult{
			domain.CheckDatabase: dbResult,
			domain.CheckStorage:  storageResult,
			domain.CheckSystem:   systemResult,
		},
	}
}
