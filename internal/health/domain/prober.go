package domain

import (
	"context"
	"time"
)

// DatabaseProber executes a minimal read query against the primary
// store. A single failed attempt is reported as-is; retry and backoff
// are the caller's responsibility.
type DatabaseProber interface {
	Probe(ctx context.Context) error
}

// StorageProber lists the available storage buckets and returns how
// many are visible.
type StorageProber interface {
	ListBuckets(ctx context.Context) (int, error)
}

// MemoryStat carries host memory figures
type MemoryStat struct {
	UsedPercent    float64
	AvailableBytes uint64
}

// DiskStat carries host disk figures
type DiskStat struct {
	UsedPercent float64
	FreeBytes   uint64
}

// SystemReader defines the interface for reading host resource usage
// This interface abstracts host introspection from the application layer
type SystemReader interface {
	// CPUPercent samples CPU utilization over the given interval
	CPUPercent(ctx context.Context, interval time.Duration) (float64, error)
	VirtualMemory(ctx context.Context) (MemoryStat, error)
	DiskUsage(ctx context.Context, path string) (DiskStat, error)
}
