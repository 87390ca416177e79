package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/gsihag/immigration-ai-saas/internal/health/domain"
)

// SystemReaderImpl implements the domain SystemReader interface using
// gopsutil host introspection
type SystemReaderImpl struct{}

// NewSystemReader creates a new system reader implementation
func NewSystemReader() domain.SystemReader {
	return &SystemReaderImpl{}
}

// CPUPercent samples total CPU utilization over the given interval.
// The call blocks for the full interval.
func (r *SystemReaderImpl) CPUPercent(ctx context.Context, interval time.Duration) (float64, error) {
	percents, err := cpu.PercentWithContext(ctx, interval, false)
	if err != nil {
		return 0, fmt.Errorf("failed to read CPU usage: %w", err)
	}
	if len(percents) == 0 {
		return 0, fmt.Errorf("no CPU usage data returned")
	}
	return percents[0], nil
}

// VirtualMemory reads host memory utilization
func (r *SystemReaderImpl) VirtualMemory(ctx context.Context) (domain.MemoryStat, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return domain.MemoryStat{}, fmt.Errorf("failed to read memory usage: %w", err)
	}
	return domain.MemoryStat{
		UsedPercent:    vm.UsedPercent,
		AvailableBytes: vm.Available,
	}, nil
}

// DiskUsage reads utilization for the filesystem containing path
func (r *SystemReaderImpl) DiskUsage(ctx context.Context, path string) (domain.DiskStat, error) {
	usage, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return domain.DiskStat{}, fmt.Errorf("failed to read disk usage: %w", err)
	}
	return domain.DiskStat{
		UsedPercent: usage.UsedPercent,
		FreeBytes:   usage.Free,
	}, nil
}
