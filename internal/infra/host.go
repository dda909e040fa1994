package infra

import (
	"context"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	psnet "github.com/shirou/gopsutil/v3/net"
)

// HostInfo is the raw host data the prober reads. Tests swap in a fake.
type HostInfo interface {
	Interfaces(ctx context.Context) (psnet.InterfaceStatList, error)
	CPUInfo(ctx context.Context) ([]cpu.InfoStat, error)
	VirtualMemory(ctx context.Context) (*mem.VirtualMemoryStat, error)
	DiskUsage(ctx context.Context, path string) (*disk.UsageStat, error)
}

// GopsutilHost implements HostInfo using gopsutil.
type GopsutilHost struct{}

// NewGopsutilHost creates the live host reader.
func NewGopsutilHost() *GopsutilHost {
	return &GopsutilHost{}
}

func (h *GopsutilHost) Interfaces(ctx context.Context) (psnet.InterfaceStatList, error) {
	return psnet.InterfacesWithContext(ctx)
}

func (h *GopsutilHost) CPUInfo(ctx context.Context) ([]cpu.InfoStat, error) {
	return cpu.InfoWithContext(ctx)
}

func (h *GopsutilHost) VirtualMemory(ctx context.Context) (*mem.VirtualMemoryStat, error) {
	return mem.VirtualMemoryWithContext(ctx)
}

func (h *GopsutilHost) DiskUsage(ctx context.Context, path string) (*disk.UsageStat, error) {
	return disk.UsageWithContext(ctx, path)
}

// Ensure GopsutilHost implements HostInfo.
var _ HostInfo = (*GopsutilHost)(nil)
