package infra

import (
	"context"
	"net"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/syscmd/internal/catalog"
	"github.com/eliteGoblin/syscmd/internal/domain"
)

// DefaultDiskPath returns the volume summarized by SystemSummary.
func DefaultDiskPath(profile domain.PlatformProfile) string {
	if profile == domain.PlatformWindows {
		return `C:\`
	}
	return "/"
}

// StateProberImpl implements domain.StateProber.
// Every probe is best effort: failures are logged at debug and mapped to sentinels.
type StateProberImpl struct {
	profile  domain.PlatformProfile
	catalog  domain.ActionCatalog
	executor domain.CommandExecutor
	host     HostInfo
	diskPath string
	logger   *zap.Logger
	now      func() time.Time
}

// NewStateProber creates a prober. An empty diskPath uses DefaultDiskPath.
func NewStateProber(
	profile domain.PlatformProfile,
	catalog domain.ActionCatalog,
	executor domain.CommandExecutor,
	host HostInfo,
	diskPath string,
	logger *zap.Logger,
) *StateProberImpl {
	if diskPath == "" {
		diskPath = DefaultDiskPath(profile)
	}
	return &StateProberImpl{
		profile:  profile,
		catalog:  catalog,
		executor: executor,
		host:     host,
		diskPath: diskPath,
		logger:   logger,
		now:      time.Now,
	}
}

// ListInterfaces returns interface names in platform order. The platform
// listing command is preferred; gopsutil is the fallback.
func (p *StateProberImpl) ListInterfaces(ctx context.Context) []string {
	if out, ok := p.runQuery(ctx, domain.QueryListInterfaces); ok {
		var names []string
		if p.profile == domain.PlatformWindows {
			names = rowNames(parseWindowsInterfaceTable(out))
		} else {
			names = parseLinuxLinkList(out)
		}
		if len(names) > 0 {
			return names
		}
	}

	stats, err := p.host.Interfaces(ctx)
	if err != nil {
		p.probeFailed("list interfaces", err)
		return nil
	}
	names := make([]string, 0, len(stats))
	for _, s := range stats {
		names = append(names, s.Name)
	}
	return names
}

// InterfaceAdminState returns up/down/unknown for name.
func (p *StateProberImpl) InterfaceAdminState(ctx context.Context, name string) domain.AdminState {
	if name == "" {
		return domain.AdminStateUnknown
	}

	switch p.profile {
	case domain.PlatformWindows:
		out, ok := p.runQuery(ctx, domain.QueryListInterfaces)
		if !ok {
			return domain.AdminStateUnknown
		}
		for _, row := range parseWindowsInterfaceTable(out) {
			if row.Name == name {
				if strings.EqualFold(row.State, "Connected") {
					return domain.AdminStateUp
				}
				return domain.AdminStateDown
			}
		}
		return domain.AdminStateUnknown

	case domain.PlatformLinux:
		if err := catalog.ValidateInterfaceName(name); err != nil {
			p.probeFailed("read operstate", err, zap.String("interface", name))
			return domain.AdminStateUnknown
		}
		data, err := os.ReadFile(p.catalog.OperStatePath(name))
		if err != nil {
			p.probeFailed("read operstate", err, zap.String("interface", name))
			return domain.AdminStateUnknown
		}
		return operStateToAdmin(string(data))

	default:
		return p.flagsAdminState(ctx, name)
	}
}

// operStateToAdmin maps kernel operstate: "up" is up, anything else
// ("down", "unknown", "dormant", ...) is down.
func operStateToAdmin(content string) domain.AdminState {
	if strings.TrimSpace(content) == "up" {
		return domain.AdminStateUp
	}
	return domain.AdminStateDown
}

func (p *StateProberImpl) flagsAdminState(ctx context.Context, name string) domain.AdminState {
	stats, err := p.host.Interfaces(ctx)
	if err != nil {
		p.probeFailed("interface flags", err, zap.String("interface", name))
		return domain.AdminStateUnknown
	}
	for _, s := range stats {
		if s.Name != name {
			continue
		}
		for _, f := range s.Flags {
			if f == "up" {
				return domain.AdminStateUp
			}
		}
		return domain.AdminStateDown
	}
	return domain.AdminStateUnknown
}

// InterfaceAddresses returns the first IPv4 address and the MAC of name.
func (p *StateProberImpl) InterfaceAddresses(ctx context.Context, name string) (string, string) {
	ipv4, mac := domain.NotAvailable, domain.NotAvailable
	if name == "" {
		return ipv4, mac
	}

	stats, err := p.host.Interfaces(ctx)
	if err != nil {
		p.probeFailed("interface addresses", err, zap.String("interface", name))
		return ipv4, mac
	}

	for _, s := range stats {
		if s.Name != name {
			continue
		}
		if s.HardwareAddr != "" {
			mac = s.HardwareAddr
		}
		for _, a := range s.Addrs {
			if ip := parseAddr(a.Addr); ip != nil && ip.To4() != nil {
				ipv4 = ip.To4().String()
				break
			}
		}
		break
	}
	return ipv4, mac
}

// parseAddr accepts "10.0.0.5/24" or a bare address.
func parseAddr(s string) net.IP {
	if ip, _, err := net.ParseCIDR(s); err == nil {
		return ip
	}
	return net.ParseIP(s)
}

// Snapshot probes name and returns a fresh snapshot.
func (p *StateProberImpl) Snapshot(ctx context.Context, name string) domain.InterfaceSnapshot {
	snap := domain.EmptyInterfaceSnapshot()
	snap.ProbedAt = p.now()
	if name == "" {
		return snap
	}

	snap.Name = name
	snap.AdminState = p.InterfaceAdminState(ctx, name)
	snap.IPv4, snap.MAC = p.InterfaceAddresses(ctx, name)
	return snap
}

// Refresh re-probes name. It lets the prober serve as a domain.InterfaceRefresher.
func (p *StateProberImpl) Refresh(ctx context.Context, name string) domain.InterfaceSnapshot {
	return p.Snapshot(ctx, name)
}

// SystemSummary describes CPU, RAM and the configured disk.
func (p *StateProberImpl) SystemSummary(ctx context.Context) domain.SystemSnapshot {
	summary := domain.SystemSnapshot{
		CPUDescription: domain.UnknownValue,
		RAMTotal:       domain.UnknownValue,
		DiskTotal:      domain.UnknownValue,
		DiskUsed:       domain.UnknownValue,
		DiskFree:       domain.UnknownValue,
	}

	if infos, err := p.host.CPUInfo(ctx); err != nil {
		p.probeFailed("cpu info", err)
	} else if len(infos) > 0 && strings.TrimSpace(infos[0].ModelName) != "" {
		summary.CPUDescription = strings.TrimSpace(infos[0].ModelName)
	}

	if vm, err := p.host.VirtualMemory(ctx); err != nil {
		p.probeFailed("virtual memory", err)
	} else if vm != nil {
		summary.RAMTotal = domain.FormatGiB(vm.Total)
	}

	if usage, err := p.host.DiskUsage(ctx, p.diskPath); err != nil {
		p.probeFailed("disk usage", err, zap.String("path", p.diskPath))
	} else if usage != nil {
		summary.DiskTotal = domain.FormatGiB(usage.Total)
		summary.DiskUsed = domain.FormatGiB(usage.Used)
		summary.DiskFree = domain.FormatGiB(usage.Free)
	}

	return summary
}

func (p *StateProberImpl) runQuery(ctx context.Context, kind domain.QueryKind) (string, bool) {
	spec, err := p.catalog.Query(kind, p.profile)
	if err != nil {
		p.probeFailed("resolve query", err, zap.String("query", string(kind)))
		return "", false
	}
	res := p.executor.Execute(ctx, spec)
	if !res.Succeeded {
		p.probeFailed("run query", res.Err(), zap.String("query", string(kind)))
		return "", false
	}
	return res.Stdout, true
}

func (p *StateProberImpl) probeFailed(what string, err error, fields ...zap.Field) {
	fields = append(fields,
		zap.String("kind", string(domain.ErrKindProbeUnavailable)),
		zap.Error(err))
	p.logger.Debug("probe unavailable: "+what, fields...)
}

// Ensure StateProberImpl implements domain.StateProber and domain.InterfaceRefresher.
var (
	_ domain.StateProber        = (*StateProberImpl)(nil)
	_ domain.InterfaceRefresher = (*StateProberImpl)(nil)
)
