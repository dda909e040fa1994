// Package daemon implements the background interface poller.
package daemon

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/syscmd/internal/domain"
)

// PollerConfig holds poller configuration.
type PollerConfig struct {
	Interval time.Duration // How often to re-probe the selected interface
}

// DefaultPollerConfig returns default poller configuration.
func DefaultPollerConfig() PollerConfig {
	return PollerConfig{
		Interval: 5 * time.Second,
	}
}

// Poller keeps the selected interface's snapshot fresh.
// A tick that arrives while the previous probe is still running is skipped.
type Poller struct {
	config PollerConfig
	prober domain.StateProber
	logger *zap.Logger

	inFlight atomic.Bool
	seq      atomic.Uint64

	mu        sync.RWMutex
	iface     string
	latest    domain.InterfaceSnapshot
	latestSeq uint64
	onUpdate  func(domain.InterfaceSnapshot)
}

// NewPoller creates a poller. A non-positive interval uses the default.
func NewPoller(config PollerConfig, prober domain.StateProber, logger *zap.Logger) *Poller {
	if config.Interval <= 0 {
		config.Interval = DefaultPollerConfig().Interval
	}
	return &Poller{
		config: config,
		prober: prober,
		logger: logger,
		latest: domain.EmptyInterfaceSnapshot(),
	}
}

// SetInterface changes the polled interface and clears the old snapshot.
func (p *Poller) SetInterface(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.iface == name {
		return
	}
	p.iface = name
	p.latest = domain.EmptyInterfaceSnapshot()
	p.latest.Name = name
}

// Interface returns the polled interface name.
func (p *Poller) Interface() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.iface
}

// Current returns the latest snapshot.
func (p *Poller) Current() domain.InterfaceSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest
}

// OnUpdate registers fn to receive every stored snapshot.
func (p *Poller) OnUpdate(fn func(domain.InterfaceSnapshot)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onUpdate = fn
}

// Run polls immediately, then on every interval, until ctx is canceled.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("interface poller started",
		zap.String("interface", p.Interface()),
		zap.Duration("interval", p.config.Interval))

	var wg sync.WaitGroup
	defer wg.Wait()

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	p.pollAsync(ctx, &wg)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("interface poller stopping")
			return ctx.Err()
		case <-ticker.C:
			p.pollAsync(ctx, &wg)
		}
	}
}

func (p *Poller) pollAsync(ctx context.Context, wg *sync.WaitGroup) {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.logger.Debug("previous poll still running, skipping tick")
		return
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer p.inFlight.Store(false)
		p.probe(ctx, p.Interface())
	}()
}

// Poll probes once unless a poll is already running. Returns false if skipped.
func (p *Poller) Poll(ctx context.Context) bool {
	if !p.inFlight.CompareAndSwap(false, true) {
		return false
	}
	defer p.inFlight.Store(false)
	p.probe(ctx, p.Interface())
	return true
}

// Refresh probes name right away, bypassing the in-flight guard.
// Used after a network action so the result is visible immediately.
func (p *Poller) Refresh(ctx context.Context, name string) domain.InterfaceSnapshot {
	return p.probe(ctx, name)
}

func (p *Poller) probe(ctx context.Context, name string) domain.InterfaceSnapshot {
	seq := p.seq.Add(1)
	if name == "" {
		snap := domain.EmptyInterfaceSnapshot()
		snap.ProbedAt = time.Now()
		return snap
	}

	snap := p.prober.Snapshot(ctx, name)
	p.store(seq, snap)
	return snap
}

// store keeps only the newest probe of the selected interface.
func (p *Poller) store(seq uint64, snap domain.InterfaceSnapshot) {
	p.mu.Lock()
	if snap.Name != p.iface || seq < p.latestSeq {
		p.mu.Unlock()
		return
	}
	changed := p.latest.AdminState != snap.AdminState || p.latest.IPv4 != snap.IPv4
	p.latest = snap
	p.latestSeq = seq
	fn := p.onUpdate
	p.mu.Unlock()

	if changed {
		p.logger.Info("interface state changed",
			zap.String("interface", snap.Name),
			zap.String("state", string(snap.AdminState)),
			zap.String("ipv4", snap.IPv4))
	}
	if fn != nil {
		fn(snap)
	}
}

// Ensure Poller implements domain.InterfaceRefresher.
var _ domain.InterfaceRefresher = (*Poller)(nil)
