package infra

import (
	"context"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"

	"github.com/eliteGoblin/syscmd/internal/domain"
)

// ProcessManagerImpl implements domain.ProcessManager using gopsutil.
type ProcessManagerImpl struct{}

// NewProcessManager creates a new process manager.
func NewProcessManager() *ProcessManagerImpl {
	return &ProcessManagerImpl{}
}

// FindByName returns PIDs of processes whose name contains pattern (case-insensitive).
func (pm *ProcessManagerImpl) FindByName(pattern string) ([]int, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}

	var found []int
	patternLower := strings.ToLower(pattern)
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue // exited while iterating
		}
		if strings.Contains(strings.ToLower(name), patternLower) {
			found = append(found, int(p.Pid))
		}
	}
	return found, nil
}

// IsRunning checks if a PID exists.
func (pm *ProcessManagerImpl) IsRunning(pid int) bool {
	exists, err := process.PidExists(int32(pid))
	return err == nil && exists
}

// Ensure ProcessManagerImpl implements domain.ProcessManager.
var _ domain.ProcessManager = (*ProcessManagerImpl)(nil)

// lockerProcesses are the screen lockers whose presence means the session is locked.
var lockerProcesses = map[domain.PlatformProfile][]string{
	domain.PlatformWindows: {"LogonUI"},
	domain.PlatformLinux: {
		"gnome-screensaver",
		"light-locker",
		"xscreensaver",
		"i3lock",
		"swaylock",
		"xsecurelock",
	},
}

const (
	lockVerifyAttempts = 3
	lockVerifyInterval = 500 * time.Millisecond
)

// ProcessLockVerifier implements domain.LockVerifier by scanning for a screen
// locker process after the lock command returned.
type ProcessLockVerifier struct {
	pm       domain.ProcessManager
	names    []string
	attempts int
	interval time.Duration
	logger   *zap.Logger
}

// NewProcessLockVerifier creates a verifier for profile.
func NewProcessLockVerifier(pm domain.ProcessManager, profile domain.PlatformProfile, logger *zap.Logger) *ProcessLockVerifier {
	return NewProcessLockVerifierWithTiming(pm, profile, lockVerifyAttempts, lockVerifyInterval, logger)
}

// NewProcessLockVerifierWithTiming creates a verifier with custom polling (for testing).
func NewProcessLockVerifierWithTiming(pm domain.ProcessManager, profile domain.PlatformProfile, attempts int, interval time.Duration, logger *zap.Logger) *ProcessLockVerifier {
	if attempts < 1 {
		attempts = 1
	}
	return &ProcessLockVerifier{
		pm:       pm,
		names:    lockerProcesses[profile],
		attempts: attempts,
		interval: interval,
		logger:   logger,
	}
}

// VerifyLocked polls for a locker process. Lockers can take a moment to appear.
func (v *ProcessLockVerifier) VerifyLocked(ctx context.Context) bool {
	if len(v.names) == 0 {
		return false
	}

	for attempt := 1; ; attempt++ {
		for _, name := range v.names {
			pids, err := v.pm.FindByName(name)
			if err != nil {
				v.logger.Debug("process scan failed", zap.Error(err))
				break
			}
			if len(pids) > 0 {
				v.logger.Debug("screen locker running", zap.String("process", name), zap.Ints("pids", pids))
				return true
			}
		}

		if attempt >= v.attempts {
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(v.interval):
		}
	}
}

// Ensure ProcessLockVerifier implements domain.LockVerifier.
var _ domain.LockVerifier = (*ProcessLockVerifier)(nil)
