// Package domain contains core business entities and interfaces.
// This is the innermost layer in Clean Architecture - no external dependencies.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Sentinel values shown when a probe cannot produce a real value.
const (
	NotAvailable = "N/A"
	UnknownValue = "Unknown"
)

// AuditTimeLayout is the local-time stamp format used by the audit log.
const AuditTimeLayout = "2006-01-02 15:04:05"

// DefaultCountdownSeconds is how long a countdown confirmation waits before proceeding.
const DefaultCountdownSeconds = 10

// PlatformProfile identifies the running OS family.
type PlatformProfile string

const (
	PlatformWindows     PlatformProfile = "windows"
	PlatformLinux       PlatformProfile = "linux"
	PlatformUnsupported PlatformProfile = "unsupported"
)

// ProfileForGOOS maps a runtime.GOOS value to a PlatformProfile.
func ProfileForGOOS(goos string) PlatformProfile {
	switch goos {
	case "windows":
		return PlatformWindows
	case "linux":
		return PlatformLinux
	default:
		return PlatformUnsupported
	}
}

// CommandSpec is a concrete platform invocation: executable plus discrete arguments.
// Never a shell string.
type CommandSpec struct {
	Path string
	Args []string
	// Fallback runs only when Path is absent or cannot be started.
	Fallback *CommandSpec
}

// String renders the invocation for logs and audit entries.
func (c CommandSpec) String() string {
	if len(c.Args) == 0 {
		return c.Path
	}
	return c.Path + " " + strings.Join(c.Args, " ")
}

// ExecutionResult captures a single command invocation.
type ExecutionResult struct {
	Succeeded bool
	ExitCode  int
	Stdout    string
	Stderr    string
	ErrorKind ErrorKind
	Command   string // Rendered command that actually ran (after fallback)
	Duration  time.Duration
}

// Err converts a failed result into a *CommandError. Returns nil on success.
func (r ExecutionResult) Err() error {
	if r.Succeeded {
		return nil
	}
	return &CommandError{
		Kind:     r.ErrorKind,
		Command:  r.Command,
		ExitCode: r.ExitCode,
		Stderr:   r.Stderr,
	}
}

// AdminState is the administrative/operational state of a network interface.
type AdminState string

const (
	AdminStateUp      AdminState = "up"
	AdminStateDown    AdminState = "down"
	AdminStateUnknown AdminState = "unknown"
)

// Label returns the human-readable status used by the CLI.
func (s AdminState) Label() string {
	switch s {
	case AdminStateUp:
		return "Online"
	case AdminStateDown:
		return "Offline"
	default:
		return UnknownValue
	}
}

// InterfaceSnapshot is a point-in-time view of one interface.
// Each refresh replaces the previous snapshot entirely.
type InterfaceSnapshot struct {
	Name       string
	AdminState AdminState
	IPv4       string
	MAC        string
	ProbedAt   time.Time
}

// EmptyInterfaceSnapshot is what callers render when nothing is selected.
func EmptyInterfaceSnapshot() InterfaceSnapshot {
	return InterfaceSnapshot{
		AdminState: AdminStateUnknown,
		IPv4:       NotAvailable,
		MAC:        NotAvailable,
	}
}

// SystemSnapshot summarizes the host. Sizes are pre-formatted ("3.00 GB").
type SystemSnapshot struct {
	CPUDescription string
	RAMTotal       string
	DiskTotal      string
	DiskUsed       string
	DiskFree       string
}

// FormatGiB converts a byte count to GiB with two decimals.
func FormatGiB(bytes uint64) string {
	return fmt.Sprintf("%.2f GB", float64(bytes)/(1024*1024*1024))
}

// AuditEntry is one line of the audit trail.
type AuditEntry struct {
	Timestamp   time.Time
	Description string
}

// String renders the entry in its persisted form (without trailing newline).
func (e AuditEntry) String() string {
	return fmt.Sprintf("[%s] %s", e.Timestamp.Format(AuditTimeLayout), e.Description)
}

// MessageSeverity classifies a user-visible message.
type MessageSeverity string

const (
	SeverityInfo    MessageSeverity = "info"
	SeverityWarning MessageSeverity = "warning"
	SeverityError   MessageSeverity = "error"
)

// UserMessage is a title/body pair the presentation layer shows as-is.
type UserMessage struct {
	Severity MessageSeverity
	Title    string
	Body     string
}
