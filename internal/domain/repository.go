package domain

import "context"

// CommandExecutor runs a single platform command.
// Implementation: os/exec with argv lists and a bounded timeout.
type CommandExecutor interface {
	// Execute runs spec (and its fallback when the primary cannot start).
	Execute(ctx context.Context, spec CommandSpec) ExecutionResult
}

// QueryKind names a read-only platform query the catalog can resolve.
type QueryKind string

const (
	// QueryListInterfaces lists network interfaces (also carries Windows admin state).
	QueryListInterfaces QueryKind = "list-interfaces"
)

// ActionCatalog maps intents to concrete invocations per platform.
// It is the only place platform command strings appear.
type ActionCatalog interface {
	// Resolve returns the invocation for intent, or ErrUnsupportedOnPlatform.
	Resolve(intent Intent, profile PlatformProfile) (CommandSpec, error)

	// Query returns the invocation for a state query, or ErrUnsupportedOnPlatform.
	Query(kind QueryKind, profile PlatformProfile) (CommandSpec, error)

	// OperStatePath returns the kernel operstate file for name (Linux only).
	OperStatePath(name string) string
}

// StateProber polls system/network state. Every method is best effort:
// failures resolve to sentinel values, never errors.
type StateProber interface {
	// ListInterfaces returns interface names in platform order.
	ListInterfaces(ctx context.Context) []string

	// InterfaceAdminState returns up/down/unknown for name.
	InterfaceAdminState(ctx context.Context, name string) AdminState

	// InterfaceAddresses returns (ipv4, mac), each NotAvailable when absent.
	InterfaceAddresses(ctx context.Context, name string) (string, string)

	// Snapshot combines state and addresses for name.
	Snapshot(ctx context.Context, name string) InterfaceSnapshot

	// SystemSummary describes CPU, RAM and disk.
	SystemSummary(ctx context.Context) SystemSnapshot
}

// AuditLog is the append-only record of action attempts and outcomes.
type AuditLog interface {
	// Append stamps description with local time and persists it.
	Append(description string) error

	// ReadAll returns the full log text, or "" if nothing was written yet.
	ReadAll() (string, error)

	// Entries returns the parsed log in append order.
	Entries() ([]AuditEntry, error)
}

// Confirmer resolves a ConfirmationRequest from user answers.
type Confirmer interface {
	// Confirm blocks until req resolves. onTick receives remaining seconds
	// for countdown requests.
	Confirm(ctx context.Context, req *ConfirmationRequest, answers <-chan Answer, onTick func(remaining int)) (ConfirmationState, error)
}

// InterfaceRefresher re-polls an interface after a network action.
type InterfaceRefresher interface {
	Refresh(ctx context.Context, name string) InterfaceSnapshot
}

// ProcessManager handles OS process lookups.
// Implementation: uses gopsutil for cross-platform support.
type ProcessManager interface {
	// FindByName returns PIDs of processes matching the pattern.
	FindByName(pattern string) ([]int, error)

	// IsRunning checks if a PID exists and is running.
	IsRunning(pid int) bool
}

// LockVerifier checks, after a successful lock command, that the session is locked.
type LockVerifier interface {
	VerifyLocked(ctx context.Context) bool
}

// KeyProvider abstracts the source of encryption keys.
type KeyProvider interface {
	// GetKey returns the encryption key bytes.
	GetKey() ([]byte, error)

	// StoreKey persists a new encryption key.
	StoreKey(key []byte) error

	// KeyExists checks if a key has been generated.
	KeyExists() bool
}

// ActionOrchestrator drives one intent through confirmation, execution and audit.
type ActionOrchestrator interface {
	// Perform runs intent to completion. Events, when non-nil, receive
	// ticks and messages as they happen.
	Perform(ctx context.Context, intent Intent, answers <-chan Answer, events chan<- ActionEvent) (*ActionOutcome, error)

	// RequestAction is the subscription form of Perform. The channel ends
	// with an EventCompleted and is then closed; callers must drain it or
	// cancel ctx, after which remaining events are dropped.
	RequestAction(ctx context.Context, intent Intent, answers <-chan Answer) <-chan ActionEvent
}
