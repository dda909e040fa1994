package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a failure for logging and audit.
type ErrorKind string

const (
	ErrKindNone             ErrorKind = ""
	ErrKindCommandNotFound  ErrorKind = "command_not_found"
	ErrKindCommandFailed    ErrorKind = "command_failed"
	ErrKindCommandTimedOut  ErrorKind = "command_timed_out"
	ErrKindUnsupported      ErrorKind = "unsupported_on_platform"
	ErrKindNoInterface      ErrorKind = "no_interface_selected"
	ErrKindProbeUnavailable ErrorKind = "probe_unavailable"
)

var (
	// ErrUnsupportedOnPlatform is informational: the intent has no command on this OS.
	ErrUnsupportedOnPlatform = errors.New("unsupported on this platform")

	// ErrNoInterfaceSelected is the precondition failure for interface intents.
	ErrNoInterfaceSelected = errors.New("no network interface selected")

	// ErrInvalidInterfaceName rejects names that could be read as flags or paths.
	ErrInvalidInterfaceName = errors.New("invalid interface name")

	// ErrUnknownInterface is returned when selecting a name the prober does not list.
	ErrUnknownInterface = errors.New("unknown network interface")

	// ErrProbeUnavailable marks a state query that could not be answered.
	ErrProbeUnavailable = errors.New("probe unavailable")

	// ErrAlreadyResolved is returned by a second resolution of a confirmation.
	ErrAlreadyResolved = errors.New("confirmation already resolved")

	// ErrConfirmationInProgress is returned when a second confirmation is started.
	ErrConfirmationInProgress = errors.New("another confirmation is in progress")

	// ErrActionInProgress is returned when an action is requested while another runs.
	ErrActionInProgress = errors.New("another action is in progress")

	// ErrTimerFailed cancels a countdown whose ticker could not run.
	ErrTimerFailed = errors.New("countdown timer failed")
)

// CommandError describes a failed command execution.
type CommandError struct {
	Kind     ErrorKind
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	var b strings.Builder
	switch e.Kind {
	case ErrKindCommandNotFound:
		fmt.Fprintf(&b, "command not found: %s", e.Command)
	case ErrKindCommandTimedOut:
		fmt.Fprintf(&b, "command timed out: %s", e.Command)
	default:
		fmt.Fprintf(&b, "command failed (exit %d): %s", e.ExitCode, e.Command)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		fmt.Fprintf(&b, ": %s", stderr)
	}
	return b.String()
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
