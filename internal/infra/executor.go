package infra

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/syscmd/internal/domain"
)

const (
	// DefaultCommandTimeout bounds a single platform command.
	DefaultCommandTimeout = 30 * time.Second

	// waitDelay caps how long Wait blocks on inherited pipes after the process is killed.
	waitDelay = 2 * time.Second
)

// CommandExecutorImpl implements domain.CommandExecutor with os/exec.
// Commands run as argv lists; nothing is ever passed through a shell.
type CommandExecutorImpl struct {
	timeout time.Duration
	logger  *zap.Logger
}

// NewCommandExecutor creates an executor. A non-positive timeout uses DefaultCommandTimeout.
func NewCommandExecutor(timeout time.Duration, logger *zap.Logger) *CommandExecutorImpl {
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	return &CommandExecutorImpl{
		timeout: timeout,
		logger:  logger,
	}
}

// Execute runs spec. When the primary cannot be started and a fallback exists,
// the fallback runs instead. A non-zero exit never triggers the fallback.
func (e *CommandExecutorImpl) Execute(ctx context.Context, spec domain.CommandSpec) domain.ExecutionResult {
	result := e.run(ctx, spec)
	if result.ErrorKind == domain.ErrKindCommandNotFound && spec.Fallback != nil {
		e.logger.Info("command unavailable, trying fallback",
			zap.String("command", spec.Path),
			zap.String("fallback", spec.Fallback.Path))
		return e.Execute(ctx, *spec.Fallback)
	}
	return result
}

func (e *CommandExecutorImpl) run(ctx context.Context, spec domain.CommandSpec) domain.ExecutionResult {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, spec.Path, spec.Args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	result := domain.ExecutionResult{Command: spec.String(), ExitCode: -1}
	start := time.Now()

	if err := cmd.Start(); err != nil {
		result.Duration = time.Since(start)
		result.Stderr = err.Error()
		if ctx.Err() != nil {
			result.ErrorKind = domain.ErrKindCommandTimedOut
		} else {
			result.ErrorKind = domain.ErrKindCommandNotFound
		}
		e.logger.Debug("command did not start",
			zap.String("command", result.Command),
			zap.Error(err))
		return result
	}

	err := cmd.Wait()
	result.Duration = time.Since(start)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	switch {
	case err == nil:
		result.Succeeded = true
		result.ExitCode = 0
		result.ErrorKind = domain.ErrKindNone
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		result.ErrorKind = domain.ErrKindCommandTimedOut
	default:
		result.ErrorKind = domain.ErrKindCommandFailed
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
		if result.Stderr == "" {
			result.Stderr = err.Error()
		}
	}

	e.logger.Debug("command finished",
		zap.String("command", result.Command),
		zap.Bool("succeeded", result.Succeeded),
		zap.Int("exit_code", result.ExitCode),
		zap.Duration("duration", result.Duration))

	return result
}

// Ensure CommandExecutorImpl implements domain.CommandExecutor.
var _ domain.CommandExecutor = (*CommandExecutorImpl)(nil)
