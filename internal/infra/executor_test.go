package infra

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/eliteGoblin/syscmd/internal/domain"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX shell utilities")
	}
}

func TestCommandExecutor_Success(t *testing.T) {
	skipOnWindows(t)
	e := NewCommandExecutor(5*time.Second, zap.NewNop())

	res := e.Execute(context.Background(), domain.CommandSpec{Path: "sh", Args: []string{"-c", "echo hello"}})

	assert.True(t, res.Succeeded)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hello\n", res.Stdout)
	assert.Equal(t, domain.ErrKindNone, res.ErrorKind)
	assert.NoError(t, res.Err())
}

func TestCommandExecutor_NonZeroExit(t *testing.T) {
	skipOnWindows(t)
	e := NewCommandExecutor(5*time.Second, zap.NewNop())

	res := e.Execute(context.Background(), domain.CommandSpec{
		Path: "sh",
		Args: []string{"-c", "echo denied >&2; exit 3"},
	})

	assert.False(t, res.Succeeded)
	assert.Equal(t, domain.ErrKindCommandFailed, res.ErrorKind)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "denied\n", res.Stderr)
}

func TestCommandExecutor_NotFound(t *testing.T) {
	e := NewCommandExecutor(5*time.Second, zap.NewNop())

	res := e.Execute(context.Background(), domain.CommandSpec{Path: "syscmd-definitely-missing-binary"})

	assert.False(t, res.Succeeded)
	assert.Equal(t, domain.ErrKindCommandNotFound, res.ErrorKind)
	assert.Equal(t, -1, res.ExitCode)
}

func TestCommandExecutor_FallbackOnlyWhenPrimaryMissing(t *testing.T) {
	skipOnWindows(t)
	e := NewCommandExecutor(5*time.Second, zap.NewNop())

	missing := domain.CommandSpec{
		Path:     "syscmd-definitely-missing-binary",
		Fallback: &domain.CommandSpec{Path: "sh", Args: []string{"-c", "echo fallback"}},
	}
	res := e.Execute(context.Background(), missing)
	assert.True(t, res.Succeeded)
	assert.Equal(t, "fallback\n", res.Stdout)
	assert.Equal(t, "sh -c echo fallback", res.Command)

	failing := domain.CommandSpec{
		Path:     "sh",
		Args:     []string{"-c", "exit 1"},
		Fallback: &domain.CommandSpec{Path: "sh", Args: []string{"-c", "echo fallback"}},
	}
	res = e.Execute(context.Background(), failing)
	assert.False(t, res.Succeeded)
	assert.Equal(t, domain.ErrKindCommandFailed, res.ErrorKind)
	assert.Equal(t, "sh -c exit 1", res.Command)
}

func TestCommandExecutor_Timeout(t *testing.T) {
	skipOnWindows(t)
	e := NewCommandExecutor(100*time.Millisecond, zap.NewNop())

	start := time.Now()
	res := e.Execute(context.Background(), domain.CommandSpec{Path: "sleep", Args: []string{"5"}})

	assert.False(t, res.Succeeded)
	assert.Equal(t, domain.ErrKindCommandTimedOut, res.ErrorKind)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestNewCommandExecutor_DefaultTimeout(t *testing.T) {
	e := NewCommandExecutor(0, zap.NewNop())
	assert.Equal(t, DefaultCommandTimeout, e.timeout)
}
