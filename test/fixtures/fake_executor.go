// Package fixtures provides test helpers shared by unit and integration tests.
package fixtures

import (
	"context"
	"sync"

	"github.com/eliteGoblin/syscmd/internal/domain"
)

// FakeExecutor implements domain.CommandExecutor without running anything.
// Results are keyed by the rendered command ("ip link set dev eth0 down").
// Unknown commands succeed with empty output.
type FakeExecutor struct {
	mu      sync.Mutex
	results map[string]domain.ExecutionResult
	calls   []domain.CommandSpec
	hook    func(domain.CommandSpec)
}

// NewFakeExecutor creates an executor where every command succeeds.
func NewFakeExecutor() *FakeExecutor {
	return &FakeExecutor{results: make(map[string]domain.ExecutionResult)}
}

// OnOutput makes command succeed with stdout.
func (f *FakeExecutor) OnOutput(command, stdout string) *FakeExecutor {
	return f.On(command, domain.ExecutionResult{Succeeded: true, Stdout: stdout})
}

// OnFailure makes command exit non-zero with stderr.
func (f *FakeExecutor) OnFailure(command string, exitCode int, stderr string) *FakeExecutor {
	return f.On(command, domain.ExecutionResult{
		ErrorKind: domain.ErrKindCommandFailed,
		ExitCode:  exitCode,
		Stderr:    stderr,
	})
}

// OnMissing makes command look absent, so a fallback (if any) runs.
func (f *FakeExecutor) OnMissing(command string) *FakeExecutor {
	return f.On(command, domain.ExecutionResult{
		ErrorKind: domain.ErrKindCommandNotFound,
		ExitCode:  -1,
		Stderr:    "executable file not found in $PATH",
	})
}

// On registers an arbitrary result for command.
func (f *FakeExecutor) On(command string, result domain.ExecutionResult) *FakeExecutor {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[command] = result
	return f
}

// OnExecute registers a hook called for every invocation, before the result is returned.
func (f *FakeExecutor) OnExecute(hook func(domain.CommandSpec)) *FakeExecutor {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hook = hook
	return f
}

// Execute records spec and returns the registered result.
func (f *FakeExecutor) Execute(ctx context.Context, spec domain.CommandSpec) domain.ExecutionResult {
	f.mu.Lock()
	f.calls = append(f.calls, spec)
	result, ok := f.results[spec.String()]
	hook := f.hook
	f.mu.Unlock()

	if hook != nil {
		hook(spec)
	}

	if !ok {
		result = domain.ExecutionResult{Succeeded: true}
	}
	result.Command = spec.String()

	if result.ErrorKind == domain.ErrKindCommandNotFound && spec.Fallback != nil {
		return f.Execute(ctx, *spec.Fallback)
	}
	return result
}

// Commands returns every rendered command executed so far, in order.
func (f *FakeExecutor) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.String())
	}
	return out
}

// Ran reports whether command was executed at least once.
func (f *FakeExecutor) Ran(command string) bool {
	for _, c := range f.Commands() {
		if c == command {
			return true
		}
	}
	return false
}

// Ensure FakeExecutor implements domain.CommandExecutor.
var _ domain.CommandExecutor = (*FakeExecutor)(nil)
