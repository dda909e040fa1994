package catalog

import "github.com/eliteGoblin/syscmd/internal/domain"

// WindowsActions implements PlatformActions for the Windows family.
type WindowsActions struct{}

// NewWindowsActions creates the Windows command table.
func NewWindowsActions() *WindowsActions {
	return &WindowsActions{}
}

func (w *WindowsActions) Profile() domain.PlatformProfile {
	return domain.PlatformWindows
}

// Action returns the Windows invocation for intent.
// netsh receives the interface name as its own argument; exec quotes it.
func (w *WindowsActions) Action(intent domain.Intent) (domain.CommandSpec, bool) {
	switch intent.Kind {
	case domain.IntentLock:
		return domain.CommandSpec{Path: "rundll32.exe", Args: []string{"user32.dll,LockWorkStation"}}, true
	case domain.IntentLogout:
		return domain.CommandSpec{Path: "shutdown", Args: []string{"/l"}}, true
	case domain.IntentRestart:
		return domain.CommandSpec{Path: "shutdown", Args: []string{"/r", "/t", "0"}}, true
	case domain.IntentShutdown:
		return domain.CommandSpec{Path: "shutdown", Args: []string{"/s", "/t", "0"}}, true
	case domain.IntentInterfaceUp:
		return netshSetInterface(intent.Interface, "admin=enabled"), true
	case domain.IntentInterfaceDown:
		return netshSetInterface(intent.Interface, "admin=disabled"), true
	case domain.IntentOpenFirewall:
		return domain.CommandSpec{Path: "control", Args: []string{"firewall.cpl"}}, true
	default:
		return domain.CommandSpec{}, false
	}
}

// Query returns the Windows invocation for a state query.
func (w *WindowsActions) Query(kind domain.QueryKind) (domain.CommandSpec, bool) {
	switch kind {
	case domain.QueryListInterfaces:
		return domain.CommandSpec{Path: "netsh", Args: []string{"interface", "show", "interface"}}, true
	default:
		return domain.CommandSpec{}, false
	}
}

func netshSetInterface(name, state string) domain.CommandSpec {
	return domain.CommandSpec{
		Path: "netsh",
		Args: []string{"interface", "set", "interface", name, state},
	}
}

// Ensure WindowsActions implements PlatformActions.
var _ PlatformActions = (*WindowsActions)(nil)
