package catalog

import "github.com/eliteGoblin/syscmd/internal/domain"

// LinuxActions implements PlatformActions for the Linux family.
// Interface and power commands need root; the caller is expected to have it.
type LinuxActions struct{}

// NewLinuxActions creates the Linux command table.
func NewLinuxActions() *LinuxActions {
	return &LinuxActions{}
}

func (l *LinuxActions) Profile() domain.PlatformProfile {
	return domain.PlatformLinux
}

// Action returns the Linux invocation for intent.
func (l *LinuxActions) Action(intent domain.Intent) (domain.CommandSpec, bool) {
	switch intent.Kind {
	case domain.IntentLock:
		// Display-manager lock only when the screensaver tool is missing.
		return domain.CommandSpec{
			Path: "gnome-screensaver-command",
			Args: []string{"-l"},
			Fallback: &domain.CommandSpec{
				Path: "dm-tool",
				Args: []string{"lock"},
			},
		}, true
	case domain.IntentLogout:
		return domain.CommandSpec{Path: "gnome-session-quit", Args: []string{"--logout", "--no-prompt"}}, true
	case domain.IntentRestart:
		return domain.CommandSpec{Path: "systemctl", Args: []string{"reboot"}}, true
	case domain.IntentShutdown:
		return domain.CommandSpec{Path: "systemctl", Args: []string{"poweroff"}}, true
	case domain.IntentInterfaceUp:
		return ipLinkSet(intent.Interface, "up"), true
	case domain.IntentInterfaceDown:
		return ipLinkSet(intent.Interface, "down"), true
	case domain.IntentOpenFirewall:
		// Distribution dependent; firewalld's front-end first.
		return domain.CommandSpec{
			Path: "firewall-config",
			Fallback: &domain.CommandSpec{
				Path: "gnome-control-center",
				Args: []string{"firewall"},
			},
		}, true
	default:
		return domain.CommandSpec{}, false
	}
}

// Query returns the Linux invocation for a state query.
func (l *LinuxActions) Query(kind domain.QueryKind) (domain.CommandSpec, bool) {
	switch kind {
	case domain.QueryListInterfaces:
		return domain.CommandSpec{Path: "ip", Args: []string{"-o", "link", "show"}}, true
	default:
		return domain.CommandSpec{}, false
	}
}

// ipLinkSet uses "dev" so a name like "up" is never parsed as a keyword.
func ipLinkSet(name, state string) domain.CommandSpec {
	return domain.CommandSpec{
		Path: "ip",
		Args: []string{"link", "set", "dev", name, state},
	}
}

// Ensure LinuxActions implements PlatformActions.
var _ PlatformActions = (*LinuxActions)(nil)
