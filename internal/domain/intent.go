package domain

import "fmt"

// IntentKind enumerates the supported privileged operations.
type IntentKind string

const (
	IntentLock          IntentKind = "lock"
	IntentLogout        IntentKind = "logout"
	IntentRestart       IntentKind = "restart"
	IntentShutdown      IntentKind = "shutdown"
	IntentInterfaceUp   IntentKind = "interface-up"
	IntentInterfaceDown IntentKind = "interface-down"
	IntentOpenFirewall  IntentKind = "open-firewall"
)

// AllIntentKinds lists every kind, in display order.
var AllIntentKinds = []IntentKind{
	IntentLock,
	IntentLogout,
	IntentRestart,
	IntentShutdown,
	IntentInterfaceUp,
	IntentInterfaceDown,
	IntentOpenFirewall,
}

// Intent is an abstract user request. It is a value type and never mutated.
type Intent struct {
	Kind      IntentKind
	Interface string // Only set for interface intents
}

func Lock() Intent                 { return Intent{Kind: IntentLock} }
func Logout() Intent               { return Intent{Kind: IntentLogout} }
func Restart() Intent              { return Intent{Kind: IntentRestart} }
func Shutdown() Intent             { return Intent{Kind: IntentShutdown} }
func OpenFirewallSettings() Intent { return Intent{Kind: IntentOpenFirewall} }

// InterfaceUp brings the named interface online.
func InterfaceUp(name string) Intent {
	return Intent{Kind: IntentInterfaceUp, Interface: name}
}

// InterfaceDown takes the named interface offline.
func InterfaceDown(name string) Intent {
	return Intent{Kind: IntentInterfaceDown, Interface: name}
}

// ParseIntent builds an Intent from its kind string.
func ParseIntent(kind, iface string) (Intent, error) {
	switch IntentKind(kind) {
	case IntentLock, IntentLogout, IntentRestart, IntentShutdown, IntentOpenFirewall:
		return Intent{Kind: IntentKind(kind)}, nil
	case IntentInterfaceUp, IntentInterfaceDown:
		return Intent{Kind: IntentKind(kind), Interface: iface}, nil
	default:
		return Intent{}, fmt.Errorf("unknown intent: %q", kind)
	}
}

// WithInterface returns a copy bound to the given interface.
func (i Intent) WithInterface(name string) Intent {
	i.Interface = name
	return i
}

// TargetsInterface reports whether the intent needs a selected interface.
func (i Intent) TargetsInterface() bool {
	return i.Kind == IntentInterfaceUp || i.Kind == IntentInterfaceDown
}

// RequiresCountdown reports whether the intent is disruptive enough to be gated by
// the countdown confirmation (which proceeds on timeout) instead of a yes/no prompt.
func (i Intent) RequiresCountdown() bool {
	switch i.Kind {
	case IntentInterfaceUp, IntentInterfaceDown, IntentRestart, IntentShutdown:
		return true
	default:
		return false
	}
}

// AffectsNetwork reports whether the prober should re-poll after execution.
func (i Intent) AffectsNetwork() bool {
	return i.TargetsInterface()
}

// RequiresPrivilege reports whether the platform tool needs admin/root.
func (i Intent) RequiresPrivilege() bool {
	switch i.Kind {
	case IntentInterfaceUp, IntentInterfaceDown, IntentRestart, IntentShutdown:
		return true
	default:
		return false
	}
}

// Title is the short action name used in prompts and audit entries.
func (i Intent) Title() string {
	switch i.Kind {
	case IntentLock:
		return "Lock"
	case IntentLogout:
		return "Logout"
	case IntentRestart:
		return "Restart"
	case IntentShutdown:
		return "Shutdown"
	case IntentInterfaceUp:
		return "Enable network"
	case IntentInterfaceDown:
		return "Disable network"
	case IntentOpenFirewall:
		return "Open firewall settings"
	default:
		return string(i.Kind)
	}
}

// Prompt is the confirmation question for the intent.
func (i Intent) Prompt() string {
	switch i.Kind {
	case IntentLock:
		return "Lock the computer now?"
	case IntentLogout:
		return "Log out now?"
	case IntentRestart:
		return "Restart the computer now?"
	case IntentShutdown:
		return "Shut down the computer now?"
	case IntentInterfaceUp:
		return fmt.Sprintf("Really enable interface '%s'?", i.Interface)
	case IntentInterfaceDown:
		return fmt.Sprintf("Really disable interface '%s'?", i.Interface)
	case IntentOpenFirewall:
		return "Open the firewall settings?"
	default:
		return fmt.Sprintf("Run %s?", i.Kind)
	}
}

// CompletedDescription is the audit text recorded after a successful run.
func (i Intent) CompletedDescription() string {
	switch i.Kind {
	case IntentLock:
		return "Computer locked"
	case IntentLogout:
		return "User logged out"
	case IntentRestart:
		return "Computer restarted"
	case IntentShutdown:
		return "Computer shut down"
	case IntentInterfaceUp:
		return fmt.Sprintf("Network '%s' enabled", i.Interface)
	case IntentInterfaceDown:
		return fmt.Sprintf("Network '%s' disabled", i.Interface)
	case IntentOpenFirewall:
		return "Firewall settings opened"
	default:
		return fmt.Sprintf("Action '%s' completed", i.Kind)
	}
}

func (i Intent) String() string {
	if i.Interface != "" {
		return fmt.Sprintf("%s(%s)", i.Kind, i.Interface)
	}
	return string(i.Kind)
}
