package catalog

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eliteGoblin/syscmd/internal/domain"
)

func allIntents() []domain.Intent {
	return []domain.Intent{
		domain.Lock(),
		domain.Logout(),
		domain.Restart(),
		domain.Shutdown(),
		domain.InterfaceUp("eth0"),
		domain.InterfaceDown("eth0"),
		domain.OpenFirewallSettings(),
	}
}

func TestCatalog_TotalOverSupportedProfiles(t *testing.T) {
	c := New()

	for _, profile := range []domain.PlatformProfile{domain.PlatformWindows, domain.PlatformLinux} {
		for _, intent := range allIntents() {
			t.Run(string(profile)+"/"+intent.String(), func(t *testing.T) {
				spec, err := c.Resolve(intent, profile)
				require.NoError(t, err)
				assert.NotEmpty(t, spec.Path)
			})
		}
	}
}

func TestCatalog_UnsupportedProfile(t *testing.T) {
	c := New()

	for _, intent := range allIntents() {
		_, err := c.Resolve(intent, domain.PlatformUnsupported)
		assert.ErrorIs(t, err, domain.ErrUnsupportedOnPlatform, intent.String())
	}

	_, err := c.Query(domain.QueryListInterfaces, domain.PlatformUnsupported)
	assert.ErrorIs(t, err, domain.ErrUnsupportedOnPlatform)
}

func TestCatalog_UnknownIntentKind(t *testing.T) {
	c := New()
	_, err := c.Resolve(domain.Intent{Kind: "hibernate"}, domain.PlatformLinux)
	assert.ErrorIs(t, err, domain.ErrUnsupportedOnPlatform)
}

func TestCatalog_Commands(t *testing.T) {
	c := New()

	tests := []struct {
		name    string
		intent  domain.Intent
		profile domain.PlatformProfile
		want    string
	}{
		{"windows lock", domain.Lock(), domain.PlatformWindows, "rundll32.exe user32.dll,LockWorkStation"},
		{"windows logout", domain.Logout(), domain.PlatformWindows, "shutdown /l"},
		{"windows restart", domain.Restart(), domain.PlatformWindows, "shutdown /r /t 0"},
		{"windows shutdown", domain.Shutdown(), domain.PlatformWindows, "shutdown /s /t 0"},
		{"windows iface up", domain.InterfaceUp("Wi-Fi"), domain.PlatformWindows, "netsh interface set interface Wi-Fi admin=enabled"},
		{"windows iface down", domain.InterfaceDown("Wi-Fi"), domain.PlatformWindows, "netsh interface set interface Wi-Fi admin=disabled"},
		{"windows firewall", domain.OpenFirewallSettings(), domain.PlatformWindows, "control firewall.cpl"},
		{"linux lock", domain.Lock(), domain.PlatformLinux, "gnome-screensaver-command -l"},
		{"linux logout", domain.Logout(), domain.PlatformLinux, "gnome-session-quit --logout --no-prompt"},
		{"linux restart", domain.Restart(), domain.PlatformLinux, "systemctl reboot"},
		{"linux shutdown", domain.Shutdown(), domain.PlatformLinux, "systemctl poweroff"},
		{"linux iface up", domain.InterfaceUp("eth0"), domain.PlatformLinux, "ip link set dev eth0 up"},
		{"linux iface down", domain.InterfaceDown("eth0"), domain.PlatformLinux, "ip link set dev eth0 down"},
		{"linux firewall", domain.OpenFirewallSettings(), domain.PlatformLinux, "firewall-config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := c.Resolve(tt.intent, tt.profile)
			require.NoError(t, err)
			assert.Equal(t, tt.want, spec.String())
		})
	}
}

func TestCatalog_InterfaceNameIsOneArgument(t *testing.T) {
	c := New()

	spec, err := c.Resolve(domain.InterfaceDown("Ethernet 2"), domain.PlatformWindows)
	require.NoError(t, err)
	assert.Equal(t, []string{"interface", "set", "interface", "Ethernet 2", "admin=disabled"}, spec.Args)
}

func TestCatalog_Fallbacks(t *testing.T) {
	c := New()

	lock, err := c.Resolve(domain.Lock(), domain.PlatformLinux)
	require.NoError(t, err)
	require.NotNil(t, lock.Fallback)
	assert.Equal(t, "dm-tool lock", lock.Fallback.String())

	fw, err := c.Resolve(domain.OpenFirewallSettings(), domain.PlatformLinux)
	require.NoError(t, err)
	require.NotNil(t, fw.Fallback)
	assert.Equal(t, "gnome-control-center firewall", fw.Fallback.String())

	winLock, err := c.Resolve(domain.Lock(), domain.PlatformWindows)
	require.NoError(t, err)
	assert.Nil(t, winLock.Fallback)
}

func TestCatalog_RejectsInvalidInterfaceNames(t *testing.T) {
	c := New()

	for _, name := range []string{"", "  ", "-help", "../eth0", `a\b`, "eth0\n", "eth\x000"} {
		_, err := c.Resolve(domain.InterfaceDown(name), domain.PlatformLinux)
		assert.ErrorIs(t, err, domain.ErrInvalidInterfaceName, "%q", name)
	}
}

func TestCatalog_Query(t *testing.T) {
	c := New()

	win, err := c.Query(domain.QueryListInterfaces, domain.PlatformWindows)
	require.NoError(t, err)
	assert.Equal(t, "netsh interface show interface", win.String())

	linux, err := c.Query(domain.QueryListInterfaces, domain.PlatformLinux)
	require.NoError(t, err)
	assert.Equal(t, "ip -o link show", linux.String())

	_, err = c.Query("bogus", domain.PlatformLinux)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedOnPlatform))
}

func TestCatalog_OperStatePath(t *testing.T) {
	assert.Equal(t, filepath.Join("/sys", "class", "net", "eth0", "operstate"), New().OperStatePath("eth0"))

	root := t.TempDir()
	assert.Equal(t, filepath.Join(root, "class", "net", "wlan0", "operstate"), NewWithSysfsRoot(root).OperStatePath("wlan0"))
}

type stubActions struct{}

func (stubActions) Profile() domain.PlatformProfile { return domain.PlatformUnsupported }
func (stubActions) Action(domain.Intent) (domain.CommandSpec, bool) {
	return domain.CommandSpec{Path: "true"}, true
}
func (stubActions) Query(domain.QueryKind) (domain.CommandSpec, bool) {
	return domain.CommandSpec{}, false
}

func TestCatalog_Register(t *testing.T) {
	c := NewWithPlatforms()
	assert.False(t, c.Supports(domain.PlatformUnsupported))

	c.Register(stubActions{})
	assert.True(t, c.Supports(domain.PlatformUnsupported))

	spec, err := c.Resolve(domain.Lock(), domain.PlatformUnsupported)
	require.NoError(t, err)
	assert.Equal(t, "true", spec.Path)
}

func TestValidateInterfaceName(t *testing.T) {
	valid := []string{"eth0", "wlp2s0", "Wi-Fi", "Ethernet 2", "br-1a2b", "veth@if4"}
	for _, name := range valid {
		assert.NoError(t, ValidateInterfaceName(name), name)
	}

	invalid := []string{"", "-x", "--up", ".", "..", "a/b", `a\b`, "a\tb", "a\rb"}
	for _, name := range invalid {
		assert.ErrorIs(t, ValidateInterfaceName(name), domain.ErrInvalidInterfaceName, "%q", name)
	}
}
