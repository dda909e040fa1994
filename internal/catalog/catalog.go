// Package catalog maps abstract intents to concrete platform invocations.
// Each OS family has its own PlatformActions table; nothing outside this
// package knows a platform command string.
package catalog

import (
	"fmt"
	"path/filepath"

	"github.com/eliteGoblin/syscmd/internal/domain"
)

// DefaultSysfsRoot is where Linux exposes per-interface state.
const DefaultSysfsRoot = "/sys"

// PlatformActions is the command table for one OS family.
type PlatformActions interface {
	// Profile returns the OS family this table serves.
	Profile() domain.PlatformProfile

	// Action returns the invocation for intent, false if the OS has none.
	Action(intent domain.Intent) (domain.CommandSpec, bool)

	// Query returns the invocation for a state query, false if the OS has none.
	Query(kind domain.QueryKind) (domain.CommandSpec, bool)
}

// Catalog holds the per-platform tables.
type Catalog struct {
	platforms map[domain.PlatformProfile]PlatformActions
	sysfsRoot string
}

// New creates a catalog with the Windows and Linux tables.
func New() *Catalog {
	return NewWithSysfsRoot(DefaultSysfsRoot)
}

// NewWithSysfsRoot creates the default catalog reading operstate under root (for testing).
func NewWithSysfsRoot(root string) *Catalog {
	c := NewWithPlatforms(NewWindowsActions(), NewLinuxActions())
	c.sysfsRoot = root
	return c
}

// NewWithPlatforms creates a catalog with custom tables (for testing).
func NewWithPlatforms(platforms ...PlatformActions) *Catalog {
	c := &Catalog{
		platforms: make(map[domain.PlatformProfile]PlatformActions),
		sysfsRoot: DefaultSysfsRoot,
	}
	for _, p := range platforms {
		c.Register(p)
	}
	return c
}

// Register adds or replaces the table for a platform.
func (c *Catalog) Register(p PlatformActions) {
	c.platforms[p.Profile()] = p
}

// Supports reports whether any table is registered for profile.
func (c *Catalog) Supports(profile domain.PlatformProfile) bool {
	_, ok := c.platforms[profile]
	return ok
}

// Resolve returns the invocation for intent on profile.
// Interface names are validated before any lookup.
func (c *Catalog) Resolve(intent domain.Intent, profile domain.PlatformProfile) (domain.CommandSpec, error) {
	if intent.TargetsInterface() {
		if err := ValidateInterfaceName(intent.Interface); err != nil {
			return domain.CommandSpec{}, err
		}
	}

	p, ok := c.platforms[profile]
	if !ok {
		return domain.CommandSpec{}, fmt.Errorf("%s on %s: %w", intent, profile, domain.ErrUnsupportedOnPlatform)
	}

	spec, ok := p.Action(intent)
	if !ok {
		return domain.CommandSpec{}, fmt.Errorf("%s on %s: %w", intent, profile, domain.ErrUnsupportedOnPlatform)
	}
	return spec, nil
}

// Query returns the invocation for a state query on profile.
func (c *Catalog) Query(kind domain.QueryKind, profile domain.PlatformProfile) (domain.CommandSpec, error) {
	p, ok := c.platforms[profile]
	if !ok {
		return domain.CommandSpec{}, fmt.Errorf("query %s on %s: %w", kind, profile, domain.ErrUnsupportedOnPlatform)
	}
	spec, ok := p.Query(kind)
	if !ok {
		return domain.CommandSpec{}, fmt.Errorf("query %s on %s: %w", kind, profile, domain.ErrUnsupportedOnPlatform)
	}
	return spec, nil
}

// OperStatePath returns the Linux operstate file for an interface.
func (c *Catalog) OperStatePath(name string) string {
	return filepath.Join(c.sysfsRoot, "class", "net", name, "operstate")
}

// Ensure Catalog implements domain.ActionCatalog.
var _ domain.ActionCatalog = (*Catalog)(nil)
