package catalog

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/eliteGoblin/syscmd/internal/domain"
)

// maxInterfaceNameLen covers Windows friendly names; Linux caps at 15.
const maxInterfaceNameLen = 256

// ValidateInterfaceName rejects names that a platform tool could read as a flag,
// or that would escape the sysfs directory. Spaces are allowed (Windows names).
func ValidateInterfaceName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty", domain.ErrInvalidInterfaceName)
	}
	if len(name) > maxInterfaceNameLen {
		return fmt.Errorf("%w: too long", domain.ErrInvalidInterfaceName)
	}
	if strings.HasPrefix(name, "-") {
		return fmt.Errorf("%w: %q starts with '-'", domain.ErrInvalidInterfaceName, name)
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q contains a path element", domain.ErrInvalidInterfaceName, name)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: %q contains control characters", domain.ErrInvalidInterfaceName, name)
		}
	}
	return nil
}
