//go:build windows

package infra

import "golang.org/x/sys/windows"

// isElevated checks the process token, not group membership: an admin
// running a non-elevated shell is reported as not elevated.
func isElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}
