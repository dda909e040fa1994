// Package infra implements infrastructure concerns (execution, probing, audit storage).
package infra

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"

	"github.com/eliteGoblin/syscmd/internal/domain"
)

// ExecMode represents the privilege level the process runs with.
type ExecMode string

const (
	// ExecModeUser runs without admin/root rights.
	ExecModeUser ExecMode = "user"
	// ExecModeSystem runs elevated (root, or an elevated Windows token).
	ExecModeSystem ExecMode = "system"
)

// String returns a human-readable description of the mode.
func (m ExecMode) String() string {
	switch m {
	case ExecModeSystem:
		return "system (elevated)"
	case ExecModeUser:
		return "user (not elevated)"
	default:
		return "unknown"
	}
}

const appDirName = "syscmd"

// RuntimeInfo is resolved once at startup and read-only afterward.
type RuntimeInfo struct {
	Profile  domain.PlatformProfile
	GOOS     string
	Mode     ExecMode
	Elevated bool
	HomeDir  string // Invoking user's home, even under sudo
	DataDir  string // Where the audit log and key live
}

// DetectRuntime determines the platform profile and elevation of this process.
func DetectRuntime() *RuntimeInfo {
	return detectRuntime(runtime.GOOS, isElevated(), GetRealUserHome())
}

func detectRuntime(goos string, elevated bool, home string) *RuntimeInfo {
	info := &RuntimeInfo{
		Profile:  domain.ProfileForGOOS(goos),
		GOOS:     goos,
		Mode:     ExecModeUser,
		Elevated: elevated,
		HomeDir:  home,
		DataDir:  filepath.Join(home, "."+appDirName),
	}

	if elevated {
		info.Mode = ExecModeSystem
		info.DataDir = systemDataDir(goos)
	}
	return info
}

func systemDataDir(goos string) string {
	if goos == "windows" {
		base := os.Getenv("ProgramData")
		if base == "" {
			base = `C:\ProgramData`
		}
		return filepath.Join(base, appDirName)
	}
	return filepath.Join("/var/lib", appDirName)
}

// GetRealUserHome returns the real user's home directory, even when running under sudo.
// Under sudo, os.UserHomeDir() returns root's home, so SUDO_USER is consulted first.
func GetRealUserHome() string {
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" {
		if u, err := user.Lookup(sudoUser); err == nil {
			return u.HomeDir
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return os.TempDir()
	}
	return home
}
