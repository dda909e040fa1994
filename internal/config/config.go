// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AuditBackend selects the audit log implementation.
type AuditBackend string

const (
	AuditBackendFile      AuditBackend = "file"
	AuditBackendEncrypted AuditBackend = "encrypted"
)

const (
	DefaultCommandTimeout   = 30 * time.Second
	DefaultCountdownSeconds = 10
	DefaultPollInterval     = 5 * time.Second
	DefaultAuditLogName     = "syscommander.log"
	DefaultLogLevel         = "warn"
)

// Config holds every tunable setting. Zero values are never used; Load fills defaults.
type Config struct {
	DataDir          string
	AuditLogPath     string
	AuditBackend     AuditBackend
	CommandTimeout   time.Duration
	CountdownSeconds int
	PollInterval     time.Duration
	DiskPath         string // Empty: platform default
	VerifyLock       bool
	LogFile          string // Empty: stderr
	LogLevel         string
	Interface        string // Preselected interface
}

// Load reads .env from the working directory (if present), then the environment.
func Load(defaultDataDir string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv(defaultDataDir)
}

// FromEnv builds a Config from SYSCMD_* variables.
func FromEnv(defaultDataDir string) (*Config, error) {
	dataDir := getenv("SYSCMD_DATA_DIR", defaultDataDir)

	cfg := &Config{
		DataDir:      dataDir,
		AuditLogPath: getenv("SYSCMD_AUDIT_LOG", filepath.Join(dataDir, DefaultAuditLogName)),
		AuditBackend: AuditBackend(strings.ToLower(getenv("SYSCMD_AUDIT_BACKEND", string(AuditBackendFile)))),
		DiskPath:     os.Getenv("SYSCMD_DISK_PATH"),
		LogFile:      os.Getenv("SYSCMD_LOG_FILE"),
		LogLevel:     strings.ToLower(getenv("SYSCMD_LOG_LEVEL", DefaultLogLevel)),
		Interface:    os.Getenv("SYSCMD_INTERFACE"),
	}

	var err error
	if cfg.CommandTimeout, err = getDuration("SYSCMD_COMMAND_TIMEOUT", DefaultCommandTimeout); err != nil {
		return nil, err
	}
	if cfg.PollInterval, err = getDuration("SYSCMD_POLL_INTERVAL", DefaultPollInterval); err != nil {
		return nil, err
	}
	if cfg.CountdownSeconds, err = getInt("SYSCMD_COUNTDOWN_SECONDS", DefaultCountdownSeconds); err != nil {
		return nil, err
	}
	if cfg.VerifyLock, err = getBool("SYSCMD_VERIFY_LOCK", false); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the components cannot run with.
func (c *Config) Validate() error {
	switch c.AuditBackend {
	case AuditBackendFile, AuditBackendEncrypted:
	default:
		return fmt.Errorf("SYSCMD_AUDIT_BACKEND: unknown backend %q (want file or encrypted)", c.AuditBackend)
	}
	if c.DataDir == "" {
		return fmt.Errorf("SYSCMD_DATA_DIR: empty data directory")
	}
	if c.CommandTimeout <= 0 {
		return fmt.Errorf("SYSCMD_COMMAND_TIMEOUT: must be positive, got %s", c.CommandTimeout)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("SYSCMD_POLL_INTERVAL: must be positive, got %s", c.PollInterval)
	}
	if c.CountdownSeconds < 1 {
		return fmt.Errorf("SYSCMD_COUNTDOWN_SECONDS: must be at least 1, got %d", c.CountdownSeconds)
	}
	return nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err == nil {
		return godotenv.Load(path)
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getDuration accepts Go durations ("30s") or whole seconds ("30").
func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
