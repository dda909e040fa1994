package infra

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/eliteGoblin/syscmd/internal/domain"
)

// DefaultAuditLogName is the audit file created in the data directory.
const DefaultAuditLogName = "syscommander.log"

// FileAuditLog implements domain.AuditLog as a plain text file, one entry per line:
//
//	[2024-03-09 07:05:01] Network 'eth0' disabled
//
// Appends are serialized by a mutex within the process and by an advisory
// file lock across processes. The file is never rotated.
type FileAuditLog struct {
	path   string
	mu     sync.Mutex
	clock  *monotonicClock
	seeded bool
}

// NewFileAuditLog creates an audit log at path. The file is created on first append.
func NewFileAuditLog(path string) *FileAuditLog {
	return NewFileAuditLogWithClock(path, time.Now)
}

// NewFileAuditLogWithClock creates an audit log with a custom time source (for testing).
func NewFileAuditLogWithClock(path string, now func() time.Time) *FileAuditLog {
	return &FileAuditLog{
		path:  path,
		clock: newMonotonicClock(now),
	}
}

// Path returns the file location.
func (l *FileAuditLog) Path() string {
	return l.path
}

// Append stamps description with local time and appends it durably.
func (l *FileAuditLog) Append(description string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create audit log directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if err := lockFile(f); err != nil {
		return fmt.Errorf("failed to lock audit log: %w", err)
	}
	defer func() { _ = unlockFile(f) }()

	if !l.seeded {
		l.seedFromFile()
	}

	entry := domain.AuditEntry{
		Timestamp:   l.clock.Now(),
		Description: flattenDescription(description),
	}
	if _, err := f.WriteString(entry.String() + "\n"); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync audit log: %w", err)
	}
	return nil
}

// seedFromFile keeps new stamps at or after the newest persisted entry.
func (l *FileAuditLog) seedFromFile() {
	l.seeded = true
	data, err := os.ReadFile(l.path)
	if err != nil {
		return
	}
	if entries := ParseAuditLog(string(data)); len(entries) > 0 {
		l.clock.Seed(entries[len(entries)-1].Timestamp)
	}
}

// ReadAll returns the full log text. A log that was never written reads as "".
func (l *FileAuditLog) ReadAll() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read audit log: %w", err)
	}
	return string(data), nil
}

// Entries returns the parsed log in append order. Malformed lines are skipped.
func (l *FileAuditLog) Entries() ([]domain.AuditEntry, error) {
	text, err := l.ReadAll()
	if err != nil {
		return nil, err
	}
	return ParseAuditLog(text), nil
}

// ParseAuditLog parses text in the audit line format.
func ParseAuditLog(text string) []domain.AuditEntry {
	var entries []domain.AuditEntry
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if e, ok := ParseAuditLine(scanner.Text()); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

// ParseAuditLine parses one "[YYYY-MM-DD HH:MM:SS] description" line.
func ParseAuditLine(line string) (domain.AuditEntry, bool) {
	line = strings.TrimRight(line, "\r")
	stampLen := len(domain.AuditTimeLayout)
	if len(line) < stampLen+3 || line[0] != '[' || line[stampLen+1] != ']' || line[stampLen+2] != ' ' {
		return domain.AuditEntry{}, false
	}
	ts, err := time.ParseInLocation(domain.AuditTimeLayout, line[1:stampLen+1], time.Local)
	if err != nil {
		return domain.AuditEntry{}, false
	}
	return domain.AuditEntry{Timestamp: ts, Description: line[stampLen+3:]}, true
}

// flattenDescription keeps one entry on one line.
func flattenDescription(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
	return strings.TrimSpace(s)
}

// monotonicClock truncates to the audit resolution and never goes backwards.
type monotonicClock struct {
	now  func() time.Time
	last time.Time
}

func newMonotonicClock(now func() time.Time) *monotonicClock {
	return &monotonicClock{now: now}
}

// Now must be called with the owning log's lock held.
func (c *monotonicClock) Now() time.Time {
	t := c.now().Truncate(time.Second)
	if t.Before(c.last) {
		t = c.last
	}
	c.last = t
	return t
}

// Seed raises the floor, e.g. to the newest persisted entry.
func (c *monotonicClock) Seed(t time.Time) {
	if t.After(c.last) {
		c.last = t
	}
}

// Ensure FileAuditLog implements domain.AuditLog.
var _ domain.AuditLog = (*FileAuditLog)(nil)
