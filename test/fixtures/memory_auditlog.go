package fixtures

import (
	"strings"
	"sync"
	"time"

	"github.com/eliteGoblin/syscmd/internal/domain"
)

// MemoryAuditLog implements domain.AuditLog in memory.
type MemoryAuditLog struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
	err     error
}

// NewMemoryAuditLog creates an empty log.
func NewMemoryAuditLog() *MemoryAuditLog {
	return &MemoryAuditLog{}
}

// FailWith makes every later Append return err.
func (m *MemoryAuditLog) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MemoryAuditLog) Append(description string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, domain.AuditEntry{
		Timestamp:   time.Now().Truncate(time.Second),
		Description: description,
	})
	return nil
}

func (m *MemoryAuditLog) ReadAll() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var b strings.Builder
	for _, e := range m.entries {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func (m *MemoryAuditLog) Entries() ([]domain.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.AuditEntry(nil), m.entries...), nil
}

// Descriptions returns the recorded descriptions in order.
func (m *MemoryAuditLog) Descriptions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.Description)
	}
	return out
}

// Ensure MemoryAuditLog implements domain.AuditLog.
var _ domain.AuditLog = (*MemoryAuditLog)(nil)
