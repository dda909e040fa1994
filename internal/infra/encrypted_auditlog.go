package infra

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	sqlcipher "github.com/mutecomm/go-sqlcipher/v4"

	"github.com/eliteGoblin/syscmd/internal/domain"
)

// Ensure sqlcipher driver is registered.
var _ = sqlcipher.ErrBusy

// EncryptedAuditDBName is the database file created in the data directory.
const EncryptedAuditDBName = "audit.db"

// EncryptedAuditLog implements domain.AuditLog on a SQLCipher database.
// ReadAll renders the same line format as FileAuditLog.
type EncryptedAuditLog struct {
	db     *sql.DB
	dbPath string
	mu     sync.Mutex
	clock  *monotonicClock
}

// NewEncryptedAuditLog opens (or creates) the encrypted audit database in dataDir.
// The key is used as the SQLCipher passphrase via PRAGMA key.
func NewEncryptedAuditLog(dataDir string, key []byte) (*EncryptedAuditLog, error) {
	return NewEncryptedAuditLogWithClock(dataDir, key, time.Now)
}

// NewEncryptedAuditLogWithClock is NewEncryptedAuditLog with a custom time source (for testing).
func NewEncryptedAuditLogWithClock(dataDir string, key []byte, now func() time.Time) (*EncryptedAuditLog, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, EncryptedAuditDBName)
	dsn := fmt.Sprintf("%s?_pragma_key=x'%s'&_pragma_cipher_page_size=4096", dbPath, hex.EncodeToString(key))
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open encrypted audit log: %w", err)
	}
	// PRAGMA key applies per connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to encrypted audit log: %w", err)
	}

	l := &EncryptedAuditLog{
		db:     db,
		dbPath: dbPath,
		clock:  newMonotonicClock(now),
	}

	if err := l.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	if err := l.seedClock(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to read audit log (wrong key?): %w", err)
	}

	return l, nil
}

func (l *EncryptedAuditLog) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ts INTEGER NOT NULL,
		description TEXT NOT NULL
	);
	`
	_, err := l.db.Exec(schema)
	return err
}

func (l *EncryptedAuditLog) seedClock() error {
	var last sql.NullInt64
	if err := l.db.QueryRow(`SELECT MAX(ts) FROM audit_log`).Scan(&last); err != nil {
		return err
	}
	if last.Valid {
		l.clock.Seed(time.Unix(last.Int64, 0))
	}
	return nil
}

// Append stamps description and inserts it.
func (l *EncryptedAuditLog) Append(description string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	ts := l.clock.Now()
	_, err := l.db.Exec(`INSERT INTO audit_log (ts, description) VALUES (?, ?)`,
		ts.Unix(), flattenDescription(description))
	if err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

// Entries returns all entries in append order.
func (l *EncryptedAuditLog) Entries() ([]domain.AuditEntry, error) {
	rows, err := l.db.Query(`SELECT ts, description FROM audit_log ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var ts int64
		var desc string
		if err := rows.Scan(&ts, &desc); err != nil {
			return nil, err
		}
		entries = append(entries, domain.AuditEntry{
			Timestamp:   time.Unix(ts, 0).Local(),
			Description: desc,
		})
	}
	return entries, rows.Err()
}

// ReadAll renders every entry in the text line format. An empty log reads as "".
func (l *EncryptedAuditLog) ReadAll() (string, error) {
	entries, err := l.Entries()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// Path returns the database location.
func (l *EncryptedAuditLog) Path() string {
	return l.dbPath
}

// Close closes the database connection.
func (l *EncryptedAuditLog) Close() error {
	return l.db.Close()
}

// Ensure EncryptedAuditLog implements domain.AuditLog.
var _ domain.AuditLog = (*EncryptedAuditLog)(nil)
