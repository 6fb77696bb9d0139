// Package audit provides an append-only ledger of governance operations,
// stored in SQLite under the workspace's .nbgov directory.
package audit

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/aikit/nbgov/internal/sqlutil"
)

// Operations recorded in the ledger.
const (
	OpCreate  = "create"
	OpDelete  = "delete"
	OpMigrate = "migrate"
	OpTag     = "tag"
	OpRun     = "run"
	OpConvert = "convert"
)

// FileName is the ledger database name inside the state directory.
const FileName = "audit.db"

// Entry represents a single audit log entry.
type Entry struct {
	ID        string                 `json:"id"`
	Timestamp time.Time              `json:"ts"`
	Operation string                 `json:"op"`
	Category  string                 `json:"category,omitempty"`
	Path      string                 `json:"path,omitempty"`
	Actor     string                 `json:"actor,omitempty"`
	Extra     map[string]interface{} `json:"extra,omitempty"`
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Operation string
	Category  string
	Limit     int
}

// Logger writes to and reads from the audit ledger. A disabled Logger
// accepts every call and records nothing.
type Logger struct {
	db      *sql.DB
	enabled bool
	mu      sync.Mutex
}

// Disabled returns a no-op logger.
func Disabled() *Logger {
	return &Logger{}
}

// Open opens or creates the ledger in stateDir.
func Open(stateDir string) (*Logger, error) {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return open(filepath.Join(stateDir, FileName))
}

// OpenInMemory opens a ledger that lives only as long as the Logger.
func OpenInMemory() (*Logger, error) {
	return open(":memory:")
}

func open(dsn string) (*Logger, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit ledger: %w", err)
	}
	// A single connection keeps :memory: databases shared across calls.
	db.SetMaxOpenConns(1)

	l := &Logger{db: db, enabled: true}
	if err := l.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

func (l *Logger) initialize() error {
	schema := `
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS entries (
			id TEXT PRIMARY KEY,
			ts INTEGER NOT NULL,          -- Unix nanoseconds, UTC
			op TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			path TEXT NOT NULL DEFAULT '',
			actor TEXT NOT NULL DEFAULT '',
			extra TEXT NOT NULL DEFAULT '{}'
		);

		CREATE INDEX IF NOT EXISTS idx_entries_ts ON entries(ts);
		CREATE INDEX IF NOT EXISTS idx_entries_category ON entries(category);
	`
	if _, err := l.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize audit ledger: %w", err)
	}
	return nil
}

// Enabled reports whether entries are recorded.
func (l *Logger) Enabled() bool {
	return l != nil && l.enabled
}

// Close closes the ledger.
func (l *Logger) Close() error {
	if !l.Enabled() {
		return nil
	}
	return l.db.Close()
}

// Log appends an entry, filling in its ID and timestamp when unset.
func (l *Logger) Log(entry Entry) error {
	if !l.Enabled() {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	extra := []byte("{}")
	if len(entry.Extra) > 0 {
		var err error
		extra, err = json.Marshal(entry.Extra)
		if err != nil {
			return fmt.Errorf("failed to marshal audit entry: %w", err)
		}
	}

	_, err := l.db.Exec(
		`INSERT INTO entries (id, ts, op, category, path, actor, extra) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Timestamp.UTC().UnixNano(), entry.Operation, entry.Category, entry.Path, entry.Actor, string(extra),
	)
	if err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

// List returns matching entries, newest first.
func (l *Logger) List(f Filter) ([]Entry, error) {
	if !l.Enabled() {
		return nil, nil
	}

	var where sqlutil.Where
	where.Eq("op", f.Operation)
	where.Eq("category", f.Category)
	clause, args := where.SQL()

	query := `SELECT id, ts, op, category, path, actor, extra FROM entries` + clause + ` ORDER BY ts DESC, rowid DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read audit ledger: %w", err)
	}
	return sqlutil.ScanRows(rows, scanEntry)
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		e     Entry
		ts    int64
		extra string
	)
	if err := rows.Scan(&e.ID, &ts, &e.Operation, &e.Category, &e.Path, &e.Actor, &extra); err != nil {
		return Entry{}, err
	}
	e.Timestamp = time.Unix(0, ts).UTC()
	if extra != "" && extra != "{}" {
		// A malformed extra column is dropped; the entry itself is kept.
		if err := json.Unmarshal([]byte(extra), &e.Extra); err != nil {
			e.Extra = nil
		}
	}
	return e, nil
}
