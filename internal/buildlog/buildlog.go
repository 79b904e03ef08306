// Package buildlog records deck generation runs in a SQLite database under
// the project, so `cardpress builds` can show what was generated when and
// with how many warnings.
package buildlog

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Filename is the database file kept next to the generated output.
const Filename = "builds.db"

// Log wraps a sql.DB with build-history helpers.
type Log struct {
	*sql.DB
	mu   sync.RWMutex
	path string
}

// Open creates or opens the build log at the given path.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	l := &Log{DB: sqlDB, path: path}
	if err := l.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return l, nil
}

// OpenMemory creates an in-memory build log (useful for testing).
func OpenMemory() (*Log, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}

	l := &Log{DB: sqlDB, path: ":memory:"}
	if err := l.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return l, nil
}

func (l *Log) migrate() error {
	_, err := l.Exec(schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS builds (
    id TEXT PRIMARY KEY,
    timestamp DATETIME NOT NULL DEFAULT (datetime('now')),
    datasources TEXT NOT NULL DEFAULT '[]',
    input_hash TEXT NOT NULL DEFAULT '',
    cards INTEGER NOT NULL DEFAULT 0,
    pages INTEGER NOT NULL DEFAULT 0,
    warnings INTEGER NOT NULL DEFAULT 0,
    errors INTEGER NOT NULL DEFAULT 0,
    duration_ms INTEGER NOT NULL DEFAULT 0,
    preview INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_builds_timestamp ON builds(timestamp);
`

// Build is one recorded generation run.
type Build struct {
	ID          string
	Timestamp   time.Time
	Datasources []string
	InputHash   string
	Cards       int
	Pages       int
	Warnings    int
	Errors      int
	Duration    time.Duration
	Preview     bool
}

// Record stores a finished run and returns its id.
func (l *Log) Record(b Build) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Timestamp.IsZero() {
		b.Timestamp = time.Now().UTC()
	}
	datasources, err := json.Marshal(b.Datasources)
	if err != nil {
		return "", fmt.Errorf("encoding datasources: %w", err)
	}

	_, err = l.Exec(`INSERT INTO builds
		(id, timestamp, datasources, input_hash, cards, pages, warnings, errors, duration_ms, preview)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Timestamp.Format(time.RFC3339), string(datasources), b.InputHash,
		b.Cards, b.Pages, b.Warnings, b.Errors, b.Duration.Milliseconds(), b.Preview)
	if err != nil {
		return "", fmt.Errorf("recording build: %w", err)
	}
	return b.ID, nil
}

// Recent returns the most recent builds, newest first.
func (l *Log) Recent(limit int) ([]Build, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := l.Query(`SELECT id, timestamp, datasources, input_hash,
		cards, pages, warnings, errors, duration_ms, preview
		FROM builds ORDER BY timestamp DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing builds: %w", err)
	}
	defer rows.Close()

	var builds []Build
	for rows.Next() {
		var b Build
		var timestamp, datasources string
		var durationMS int64
		if err := rows.Scan(&b.ID, &timestamp, &datasources, &b.InputHash,
			&b.Cards, &b.Pages, &b.Warnings, &b.Errors, &durationMS, &b.Preview); err != nil {
			return nil, fmt.Errorf("scanning build: %w", err)
		}
		b.Timestamp, _ = time.Parse(time.RFC3339, timestamp)
		b.Duration = time.Duration(durationMS) * time.Millisecond
		if err := json.Unmarshal([]byte(datasources), &b.Datasources); err != nil {
			return nil, fmt.Errorf("decoding datasources: %w", err)
		}
		builds = append(builds, b)
	}
	return builds, rows.Err()
}

// HashInputs fingerprints the datasource contents so identical rebuilds
// can be spotted in the history.
func HashInputs(paths []string) string {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	h := sha256.New()
	for _, path := range sorted {
		io.WriteString(h, path)
		h.Write([]byte{0})
		if f, err := os.Open(path); err == nil {
			io.Copy(h, f)
			f.Close()
		}
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
