// Package docstore provides the SQLite-backed persistence layer.
//
// Two tables: namespaced key→document storage for the structured records
// (scoreboard, actions, meetings, insights, decisions), and a write-once
// archive holding one immutable document per retrieved message. Documents
// are JSON text; their shapes are owned by the report package.
package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultDBPath is the default database location.
const DefaultDBPath = "~/.chief-of-staff/briefs.db"

// Store is the namespaced document store plus the message archive.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Stats holds observability counts for the store.
type Stats struct {
	Documents      int64 `json:"documents"`
	ArchiveEntries int64 `json:"archive_entries"`
}

// Open opens (and if needed creates) the store. Pass ":memory:" for
// in-memory databases (testing).
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		dbPath = expandPath(DefaultDBPath)
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, dbPath: dbPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
CREATE TABLE IF NOT EXISTS documents (
	namespace  TEXT PRIMARY KEY,
	body       TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS archive (
	key        TEXT PRIMARY KEY,
	body       TEXT NOT NULL,
	created_at TEXT NOT NULL
);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get reads a namespaced document. A missing or corrupt document returns
// nil with no error — callers substitute the namespace default. Only
// infrastructure failures (the database itself) surface as errors.
func (s *Store) Get(ctx context.Context, namespace string) (json.RawMessage, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		"SELECT body FROM documents WHERE namespace = ?", namespace).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading document %q: %w", namespace, err)
	}
	if !json.Valid([]byte(body)) {
		return nil, nil
	}
	return json.RawMessage(body), nil
}

// Put fully overwrites a namespaced document. There is no partial-field
// persistence; merging happens before the write.
func (s *Store) Put(ctx context.Context, namespace string, doc json.RawMessage) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO documents (namespace, body, updated_at) VALUES (?, ?, ?)
ON CONFLICT(namespace) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		namespace, string(doc), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing document %q: %w", namespace, err)
	}
	return nil
}

// Archive writes one immutable message document. An existing key is left
// untouched — archive entries are write-once.
func (s *Store) Archive(ctx context.Context, key string, doc json.RawMessage) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO archive (key, body, created_at) VALUES (?, ?, ?)",
		key, string(doc), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("archiving %q: %w", key, err)
	}
	return nil
}

// Stats returns document and archive counts.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&st.Documents); err != nil {
		return nil, fmt.Errorf("counting documents: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM archive").Scan(&st.ArchiveEntries); err != nil {
		return nil, fmt.Errorf("counting archive: %w", err)
	}
	return st, nil
}

// ArchiveKey builds the write-once archive key for one message:
// UTC retrieval timestamp plus the sanitized subject. Collisions are
// treated as practically impossible.
func ArchiveKey(ts time.Time, subject string) string {
	return ts.UTC().Format("20060102T150405Z") + "_" + sanitizeSubject(subject)
}

// sanitizeSubject keeps alphanumerics, spaces, dashes and underscores,
// trims to 80 chars, and replaces spaces with underscores.
func sanitizeSubject(subject string) string {
	var sb strings.Builder
	for _, r := range subject {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			sb.WriteRune(r)
		}
	}
	safe := sb.String()
	if len(safe) > 80 {
		safe = safe[:80]
	}
	return strings.ReplaceAll(strings.TrimSpace(safe), " ", "_")
}

// expandPath expands ~ to the home directory.
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
