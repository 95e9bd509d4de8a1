package pagesmith

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps a SQLite database recording what the last build emitted:
// one row per source document with its content hash and output path.
// Incremental builds skip unchanged documents and prune outputs whose
// source vanished or was unpublished.
type Store struct {
	db *sql.DB
}

// ManifestEntry is one build-manifest row.
type ManifestEntry struct {
	Path    string // source path relative to the content root
	Hash    string // sha256 of the source bytes
	Output  string // emitted file relative to the output root
	BuiltAt string
}

// NewStore opens (or creates) the manifest database at path, ensures the
// parent directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the preview server read the manifest while a rebuild
	// writes it; busy_timeout makes writers wait instead of returning
	// SQLITE_BUSY immediately.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS manifest (
    path TEXT PRIMARY KEY,
    hash TEXT NOT NULL,
    output TEXT NOT NULL,
    built_at TEXT NOT NULL
);
`)
	return err
}

// Get returns the manifest entry for a source path.
func (s *Store) Get(path string) (ManifestEntry, error) {
	var e ManifestEntry
	e.Path = path
	err := s.db.QueryRow(`SELECT hash, output, built_at FROM manifest WHERE path = ?`, path).
		Scan(&e.Hash, &e.Output, &e.BuiltAt)
	if err == sql.ErrNoRows {
		return ManifestEntry{}, ErrNotFound
	}
	if err != nil {
		return ManifestEntry{}, err
	}
	return e, nil
}

// List returns every manifest entry keyed by source path.
func (s *Store) List() (map[string]ManifestEntry, error) {
	rows, err := s.db.Query(`SELECT path, hash, output, built_at FROM manifest`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make(map[string]ManifestEntry)
	for rows.Next() {
		var e ManifestEntry
		if err := rows.Scan(&e.Path, &e.Hash, &e.Output, &e.BuiltAt); err != nil {
			return nil, err
		}
		entries[e.Path] = e
	}
	return entries, rows.Err()
}

// Put upserts a manifest entry, stamping it with the current time.
func (s *Store) Put(path, hash, output string) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO manifest (path, hash, output, built_at) VALUES (?, ?, ?, ?)`,
		path, hash, output, time.Now().UTC().Format(time.RFC3339))
	return err
}

// Delete removes a manifest entry by source path.
func (s *Store) Delete(path string) error {
	_, err := s.db.Exec(`DELETE FROM manifest WHERE path = ?`, path)
	return err
}

// HashBytes returns the hex sha256 of b, the manifest's hash format.
func HashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
