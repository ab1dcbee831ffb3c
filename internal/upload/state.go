package upload

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// FileKey identifies one version of an export file.
type FileKey struct {
	Path string // relative to the upload directory
	Size int64
	Hash string // hex SHA-256
}

// Sent is one recorded upload.
type Sent struct {
	FileKey
	Sessions int
	SentAt   time.Time
}

// StateDB remembers which export versions reached the server.
type StateDB struct {
	db *sql.DB
}

const stateSchema = `CREATE TABLE IF NOT EXISTS sent_exports (
	path     TEXT PRIMARY KEY,
	size     INTEGER NOT NULL,
	sha256   TEXT NOT NULL,
	sessions INTEGER NOT NULL DEFAULT 0,
	sent_at  TEXT NOT NULL
)`

// OpenStateDB opens (or creates) dir/state.db.
func OpenStateDB(dir string) (*StateDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}
	db, err := sql.Open("sqlite", filepath.Join(dir, "state.db"))
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}
	if _, err := db.Exec(stateSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating state table: %w", err)
	}
	return &StateDB{db: db}, nil
}

// Seen reports whether exactly this version of the file was sent before. A
// changed size or hash under the same path counts as unseen.
func (s *StateDB) Seen(k FileKey) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM sent_exports WHERE path = ? AND size = ? AND sha256 = ?`,
		k.Path, k.Size, k.Hash).Scan(&n)
	return n > 0, err
}

// Record stores a successful upload, replacing any older version of the path.
func (s *StateDB) Record(k FileKey, sessions int, at time.Time) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO sent_exports (path, size, sha256, sessions, sent_at) VALUES (?, ?, ?, ?, ?)`,
		k.Path, k.Size, k.Hash, sessions, at.UTC().Format(time.RFC3339))
	return err
}

// History lists recorded uploads by path.
func (s *StateDB) History() ([]Sent, error) {
	rows, err := s.db.Query(`SELECT path, size, sha256, sessions, sent_at FROM sent_exports ORDER BY path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Sent
	for rows.Next() {
		var r Sent
		var at string
		if err := rows.Scan(&r.Path, &r.Size, &r.Hash, &r.Sessions, &at); err != nil {
			return nil, err
		}
		r.SentAt, _ = time.Parse(time.RFC3339, at)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *StateDB) Close() error {
	return s.db.Close()
}

// keyFor stats and hashes path, keyed relative to root.
func keyFor(root, path string) (FileKey, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	f, err := os.Open(path)
	if err != nil {
		return FileKey{}, err
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return FileKey{}, fmt.Errorf("hashing %s: %w", rel, err)
	}
	return FileKey{Path: filepath.ToSlash(rel), Size: n, Hash: hex.EncodeToString(h.Sum(nil))}, nil
}
