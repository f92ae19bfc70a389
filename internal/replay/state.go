package replay

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// StateDB tracks which recordings have been processed to avoid duplicate
// workout rows when a directory is replayed repeatedly.
type StateDB struct {
	db *sql.DB
}

// OpenStateDB opens (or creates) the SQLite state database at dir/state.db.
func OpenStateDB(dir string) (*StateDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "state.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS processed_recordings (
		path         TEXT PRIMARY KEY,
		size         INTEGER NOT NULL,
		hash         TEXT NOT NULL,
		exercise     TEXT NOT NULL,
		processed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating state table: %w", err)
	}

	return &StateDB{db: db}, nil
}

// IsProcessed checks if a recording was already replayed with the same size
// and hash. A changed file reprocesses.
func (s *StateDB) IsProcessed(relPath string, size int64, hash string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM processed_recordings WHERE path = ? AND size = ? AND hash = ?`,
		relPath, size, hash,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// MarkProcessed records that a recording was replayed successfully.
func (s *StateDB) MarkProcessed(relPath string, size int64, hash, exercise string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO processed_recordings (path, size, hash, exercise) VALUES (?, ?, ?, ?)`,
		relPath, size, hash, exercise,
	)
	return err
}

// Close closes the state database.
func (s *StateDB) Close() error {
	return s.db.Close()
}

// HashFile computes the SHA-256 hash of a file.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
