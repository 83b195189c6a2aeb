// ABOUTME: Opens the SQLite store and resolves IDs from unique prefixes.
// ABOUTME: Backed by the pure-Go modernc.org/sqlite driver.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// timeLayout is fixed-width UTC so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DB is the SQLite implementation of Repository.
type DB struct {
	db     *sql.DB
	dbPath string
}

// Open creates or opens the SQLite store at path and applies the schema.
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := os.Chmod(dbPath, 0600); err != nil && !os.IsNotExist(err) {
		_ = db.Close()
		return nil, fmt.Errorf("set database permissions: %w", err)
	}

	d := &DB{db: db, dbPath: dbPath}

	if err := d.configurePragmas(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure pragmas: %w", err)
	}

	if err := d.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return d, nil
}

// OpenDefault opens DefaultDBPath.
func OpenDefault() (*DB, error) {
	return Open(DefaultDBPath())
}

// DataDir is $XDG_DATA_HOME/scout.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "scout")
}

// DefaultDBPath is scout.db inside DataDir.
func DefaultDBPath() string {
	return filepath.Join(DataDir(), "scout.db")
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.dbPath
}

// Close releases the SQLite handle.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// configurePragmas sets up SQLite for concurrent readers and enforced foreign keys.
func (d *DB) configurePragmas() error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := d.db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}

// resolveID finds the full ID in table from a full ID or a unique prefix.
func (d *DB) resolveID(table, idOrPrefix string) (string, error) {
	if IsFullID(idOrPrefix) {
		return idOrPrefix, nil
	}
	if idOrPrefix == "" {
		return "", fmt.Errorf("%w: empty id", ErrNotFound)
	}

	// table is always a package constant, never user input.
	query := `SELECT id FROM ` + table + ` WHERE id LIKE ? || '%'`
	rows, err := d.db.Query(query, idOrPrefix)
	if err != nil {
		return "", fmt.Errorf("resolve ID: %w", err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan ID: %w", err)
		}
		matches = append(matches, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolve ID: %w", err)
	}

	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	}
	if len(matches) > 1 {
		return "", fmt.Errorf("%w %s: matches %d records", ErrAmbiguousPrefix, idOrPrefix, len(matches))
	}
	return matches[0], nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339Nano, s)
	}
	return t
}
