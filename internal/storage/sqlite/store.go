package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	sqlite3 "modernc.org/sqlite"

	"github.com/Oxyrus/photowall/internal/storage"
)

// Store is a SQLite-backed implementation of the storage.Store interface.
type Store struct {
	db     *sql.DB
	photos *photoRepository
	users  *userRepository
}

// Open initialises (or opens) a SQLite database located at the provided path.
// The directory is created if it does not already exist. The returned Store is
// safe for concurrent use.
//
// The connection pool is pinned to a single connection, so transactions (in
// particular the reorder batch) serialize against every other read and
// write: no reader can observe a partially applied batch.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite: path must not be empty")
	}

	if err := ensureDir(path); err != nil {
		return nil, fmt.Errorf("sqlite: ensure directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := configure(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := bootstrap(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:     db,
		photos: &photoRepository{db: db},
		users:  &userRepository{db: db},
	}, nil
}

// Photos returns the photo repository.
func (s *Store) Photos() storage.Photos {
	return s.photos
}

// Users returns the user repository.
func (s *Store) Users() storage.Users {
	return s.users
}

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func configure(db *sql.DB) error {
	stmts := []string{
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
		"PRAGMA journal_mode = WAL;",
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("sqlite: configure: %w", err)
		}
	}

	return nil
}

func bootstrap(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS photos (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			asset_ref TEXT NOT NULL,
			thumb_ref TEXT NOT NULL DEFAULT '',
			sort_order INTEGER NOT NULL DEFAULT 0,
			taken_at DATETIME,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_photos_sequence ON photos(sort_order, created_at);`,
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			is_admin INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		);`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("sqlite: bootstrap: %w", err)
		}
	}

	return nil
}

// isUniqueViolation reports whether err is a SQLITE_CONSTRAINT_UNIQUE
// failure.
func isUniqueViolation(err error) bool {
	var se *sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == 2067 // SQLITE_CONSTRAINT_UNIQUE
}

var _ storage.Store = (*Store)(nil)
