// Package store persists the index snapshot, query history and favourites in a
// single SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	fsutil "github.com/kk-code-lab/rseek/internal/fs"
	_ "modernc.org/sqlite" // pure Go SQLite driver
)

// snapshotVersion changes whenever the meaning of stored entries changes; older
// snapshots are then ignored and a fresh scan runs.
const snapshotVersion = 1

// HistoryLimit is how many distinct queries are remembered.
const HistoryLimit = 10

var (
	// ErrNoSnapshot means there is nothing usable to load.
	ErrNoSnapshot = errors.New("no index snapshot")
)

const schema = `
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS entries (
	seq  INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	path TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS history (
	id    INTEGER PRIMARY KEY AUTOINCREMENT,
	query TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS favorites (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	path TEXT NOT NULL UNIQUE
);
`

// DB is the rseek database.
type DB struct {
	db *sql.DB
}

// Open creates or opens the database at path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer; a single connection keeps writes serialised.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to configure database: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// SaveSnapshot replaces the stored entries with entries, keeping their order.
func (d *DB) SaveSnapshot(ctx context.Context, entries []fsutil.Entry) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin snapshot: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM entries"); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO entries (seq, name, path) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare snapshot insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for i, e := range entries {
		if _, err := stmt.ExecContext(ctx, i, e.Name, e.Path); err != nil {
			return fmt.Errorf("failed to store entry %q: %w", e.Path, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO meta (key, value) VALUES ('snapshot_version', ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		fmt.Sprint(snapshotVersion)); err != nil {
		return fmt.Errorf("failed to store snapshot version: %w", err)
	}

	return tx.Commit()
}

// LoadSnapshot returns the stored entries in saved order. A saved empty sequence
// loads as empty. ErrNoSnapshot is returned when nothing was saved or the snapshot
// was written by another version.
func (d *DB) LoadSnapshot(ctx context.Context) ([]fsutil.Entry, error) {
	var version string
	err := d.db.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = 'snapshot_version'").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot version: %w", err)
	}
	if version != fmt.Sprint(snapshotVersion) {
		return nil, ErrNoSnapshot
	}

	rows, err := d.db.QueryContext(ctx, "SELECT name, path FROM entries ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	entries := []fsutil.Entry{}
	for rows.Next() {
		var e fsutil.Entry
		if err := rows.Scan(&e.Name, &e.Path); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return entries, nil
}
