package store

import (
	"context"
	"fmt"
	"strings"
)

// AddHistory remembers query. Repeats keep their original position; beyond
// HistoryLimit the oldest query is dropped.
func (d *DB) AddHistory(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin history update: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO history (query) VALUES (?)", query); err != nil {
		return fmt.Errorf("failed to add history: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM history WHERE id NOT IN (SELECT id FROM history ORDER BY id DESC LIMIT ?)",
		HistoryLimit); err != nil {
		return fmt.Errorf("failed to trim history: %w", err)
	}
	return tx.Commit()
}

// History returns remembered queries, oldest first.
func (d *DB) History(ctx context.Context) ([]string, error) {
	return d.strings(ctx, "SELECT query FROM history ORDER BY id")
}

// ToggleFavorite adds path to the favourites or removes it when already present.
// It reports whether the path is a favourite afterwards.
func (d *DB) ToggleFavorite(ctx context.Context, path string) (bool, error) {
	res, err := d.db.ExecContext(ctx, "DELETE FROM favorites WHERE path = ?", path)
	if err != nil {
		return false, fmt.Errorf("failed to update favorites: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return false, nil
	}
	if _, err := d.db.ExecContext(ctx, "INSERT INTO favorites (path) VALUES (?)", path); err != nil {
		return false, fmt.Errorf("failed to update favorites: %w", err)
	}
	return true, nil
}

// Favorites returns favourite paths in the order they were added.
func (d *DB) Favorites(ctx context.Context) ([]string, error) {
	return d.strings(ctx, "SELECT path FROM favorites ORDER BY id")
}

func (d *DB) strings(ctx context.Context, q string) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
