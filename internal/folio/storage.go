package folio

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// OpenDatabase opens or creates the SQLite history database at the provided
// path and ensures the schema is available.
func OpenDatabase(ctx context.Context, path string) (*sql.DB, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema creates the required tables if they do not already exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS loads (
    id TEXT PRIMARY KEY,
    source TEXT NOT NULL,
    picker TEXT NOT NULL,
    files INTEGER NOT NULL,
    bytes INTEGER NOT NULL,
    loaded_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_loads_loaded_at ON loads(loaded_at);
CREATE TABLE IF NOT EXISTS exports (
    id TEXT PRIMARY KEY,
    archive_path TEXT NOT NULL,
    files INTEGER NOT NULL,
    bytes INTEGER NOT NULL,
    exported_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
