package folio

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// LoadRecord is one successful folder load.
type LoadRecord struct {
	ID       string
	Source   string
	Picker   string
	Files    int
	Bytes    int64
	LoadedAt string
}

// ExportRecord is one archive written by an export.
type ExportRecord struct {
	ID          string
	ArchivePath string
	Files       int
	Bytes       int64
	ExportedAt  string
}

// History keeps metadata about loads and exports. File contents are never stored.
type History struct {
	db *sql.DB
}

// NewHistory wraps an opened database.
func NewHistory(db *sql.DB) *History {
	return &History{db: db}
}

// RecordLoad stores a successful load of v from source.
func (h *History) RecordLoad(ctx context.Context, source, picker string, v *VFS) (string, error) {
	id := uuid.NewString()
	if _, err := h.db.ExecContext(ctx, `
INSERT INTO loads (id, source, picker, files, bytes, loaded_at)
VALUES (?, ?, ?, ?, ?, strftime('%Y-%m-%d %H:%M:%f', 'now'))
`, id, source, picker, v.Len(), v.Size()); err != nil {
		return "", fmt.Errorf("record load: %w", err)
	}
	return id, nil
}

// RecordExport stores an archive written from v.
func (h *History) RecordExport(ctx context.Context, archivePath string, v *VFS) (string, error) {
	id := uuid.NewString()
	if _, err := h.db.ExecContext(ctx, `
INSERT INTO exports (id, archive_path, files, bytes, exported_at)
VALUES (?, ?, ?, ?, strftime('%Y-%m-%d %H:%M:%f', 'now'))
`, id, archivePath, v.Len(), v.Size()); err != nil {
		return "", fmt.Errorf("record export: %w", err)
	}
	return id, nil
}

// LastSource returns the source of the most recent load, or "" when none exists.
func (h *History) LastSource(ctx context.Context) (string, error) {
	var source string
	err := h.db.QueryRowContext(ctx, `SELECT source FROM loads ORDER BY loaded_at DESC, rowid DESC LIMIT 1`).Scan(&source)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query last source: %w", err)
	}
	return source, nil
}

// RecentLoads returns up to limit loads, newest first.
func (h *History) RecentLoads(ctx context.Context, limit int) ([]LoadRecord, error) {
	rows, err := h.db.QueryContext(ctx, `
SELECT id, source, picker, files, bytes, loaded_at
FROM loads
ORDER BY loaded_at DESC, rowid DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query loads: %w", err)
	}
	defer rows.Close()

	var loads []LoadRecord
	for rows.Next() {
		var rec LoadRecord
		if err := rows.Scan(&rec.ID, &rec.Source, &rec.Picker, &rec.Files, &rec.Bytes, &rec.LoadedAt); err != nil {
			return nil, fmt.Errorf("scan load: %w", err)
		}
		loads = append(loads, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate loads: %w", err)
	}
	return loads, nil
}

// RecentExports returns up to limit exports, newest first.
func (h *History) RecentExports(ctx context.Context, limit int) ([]ExportRecord, error) {
	rows, err := h.db.QueryContext(ctx, `
SELECT id, archive_path, files, bytes, exported_at
FROM exports
ORDER BY exported_at DESC, rowid DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query exports: %w", err)
	}
	defer rows.Close()

	var exports []ExportRecord
	for rows.Next() {
		var rec ExportRecord
		if err := rows.Scan(&rec.ID, &rec.ArchivePath, &rec.Files, &rec.Bytes, &rec.ExportedAt); err != nil {
			return nil, fmt.Errorf("scan export: %w", err)
		}
		exports = append(exports, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exports: %w", err)
	}
	return exports, nil
}
