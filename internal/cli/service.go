package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leafo/folioview/internal/config"
	"github.com/leafo/folioview/internal/folio"
)

// service is a configured Folio plus the resources it holds open.
type service struct {
	*folio.Folio
	db *sql.DB
}

func (s *service) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// newService builds the Folio service: history database and mount targets.
func newService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*service, error) {
	f := folio.NewFolio(cfg.Options(), logger)
	svc := &service{Folio: f}

	if cfg.History.Path != "" {
		db, err := folio.OpenDatabase(ctx, cfg.History.Path)
		if err != nil {
			return nil, err
		}
		svc.db = db
		f.SetHistory(folio.NewHistory(db))
		logger.Debug("Opened history database", "path", cfg.History.Path)
	}

	meili, err := folio.NewMeilisearchTarget(ctx, cfg.MeilisearchSettings(), cfg.Options().Chunks, cfg.PreviewPolicy(), logger)
	if err != nil {
		svc.Close()
		return nil, fmt.Errorf("connect meilisearch: %w", err)
	}
	f.RegisterTarget(meili)
	f.RegisterTarget(folio.NewShellTarget(cfg.ShellTarget.Command))

	return svc, nil
}

// stderrLogger is used by headless commands.
func stderrLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.LogLevel()}))
}

// fileLogger writes to the configured log file, since the terminal UI owns
// stdout. An empty path discards logs.
func fileLogger(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	if cfg.Log.File == "" {
		return slog.New(slog.NewTextHandler(io.Discard, opts)), io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	file, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(file, opts)), file, nil
}
