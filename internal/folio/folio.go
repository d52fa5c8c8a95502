package folio

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Folio bundles the collaborators around the workspace: folder reading,
// export, load history and mount targets. It is safe for use from the
// asynchronous continuations of the UI.
type Folio struct {
	opts    Options
	logger  *slog.Logger
	fs      FileSystem
	history *History

	mu      sync.RWMutex
	targets []MountTarget
}

// NewFolio constructs a Folio using the provided options.
func NewFolio(opts Options, logger *slog.Logger) *Folio {
	if logger == nil {
		logger = slog.Default()
	}
	return &Folio{
		opts:   opts,
		logger: logger,
		fs:     OSFileSystem{},
	}
}

// SetFileSystem overrides the filesystem implementation used for folder reads.
func (f *Folio) SetFileSystem(fs FileSystem) {
	if fs == nil {
		f.fs = OSFileSystem{}
		return
	}
	f.fs = fs
}

// FileSystem returns the filesystem used for folder reads.
func (f *Folio) FileSystem() FileSystem { return f.fs }

// SetHistory attaches a history store. A nil store disables recording.
func (f *Folio) SetHistory(h *History) { f.history = h }

// History returns the attached history store, if any.
func (f *Folio) History() *History { return f.history }

// Options returns the options the service was built with.
func (f *Folio) Options() Options { return f.opts }

// Logger returns the service logger.
func (f *Folio) Logger() *slog.Logger { return f.loggerOrDefault() }

// RegisterTarget adds a mount target. Nil targets are ignored.
func (f *Folio) RegisterTarget(target MountTarget) {
	if target == nil {
		return
	}
	f.mu.Lock()
	f.targets = append(f.targets, target)
	f.mu.Unlock()
}

// Targets reports how many mount targets are registered.
func (f *Folio) Targets() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.targets)
}

// ReadRecords reads a folder into raw picker records.
func (f *Folio) ReadRecords(root string) ([]map[string]any, error) {
	return CollectRecords(f.fs, root, f.opts.Scan)
}

// LoadDir reads and parses a folder without going through a picker.
func (f *Folio) LoadDir(root string) ([]FileEntry, error) {
	records, err := f.ReadRecords(root)
	if err != nil {
		return nil, err
	}
	return ParseRecords(records)
}

// Publish hands a mounted snapshot to every registered target concurrently
// and returns the first failure.
func (f *Folio) Publish(ctx context.Context, event MountEvent) error {
	f.mu.RLock()
	targets := append([]MountTarget(nil), f.targets...)
	f.mu.RUnlock()
	if len(targets) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, target := range targets {
		g.Go(func() error {
			return target.ApplyMount(gctx, event)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}
	f.loggerOrDefault().Info("Published snapshot", "source", event.Source, "files", event.VFS.Len(), "targets", len(targets))
	return nil
}

// RecordLoad stores a load in the history, when one is attached.
func (f *Folio) RecordLoad(ctx context.Context, source, picker string, v *VFS) error {
	if f.history == nil {
		return nil
	}
	_, err := f.history.RecordLoad(ctx, source, picker, v)
	return err
}

// LastSource returns the most recently loaded folder, or "".
func (f *Folio) LastSource(ctx context.Context) string {
	if f.history == nil {
		return ""
	}
	source, err := f.history.LastSource(ctx)
	if err != nil {
		f.loggerOrDefault().Warn("Failed to read load history", "error", err)
		return ""
	}
	return source
}

// Export writes v as a zip archive and records it in the history.
func (f *Folio) Export(ctx context.Context, v *VFS) (string, error) {
	target, err := f.opts.Export.Export(v)
	if err != nil {
		return "", err
	}
	f.loggerOrDefault().Info("Exported snapshot", "archive", target, "files", v.Len())
	if f.history != nil {
		if _, err := f.history.RecordExport(ctx, target, v); err != nil {
			f.loggerOrDefault().Warn("Failed to record export", "archive", target, "error", err)
		}
	}
	return target, nil
}

func (f *Folio) loggerOrDefault() *slog.Logger {
	if f.logger != nil {
		return f.logger
	}
	return slog.Default()
}
