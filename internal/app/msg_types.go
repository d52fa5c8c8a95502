package app

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/leafo/folioview/internal/folio"
	"github.com/leafo/folioview/internal/picker"
)

// pickerWatch tags loads triggered by the folder watcher instead of a picker.
const pickerWatch = "watch"

// pickResolvedMsg carries the parsed result of one load attempt. seq ties it
// to the attempt that started it so stale results can be dropped.
type pickResolvedMsg struct {
	seq     uint64
	picker  string
	source  string
	entries []folio.FileEntry
	err     error
}

// publishedMsg reports the outcome of handing a snapshot to mount targets.
type publishedMsg struct {
	source string
	err    error
}

type exportDoneMsg struct {
	path  string
	files int
	err   error
}

type sampleFetchedMsg struct {
	name string
	data []byte
	err  error
}

// folderChangedMsg is sent when the watched folder settles after a change.
type folderChangedMsg struct {
	watcher *folio.Watcher
}

// awaitPickCmd is the continuation of a load key press: it waits for the
// picker outside the key handler, then parses the raw records.
func awaitPickCmd(ctx context.Context, seq uint64, name string, d *picker.Deferred) tea.Cmd {
	return func() tea.Msg {
		res, err := d.Await(ctx)
		if err != nil {
			return pickResolvedMsg{seq: seq, picker: name, err: err}
		}
		entries, err := folio.ParseRecords(res.Records)
		return pickResolvedMsg{seq: seq, picker: name, source: res.Source, entries: entries, err: err}
	}
}

// reloadCmd reads root again without opening a picker.
func reloadCmd(f *folio.Folio, seq uint64, root string) tea.Cmd {
	return func() tea.Msg {
		entries, err := f.LoadDir(root)
		return pickResolvedMsg{seq: seq, picker: pickerWatch, source: root, entries: entries, err: err}
	}
}

// publishCmd records the load and publishes the snapshot to mount targets.
func publishCmd(ctx context.Context, f *folio.Folio, event folio.MountEvent, pickerName string, logger *slog.Logger) tea.Cmd {
	return func() tea.Msg {
		if err := f.RecordLoad(ctx, event.Source, pickerName, event.VFS); err != nil {
			logger.Warn("Failed to record load", "source", event.Source, "error", err)
		}
		return publishedMsg{source: event.Source, err: f.Publish(ctx, event)}
	}
}

func exportCmd(ctx context.Context, f *folio.Folio, v *folio.VFS) tea.Cmd {
	return func() tea.Msg {
		path, err := f.Export(ctx, v)
		return exportDoneMsg{path: path, files: v.Len(), err: err}
	}
}

func fetchSampleCmd(ctx context.Context, s *folio.SampleFetcher) tea.Cmd {
	return func() tea.Msg {
		if s == nil {
			return sampleFetchedMsg{err: errors.New("no sample configured")}
		}
		data, err := s.Fetch(ctx)
		return sampleFetchedMsg{name: s.Name(), data: data, err: err}
	}
}

// waitForChangeCmd blocks until w reports a change. It returns nil once the
// watcher is closed.
func waitForChangeCmd(w *folio.Watcher) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-w.Changes(); !ok {
			return nil
		}
		return folderChangedMsg{watcher: w}
	}
}
