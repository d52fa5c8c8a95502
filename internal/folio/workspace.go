package folio

import (
	"errors"
	"fmt"
)

// ErrNothingToExport is returned when exporting an empty snapshot.
var ErrNothingToExport = errors.New("nothing to export")

// Status lines shown to the user.
const (
	StatusIdle       = "Press U to load a folder"
	StatusPending    = "Waiting for folder selection..."
	StatusReentrant  = "Load already in progress"
	StatusCancelled  = "Folder selection cancelled"
	StatusNoExport   = "Nothing to export"
	statusLoadedTmpl = "Loaded %d files. Press E to export."
)

// Workspace is the single-writer application state: the current snapshot,
// the previews derived from it and the status line. Only the owner mutates it.
type Workspace struct {
	vfs      *VFS
	previews []Preview
	policy   PreviewPolicy
	status   string
	source   string
	pending  bool
	seq      uint64
}

// NewWorkspace returns an empty workspace that renders previews with policy.
func NewWorkspace(policy PreviewPolicy) *Workspace {
	return &Workspace{
		vfs:    EmptyVFS(),
		policy: policy,
		status: StatusIdle,
	}
}

// Snapshot returns the current VFS.
func (w *Workspace) Snapshot() *VFS { return w.vfs }

// Previews returns the preview lines of the current snapshot.
func (w *Workspace) Previews() []Preview { return w.previews }

// Status returns the status line.
func (w *Workspace) Status() string { return w.status }

// SetStatus replaces the status line.
func (w *Workspace) SetStatus(s string) { w.status = s }

// Source returns where the current snapshot was loaded from, if known.
func (w *Workspace) Source() string { return w.source }

// Pending reports whether a folder load is waiting on a picker.
func (w *Workspace) Pending() bool { return w.pending }

// Seq returns the sequence number of the most recent load attempt.
func (w *Workspace) Seq() uint64 { return w.seq }

// BeginLoad marks a load attempt as pending and returns its sequence number.
// It returns false without changing anything when a load is already pending.
func (w *Workspace) BeginLoad() (uint64, bool) {
	if w.pending {
		w.status = StatusReentrant
		return w.seq, false
	}
	w.pending = true
	w.seq++
	w.status = StatusPending
	return w.seq, true
}

// NextReload returns a sequence number for a load that needs no picker, such
// as a watcher triggered reload. It supersedes any pending attempt.
func (w *Workspace) NextReload() uint64 {
	w.seq++
	return w.seq
}

// Mount replaces the snapshot wholesale with entries and rebuilds previews.
// On error the previous snapshot is kept.
func (w *Workspace) Mount(entries []FileEntry, source string) error {
	w.pending = false
	next, err := NewVFS(entries)
	if err != nil {
		w.Fail(err)
		return err
	}
	w.replace(next)
	w.source = source
	return nil
}

// Put adds or replaces a single file, producing a new snapshot.
func (w *Workspace) Put(path string, data []byte) error {
	next, err := w.vfs.With(path, data)
	if err != nil {
		return err
	}
	w.replace(next)
	return nil
}

// Fail ends a load attempt without touching the snapshot.
func (w *Workspace) Fail(err error) {
	w.pending = false
	w.status = fmt.Sprintf("Failed to load folder: %v", err)
}

// Cancel ends a load attempt the user backed out of.
func (w *Workspace) Cancel() {
	w.pending = false
	w.status = StatusCancelled
}

func (w *Workspace) replace(next *VFS) {
	w.vfs = next
	w.previews = BuildPreviews(next, w.policy)
	w.status = fmt.Sprintf(statusLoadedTmpl, next.Len())
}
