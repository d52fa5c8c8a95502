package folio

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsSettledChanges(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "src"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	w, err := NewWatcher(root, ScanOptions{IgnoreDirs: []string{"target"}}, nil)
	if err != nil {
		t.Fatalf("NewWatcher returned error: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(root, "src", "lib.rs"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case <-w.Changes():
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for change notification")
	}
}

func TestWatcherCloseClosesChanges(t *testing.T) {
	w, err := NewWatcher(t.TempDir(), ScanOptions{}, nil)
	if err != nil {
		t.Fatalf("NewWatcher returned error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if _, ok := <-w.Changes(); ok {
		t.Fatalf("expected closed channel")
	}
	// A second close is a no-op.
	if err := w.Close(); err != nil {
		t.Fatalf("second Close returned error: %v", err)
	}
}

func TestWatcherIgnoresConfiguredDirectories(t *testing.T) {
	w := &Watcher{root: "/crate", ignore: map[string]struct{}{"target": {}}}
	if !w.isIgnored("target/debug/x") {
		t.Fatalf("expected target subtree to be ignored")
	}
	if w.isIgnored("src/lib.rs") || w.isIgnored(".") {
		t.Fatalf("unexpected ignore")
	}
}
