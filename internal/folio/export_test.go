package folio

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func mustVFS(t *testing.T, files map[string]string) *VFS {
	t.Helper()
	var entries []FileEntry
	for p, content := range files {
		entries = append(entries, FileEntry{Path: p, Content: []byte(content)})
	}
	v, err := NewVFS(entries)
	if err != nil {
		t.Fatalf("NewVFS returned error: %v", err)
	}
	return v
}

func TestWriteZipRoundTrip(t *testing.T) {
	v := mustVFS(t, map[string]string{"a.txt": "hello", "b/c.txt": "world"})

	var buf bytes.Buffer
	if err := WriteZip(&buf, v); err != nil {
		t.Fatalf("WriteZip returned error: %v", err)
	}

	files, err := ReadZip(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("ReadZip returned error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(files))
	}
	if string(files["a.txt"]) != "hello" || string(files["b/c.txt"]) != "world" {
		t.Fatalf("unexpected archive contents: %v", files)
	}
}

func TestWriteZipIsIdempotent(t *testing.T) {
	v := mustVFS(t, map[string]string{"a.txt": "hello", "b/c.txt": "world", "d/e/f.rs": "fn f() {}"})

	var first, second bytes.Buffer
	if err := WriteZip(&first, v); err != nil {
		t.Fatalf("first export failed: %v", err)
	}
	if err := WriteZip(&second, v); err != nil {
		t.Fatalf("second export failed: %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatalf("expected identical archives")
	}
}

func TestWriteZipEmptySnapshot(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteZip(&buf, EmptyVFS()); err != nil {
		t.Fatalf("WriteZip returned error: %v", err)
	}
	files, err := ReadZip(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("ReadZip returned error: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected empty archive, got %d entries", len(files))
	}
}

func TestExporterWritesArchive(t *testing.T) {
	dir := t.TempDir()
	fixed := time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)
	exporter := Exporter{Dir: filepath.Join(dir, "out"), Name: "crate", Now: func() time.Time { return fixed }}

	target, err := exporter.Export(mustVFS(t, map[string]string{"src/lib.rs": "pub fn x() {}"}))
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if filepath.Base(target) != "crate-20261019-083000.zip" {
		t.Fatalf("unexpected archive name %s", target)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	files, err := ReadZip(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("ReadZip returned error: %v", err)
	}
	if !strings.HasPrefix(string(files["src/lib.rs"]), "pub fn") {
		t.Fatalf("unexpected archive contents: %v", files)
	}
}

func TestExporterDoesNotOverwriteSameSecond(t *testing.T) {
	fixed := time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)
	exporter := Exporter{Dir: t.TempDir(), Name: "crate", Now: func() time.Time { return fixed }}

	first, err := exporter.Export(mustVFS(t, map[string]string{"a.txt": "first"}))
	if err != nil {
		t.Fatalf("first Export returned error: %v", err)
	}
	second, err := exporter.Export(mustVFS(t, map[string]string{"a.txt": "second"}))
	if err != nil {
		t.Fatalf("second Export returned error: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct archives, both at %s", first)
	}
	if filepath.Base(second) != "crate-20261019-083000-1.zip" {
		t.Fatalf("unexpected second archive name %s", second)
	}

	for path, want := range map[string]string{first: "first", second: "second"} {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		files, err := ReadZip(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			t.Fatalf("ReadZip(%s) returned error: %v", path, err)
		}
		if string(files["a.txt"]) != want {
			t.Fatalf("%s holds %q, want %q", path, files["a.txt"], want)
		}
	}
}

func TestExporterRefusesEmptySnapshot(t *testing.T) {
	_, err := Exporter{Dir: t.TempDir()}.Export(EmptyVFS())
	if !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("expected ErrNothingToExport, got %v", err)
	}
}
