package folio

import (
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

type mapFileSystem struct {
	fs fstest.MapFS
}

func newMapFileSystem(files map[string]string) mapFileSystem {
	m := make(fstest.MapFS, len(files))
	for name, data := range files {
		m[normalizeTestPath(name)] = &fstest.MapFile{Mode: 0o644, Data: []byte(data)}
	}
	if len(m) == 0 {
		m["."] = &fstest.MapFile{Mode: fs.ModeDir}
	}
	return mapFileSystem{fs: m}
}

func (m mapFileSystem) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(m.fs, normalizeTestPath(name))
}

func (m mapFileSystem) Stat(name string) (fs.FileInfo, error) {
	return fs.Stat(m.fs, normalizeTestPath(name))
}

func (m mapFileSystem) WalkDir(root string, fn fs.WalkDirFunc) error {
	path := normalizeTestPath(root)
	if path == "" {
		path = "."
	}
	return fs.WalkDir(m.fs, path, fn)
}

func normalizeTestPath(p string) string {
	if p == "" {
		return ""
	}
	cleaned := filepath.ToSlash(p)
	cleaned = strings.TrimPrefix(cleaned, "./")
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" {
		return "."
	}
	return cleaned
}

func TestChunkContentProducesExpectedChunks(t *testing.T) {
	content := strings.Join([]string{
		"line1",
		"line2",
		"line3",
		"line4",
		"line5",
		"line6",
		"line7",
	}, "\n")

	chunks, err := ChunkContent("sample.txt", []byte(content), ChunkOptions{ChunkSize: 3, ChunkOverlap: 1})
	if err != nil {
		t.Fatalf("ChunkContent returned error: %v", err)
	}

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}

	expectedRanges := [][2]int{{1, 3}, {3, 5}, {5, 7}}
	expectedContents := []string{
		"line1\nline2\nline3",
		"line3\nline4\nline5",
		"line5\nline6\nline7",
	}

	for i, chunk := range chunks {
		if chunk.StartLine != expectedRanges[i][0] || chunk.EndLine != expectedRanges[i][1] {
			t.Fatalf("chunk %d range mismatch: expected %v got (%d,%d)", i, expectedRanges[i], chunk.StartLine, chunk.EndLine)
		}
		if chunk.Content != expectedContents[i] {
			t.Fatalf("chunk %d content mismatch: expected %q got %q", i, expectedContents[i], chunk.Content)
		}
		if chunk.ContentHash == "" {
			t.Fatalf("chunk %d expected non-empty hash", i)
		}
		if chunk.FilePath != "sample.txt" {
			t.Fatalf("chunk %d expected file path sample.txt, got %q", i, chunk.FilePath)
		}
	}
}

func TestChunkContentOverlapAdjusted(t *testing.T) {
	chunks, err := ChunkContent("overlap.txt", []byte("A\nB\nC\nD"), ChunkOptions{ChunkSize: 3, ChunkOverlap: 5})
	if err != nil {
		t.Fatalf("ChunkContent returned error: %v", err)
	}

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks due to adjusted overlap, got %d", len(chunks))
	}

	if chunks[1].StartLine != 2 {
		t.Fatalf("expected second chunk to start at line 2 due to overlap adjustment, got %d", chunks[1].StartLine)
	}
}

func TestChunkContentValidatesParameters(t *testing.T) {
	if _, err := ChunkContent("x.txt", []byte("a"), ChunkOptions{ChunkSize: 0}); err == nil {
		t.Fatalf("expected error when chunk size is zero")
	}
	if _, err := ChunkContent("x.txt", []byte("a"), ChunkOptions{ChunkSize: 2, ChunkOverlap: -1}); err == nil {
		t.Fatalf("expected error when overlap is negative")
	}
}

func TestChunkContentEmptyContent(t *testing.T) {
	chunks, err := ChunkContent("empty.txt", nil, ChunkOptions{ChunkSize: 4, ChunkOverlap: 1})
	if err != nil {
		t.Fatalf("ChunkContent returned error: %v", err)
	}
	if len(chunks) != 0 {
		t.Fatalf("expected no chunks for empty file, got %d", len(chunks))
	}
}
