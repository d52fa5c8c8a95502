package folio

import (
	"bytes"
	"fmt"
	"sort"
)

// VFS is an immutable in-memory snapshot of a loaded folder, keyed by
// normalized path. A new snapshot replaces the previous one wholesale.
type VFS struct {
	files map[string][]byte
	paths []string
}

// NewVFS builds a snapshot from parsed entries. Entries must have unique
// normalized paths.
func NewVFS(entries []FileEntry) (*VFS, error) {
	v := &VFS{files: make(map[string][]byte, len(entries))}
	for _, entry := range entries {
		p, err := NormalizePath(entry.Path)
		if err != nil {
			return nil, fmt.Errorf("mount %q: %w", entry.Path, err)
		}
		if _, ok := v.files[p]; ok {
			return nil, fmt.Errorf("mount %q: duplicate path", p)
		}
		v.files[p] = append([]byte(nil), entry.Content...)
	}
	v.reindex()
	return v, nil
}

// EmptyVFS returns a snapshot with no files.
func EmptyVFS() *VFS {
	return &VFS{files: map[string][]byte{}}
}

func (v *VFS) reindex() {
	v.paths = make([]string, 0, len(v.files))
	for p := range v.files {
		v.paths = append(v.paths, p)
	}
	sort.Strings(v.paths)
}

// List returns every path in lexical order.
func (v *VFS) List() []string {
	if v == nil {
		return nil
	}
	return append([]string(nil), v.paths...)
}

// Read returns a copy of the content stored at path.
func (v *VFS) Read(path string) ([]byte, bool) {
	if v == nil {
		return nil, false
	}
	data, ok := v.files[path]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

// Len reports the number of files.
func (v *VFS) Len() int {
	if v == nil {
		return 0
	}
	return len(v.files)
}

// Size reports the total number of content bytes.
func (v *VFS) Size() int64 {
	if v == nil {
		return 0
	}
	var total int64
	for _, data := range v.files {
		total += int64(len(data))
	}
	return total
}

// With returns a new snapshot containing every file of v plus path set to data.
func (v *VFS) With(path string, data []byte) (*VFS, error) {
	p, err := NormalizePath(path)
	if err != nil {
		return nil, fmt.Errorf("write %q: %w", path, err)
	}
	next := &VFS{files: make(map[string][]byte, v.Len()+1)}
	if v != nil {
		for k, content := range v.files {
			next.files[k] = content
		}
	}
	next.files[p] = append([]byte(nil), data...)
	next.reindex()
	return next, nil
}

// Entries returns the snapshot as path ordered entries.
func (v *VFS) Entries() []FileEntry {
	entries := make([]FileEntry, 0, v.Len())
	for _, p := range v.List() {
		data, _ := v.Read(p)
		entries = append(entries, FileEntry{Path: p, Content: data})
	}
	return entries
}

// Equal reports whether both snapshots hold the same paths and contents.
func (v *VFS) Equal(other *VFS) bool {
	if v.Len() != other.Len() {
		return false
	}
	if v == nil || other == nil {
		return true
	}
	for p, data := range v.files {
		od, ok := other.files[p]
		if !ok || !bytes.Equal(data, od) {
			return false
		}
	}
	return true
}
