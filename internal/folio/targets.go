package folio

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// MountedFile describes one file of a published snapshot.
type MountedFile struct {
	Path   string `json:"path"`
	Size   int    `json:"size"`
	SHA256 string `json:"sha256"`
}

// MountEvent is handed to every registered target after a snapshot is mounted.
type MountEvent struct {
	Source string
	VFS    *VFS
}

// Manifest lists every file of the event's snapshot in path order.
func (e MountEvent) Manifest() []MountedFile {
	files := make([]MountedFile, 0, e.VFS.Len())
	for _, p := range e.VFS.List() {
		data, _ := e.VFS.Read(p)
		sum := sha256.Sum256(data)
		files = append(files, MountedFile{Path: p, Size: len(data), SHA256: hex.EncodeToString(sum[:])})
	}
	return files
}

// MountTarget consumes mounted snapshots.
type MountTarget interface {
	ApplyMount(ctx context.Context, event MountEvent) error
}
