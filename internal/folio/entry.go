package folio

import (
	"errors"
	"path"
	"strings"
)

// ErrInvalidPath is returned when a path is empty or escapes the folder root.
var ErrInvalidPath = errors.New("invalid path")

// FileEntry is one selected file as handed over by a picker.
type FileEntry struct {
	Path    string
	Content []byte
}

// NormalizePath converts a picker supplied path into the slash separated,
// root relative form used as a VFS key. Only separators, "." segments and the
// leading slash change; names keep their spaces.
func NormalizePath(p string) (string, error) {
	cleaned := strings.ReplaceAll(p, "\\", "/")
	cleaned = path.Clean("/" + cleaned)
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." {
		return "", ErrInvalidPath
	}
	// path.Clean on a rooted path never leaves "..", so compare against the raw
	// segments to refuse climbing out of the selected folder.
	for _, seg := range strings.Split(strings.ReplaceAll(p, "\\", "/"), "/") {
		if seg == ".." {
			return "", ErrInvalidPath
		}
	}
	return cleaned, nil
}
