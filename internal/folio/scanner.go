package folio

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// ScanOptions control which files of a folder become picker records.
type ScanOptions struct {
	IgnoreDirs  []string
	MaxFileSize int64
}

// CollectRecords walks root and returns one raw {path, bytes} record per
// regular file, sorted by relative path. Ignored directories are skipped and
// files larger than MaxFileSize (when positive) are left out.
func CollectRecords(filesystem FileSystem, root string, opts ScanOptions) ([]map[string]any, error) {
	info, err := filesystem.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	ignoreSet := make(map[string]struct{}, len(opts.IgnoreDirs))
	for _, dir := range opts.IgnoreDirs {
		clean := strings.Trim(strings.TrimSpace(dir), "/")
		if clean == "" {
			continue
		}
		ignoreSet[filepath.ToSlash(clean)] = struct{}{}
	}

	var records []map[string]any
	err = filesystem.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		relSlash := filepath.ToSlash(rel)
		if d.IsDir() {
			if relSlash == "." {
				return nil
			}
			if _, ok := ignoreSet[relSlash]; ok {
				return fs.SkipDir
			}
			if _, ok := ignoreSet[d.Name()]; ok {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if opts.MaxFileSize > 0 {
			fi, infoErr := d.Info()
			if infoErr != nil {
				return infoErr
			}
			if fi.Size() > opts.MaxFileSize {
				return nil
			}
		}
		data, readErr := filesystem.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("read %s: %w", relSlash, readErr)
		}
		records = append(records, map[string]any{"path": relSlash, "bytes": data})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i]["path"].(string) < records[j]["path"].(string)
	})
	return records, nil
}
