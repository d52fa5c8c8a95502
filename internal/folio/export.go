package folio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zip"
)

// zipEpoch is stamped on every archive entry so that exporting an unchanged
// snapshot always yields the same bytes.
var zipEpoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// WriteZip serializes the snapshot into a zip archive, one entry per path.
func WriteZip(w io.Writer, v *VFS) error {
	zw := zip.NewWriter(w)
	for _, p := range v.List() {
		data, _ := v.Read(p)
		hdr := &zip.FileHeader{
			Name:     p,
			Method:   zip.Deflate,
			Modified: zipEpoch,
		}
		hdr.SetMode(0o644)
		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			zw.Close()
			return fmt.Errorf("create entry %s: %w", p, err)
		}
		if _, err := fw.Write(data); err != nil {
			zw.Close()
			return fmt.Errorf("write entry %s: %w", p, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish archive: %w", err)
	}
	return nil
}

// ReadZip loads every file entry of an archive into memory.
func ReadZip(r io.ReaderAt, size int64) (map[string][]byte, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	files := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open entry %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read entry %s: %w", f.Name, err)
		}
		files[f.Name] = data
	}
	return files, nil
}

// Exporter writes snapshots as zip files into a directory.
type Exporter struct {
	Dir  string
	Name string
	Now  func() time.Time
}

// Export writes the snapshot to <Dir>/<Name>-<timestamp>.zip and returns the
// archive path. An existing archive is never overwritten; a numeric suffix is
// added instead.
func (e Exporter) Export(v *VFS) (string, error) {
	if v.Len() == 0 {
		return "", ErrNothingToExport
	}
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	name := e.Name
	if name == "" {
		name = "folio"
	}
	dir := e.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	var buf bytes.Buffer
	if err := WriteZip(&buf, v); err != nil {
		return "", err
	}
	stamp := now().Format("20060102-150405")
	for attempt := 0; ; attempt++ {
		base := fmt.Sprintf("%s-%s.zip", name, stamp)
		if attempt > 0 {
			base = fmt.Sprintf("%s-%s-%d.zip", name, stamp, attempt)
		}
		target := filepath.Join(dir, base)
		file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create archive: %w", err)
		}
		_, err = file.Write(buf.Bytes())
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return "", fmt.Errorf("write archive: %w", err)
		}
		return target, nil
	}
}
