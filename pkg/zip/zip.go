// Package zip builds in-memory zip archives for download responses.
package zip

import (
	"archive/zip"
	"bytes"
	"fmt"
)

type File struct {
	Name string
	Data []byte
}

// Archive bundles the files into a single zip blob. Duplicate names are
// rejected since extractors handle them inconsistently.
func Archive(files []File) ([]byte, error) {
	seen := make(map[string]struct{}, len(files))
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, f := range files {
		if _, dup := seen[f.Name]; dup {
			return nil, fmt.Errorf("duplicate archive entry %q", f.Name)
		}
		seen[f.Name] = struct{}{}
		w, err := zw.Create(f.Name)
		if err != nil {
			return nil, fmt.Errorf("create archive entry %q: %w", f.Name, err)
		}
		if _, err := w.Write(f.Data); err != nil {
			return nil, fmt.Errorf("write archive entry %q: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
