package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// File is one entry in a downloadable archive.
type File struct {
	Name string
	Data []byte
}

// Build packs the files into a zip archive held in memory.
func Build(files []File) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, file := range files {
		w, err := zw.Create(file.Name)
		if err != nil {
			return nil, fmt.Errorf("archive %s: %w", file.Name, err)
		}
		if _, err := w.Write(file.Data); err != nil {
			return nil, fmt.Errorf("archive %s: %w", file.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
