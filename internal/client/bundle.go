package client

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"convertly-go/internal/models"

	"github.com/klauspost/compress/zip"
)

// ArchiveName is the file name used for bundled downloads
const ArchiveName = "converted_images.zip"

// Bundle packs every file into one zip archive. Entries are stored as is,
// named by the file name, in the order given.
func Bundle(files []models.ConvertedFile) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteBundle(&buf, files); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteBundle writes the zip archive of files to w
func WriteBundle(w io.Writer, files []models.ConvertedFile) error {
	zw := zip.NewWriter(w)
	now := time.Now()

	for _, f := range files {
		data, err := Decode(f)
		if err != nil {
			zw.Close()
			return err
		}

		entry, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Store,
			Modified: now,
		})
		if err != nil {
			zw.Close()
			return fmt.Errorf("error creating archive entry %s: %w", f.Name, err)
		}
		if _, err := entry.Write(data); err != nil {
			zw.Close()
			return fmt.Errorf("error writing archive entry %s: %w", f.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("error finalizing archive: %w", err)
	}
	return nil
}

// SaveBundle writes the archive of files to dir and returns its path
func SaveBundle(dir string, files []models.ConvertedFile) (string, error) {
	data, err := Bundle(files)
	if err != nil {
		return "", err
	}

	target := filepath.Join(dir, ArchiveName)
	if err := writeAtomic(target, data); err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrDownload, ArchiveName, err)
	}
	return target, nil
}
