package client

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"convertly-go/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var ErrDownload = errors.New("failed to download")

// Decode returns the raw bytes of a converted file
func Decode(f models.ConvertedFile) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(f.Buffer)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrDownload, f.Name, err)
	}
	return data, nil
}

// SaveFile writes a converted file into dir and returns its path. The bytes
// go to a temp file first, which is removed unless the rename succeeds.
func SaveFile(dir string, f models.ConvertedFile) (string, error) {
	data, err := Decode(f)
	if err != nil {
		return "", err
	}

	name := filepath.Base(filepath.Clean("/" + f.Name))
	if name == "/" || name == "." {
		return "", fmt.Errorf("%w %s: invalid file name", ErrDownload, f.Name)
	}
	target := filepath.Join(dir, name)

	if err := writeAtomic(target, data); err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrDownload, f.Name, err)
	}

	log.Debug().Str("path", target).Int("bytes", len(data)).Msg("saved converted file")
	return target, nil
}

// SaveAll saves every file into dir. A failed file is reported and skipped.
func SaveAll(dir string, files []models.ConvertedFile) ([]string, []error) {
	var paths []string
	var errs []error

	for _, f := range files {
		path, err := SaveFile(dir, f)
		if err != nil {
			log.Warn().Err(err).Str("file", f.Name).Msg("could not save file")
			errs = append(errs, err)
			continue
		}
		paths = append(paths, path)
	}

	return paths, errs
}

func writeAtomic(target string, data []byte) error {
	tmp := filepath.Join(filepath.Dir(target), "."+uuid.NewString()+".tmp")

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("error creating temp file: %w", err)
	}
	defer removeTempFile(tmp)

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("error writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("error closing temp file: %w", err)
	}

	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("error moving temp file: %w", err)
	}
	return nil
}

func removeTempFile(path string) {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Str("path", path).Err(err).Msg("could not clean up temp file")
	}
}
