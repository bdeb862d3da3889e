package io

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DirectorySink saves exported files into a directory.
type DirectorySink struct {
	dir string
}

// NewDirectorySink creates a sink writing into dir, which is created on first use if missing.
func NewDirectorySink(dir string) *DirectorySink {
	return &DirectorySink{dir: dir}
}

// Save writes the content to a new file named filename inside the sink's directory and returns its path.
// An existing file is never overwritten.
func (s *DirectorySink) Save(ctx context.Context, filename string, content []byte) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || strings.ContainsAny(filename, `/\`) {
		return "", fmt.Errorf("invalid file name '%s'", filename)
	}

	if err := os.MkdirAll(s.dir, 0o750); err != nil { //nolint:mnd
		return "", fmt.Errorf("failed to create output directory '%s': %w", s.dir, err)
	}

	filePath := filepath.Join(s.dir, filename)

	exists, err := FileExists(filePath)
	if err != nil {
		return "", err
	}
	if exists {
		return "", fmt.Errorf("refusing to overwrite existing file at path '%s'", filePath)
	}

	//nolint:gosec
	file, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file at path '%s': %w", filePath, err)
	}

	_, writeErr := file.Write(content)
	closeErr := file.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		return "", fmt.Errorf("failed to write file at path '%s': %w", filePath, err)
	}

	slog.DebugContext(ctx, "Wrote export file", "path", filePath, "bytes", len(content))

	return filePath, nil
}
