package history

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	ctsio "github.com/jrh3k5/tokentx-export/internal/io"
)

// FileStore persists the address history as a YAML file.
// Writes within one process are serialized; concurrent writers in other processes may lose updates.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by the file at the given path. The file need not exist yet.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Addresses returns the network's history, most recent first.
func (s *FileStore) Addresses(network string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, err := s.load()
	if err != nil {
		return nil, err
	}

	return h.Addresses(network), nil
}

// RecordAddress adds the address to the front of the network's history and saves it.
func (s *FileStore) RecordAddress(network string, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, err := s.load()
	if err != nil {
		return err
	}

	h.Add(network, address)

	return s.save(h)
}

func (s *FileStore) load() (*History, error) {
	exists, err := ctsio.FileExists(s.path)
	if err != nil {
		return nil, err
	}

	if !exists {
		return New(), nil
	}

	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open address history file '%s': %w", s.path, err)
	}
	defer func() { _ = file.Close() }()

	h, err := FromYAML(ctsio.StripUTF8BOM(file))
	if err != nil {
		return nil, fmt.Errorf("failed to read address history file '%s': %w", s.path, err)
	}

	return h, nil
}

// save writes to a temporary file next to the history file and renames it into place.
func (s *FileStore) save(h *History) error {
	var buf bytes.Buffer
	if err := ToYAML(h, &buf); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create directory for address history '%s': %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary address history file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("failed to write address history: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary address history file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace address history file '%s': %w", s.path, err)
	}

	return nil
}
