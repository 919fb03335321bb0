package lifecycle

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoSnapshot is returned by Load when no snapshot has been saved.
var ErrNoSnapshot = errors.New("no snapshot saved")

// FileStore keeps a single snapshot as a JSON file. A snapshot is consumed
// by Take, so it is restored at most once.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the snapshot file location.
func (s *FileStore) Path() string {
	return s.path
}

// Save writes the bundle, replacing any previous snapshot.
func (s *FileStore) Save(b *Bundle) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	// Write then rename: readers never see a partial file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}

// Load reads the saved bundle. It returns ErrNoSnapshot if none exists.
func (s *FileStore) Load() (*Bundle, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	b := NewBundle()
	if err := json.Unmarshal(data, b); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return b, nil
}

// Take loads the saved bundle and removes it from disk.
func (s *FileStore) Take() (*Bundle, error) {
	b, err := s.Load()
	if err != nil {
		return nil, err
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return b, fmt.Errorf("remove snapshot: %w", err)
	}
	return b, nil
}
