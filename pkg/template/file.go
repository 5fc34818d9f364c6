package template

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileStore is a file-based template store for CLI usage.
// The template is stored as a single JSON record with a last-modified
// timestamp under the user config directory.
type FileStore struct {
	path string
}

// fileRecord is the on-disk shape of the template.
type fileRecord struct {
	Views     Map       `json:"views"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewFileStore creates a file-based store at path.
// If path is empty, defaults to ~/.config/kitforge/template.json.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		path = filepath.Join(home, ".config", "kitforge", "template.json")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create template dir: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Path returns the template file location.
func (s *FileStore) Path() string { return s.path }

// Load reads the template from disk. A missing or malformed file yields an
// empty map without error; the store never blocks the studio over a bad
// record.
func (s *FileStore) Load(ctx context.Context) (Map, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Map{}, nil
	}

	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil || rec.Views == nil {
		return Map{}, nil
	}
	return rec.Views, nil
}

// Save writes the whole map, replacing any previous record. The write goes
// through a temp file and rename so a crash mid-write cannot leave a
// half-written template behind.
func (s *FileStore) Save(ctx context.Context, m Map) error {
	rec := fileRecord{Views: m, UpdatedAt: time.Now().UTC()}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal template: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace template: %w", err)
	}
	return nil
}

// Clear removes the template file.
func (s *FileStore) Clear(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove template: %w", err)
	}
	return nil
}

// Close does nothing for the file store.
func (s *FileStore) Close() error { return nil }

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
