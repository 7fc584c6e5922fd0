// Package file stores backing files on the local filesystem.
package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/domain"
	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore replaces backing files atomically: content is written to
// a temporary file next to the target, synced, and renamed over it.
type SnapshotStore struct {
	dirPerm  fs.FileMode
	filePerm fs.FileMode
}

// NewSnapshotStore creates a snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{dirPerm: 0o755, filePerm: 0o644}
}

// Load returns the file content. A missing file yields domain.ErrNotFound.
func (s *SnapshotStore) Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// Save replaces the file content, creating parent directories as needed.
// An existing file keeps its permissions.
func (s *SnapshotStore) Save(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, s.dirPerm); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	if err := renameio.WriteFile(path, data, s.filePerm); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
