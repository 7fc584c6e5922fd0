package driven

// SnapshotStore reads and writes whole backing files.
type SnapshotStore interface {
	// Load returns the file content. A missing file yields domain.ErrNotFound.
	Load(path string) ([]byte, error)

	// Save replaces the file content, creating parent directories as needed.
	Save(path string, data []byte) error
}
