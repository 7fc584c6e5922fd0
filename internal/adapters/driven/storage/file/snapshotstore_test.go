package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/domain"
)

func TestSnapshotStore_Load_Missing(t *testing.T) {
	store := NewSnapshotStore()

	_, err := store.Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSnapshotStore_Save_CreatesDirectories(t *testing.T) {
	store := NewSnapshotStore()
	path := filepath.Join(t.TempDir(), "App_Data", "nested", "content.json")

	require.NoError(t, store.Save(path, []byte(`[]`)))

	data, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestSnapshotStore_Save_Replaces(t *testing.T) {
	store := NewSnapshotStore()
	path := filepath.Join(t.TempDir(), "content.json")

	require.NoError(t, store.Save(path, []byte(`[{"ID":"first"}]`)))
	require.NoError(t, store.Save(path, []byte(`[]`)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestSnapshotStore_Save_LeavesNoTemporaryFiles(t *testing.T) {
	store := NewSnapshotStore()
	dir := t.TempDir()
	path := filepath.Join(dir, "content.json")

	require.NoError(t, store.Save(path, []byte(`[]`)))
	require.NoError(t, store.Save(path, []byte(`[1]`)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "content.json", entries[0].Name())
}

func TestSnapshotStore_Save_DirectoryIsAFile(t *testing.T) {
	store := NewSnapshotStore()
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := store.Save(filepath.Join(blocker, "content.json"), []byte(`[]`))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating directory")
}

func TestSnapshotStore_Save_KeepsExistingMode(t *testing.T) {
	store := NewSnapshotStore()
	path := filepath.Join(t.TempDir(), "content.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o600))

	require.NoError(t, store.Save(path, []byte(`[1]`)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[1]", string(data))
}

func TestSnapshotStore_Save_NewFileMode(t *testing.T) {
	store := NewSnapshotStore()
	path := filepath.Join(t.TempDir(), "content.json")

	require.NoError(t, store.Save(path, []byte(`[]`)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Mode().Perm()&^0o644, "mode %v exceeds 0644", info.Mode().Perm())
	assert.NotZero(t, info.Mode().Perm()&0o600)
}
