package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/domain"
)

func TestWatchCmd_Use(t *testing.T) {
	assert.Equal(t, "watch", watchCmd.Use)
}

func TestWatchCmd_RejectsArgs(t *testing.T) {
	cleanup := setupTestProvider(t)
	defer cleanup()

	_, err := execute(t, "watch", "content")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestWatchCmd_ReportsExternalChanges(t *testing.T) {
	cleanup := setupTestProvider(t)
	defer cleanup()
	fixture.watcher.events = []domain.FileEvent{
		{Path: defaultPath, Kind: domain.FileRemoved},
		{Path: "/data/unrelated.json", Kind: domain.FileRemoved},
	}

	out, err := execute(t, "watch")
	require.NoError(t, err)

	assert.Contains(t, out, "Watching 2 mapping(s)")
	assert.Contains(t, out, "removed default "+defaultPath)
	assert.NotContains(t, out, "unrelated")
	assert.ElementsMatch(t, []string{contentPath, defaultPath}, fixture.watcher.paths)
}

func TestWatchCmd_IgnoresOwnWrites(t *testing.T) {
	cleanup := setupTestProvider(t)
	defer cleanup()
	fixture.watcher.events = []domain.FileEvent{{Path: contentPath, Kind: domain.FileChanged}}

	out, err := execute(t, "watch")
	require.NoError(t, err)
	assert.NotContains(t, out, "changed content")
}

func TestWatchCmd_ReportsForeignWrites(t *testing.T) {
	cleanup := setupTestProvider(t)
	defer cleanup()
	fixture.snapshots.Put(contentPath, []byte(`[]`))
	fixture.watcher.events = []domain.FileEvent{{Path: contentPath, Kind: domain.FileChanged}}

	out, err := execute(t, "watch")
	require.NoError(t, err)
	assert.Contains(t, out, "changed content "+contentPath)
}
