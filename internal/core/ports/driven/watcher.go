package driven

import (
	"context"

	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/domain"
)

// FileWatcher reports changes to individual files.
type FileWatcher interface {
	// Add starts watching path. The file need not exist yet.
	Add(path string) error

	// Run delivers events until ctx is cancelled or the watcher is closed.
	Run(ctx context.Context, fn func(domain.FileEvent)) error

	// Close stops watching.
	Close() error
}
