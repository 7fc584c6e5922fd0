package driven

import (
	"context"

	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/domain"
)

// CommitJournal records every snapshot written by a mapping.
type CommitJournal interface {
	// Record appends a commit record.
	Record(ctx context.Context, record domain.CommitRecord) error

	// Recent returns the newest records first. An empty mapping matches all.
	Recent(ctx context.Context, mapping string, limit int) ([]domain.CommitRecord, error)

	// Close releases resources.
	Close() error
}
