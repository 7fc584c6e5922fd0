package memory

import (
	"context"
	"sync"

	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/domain"
	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/ports/driven"
)

// Ensure Journal implements the interface.
var _ driven.CommitJournal = (*Journal)(nil)

// Journal is an in-memory implementation of driven.CommitJournal.
type Journal struct {
	mu      sync.RWMutex
	records []domain.CommitRecord
	closed  bool
}

// NewJournal creates a new in-memory journal.
func NewJournal() *Journal {
	return &Journal{}
}

// Record appends a commit record and assigns it the next id.
func (j *Journal) Record(_ context.Context, record domain.CommitRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	record.ID = int64(len(j.records) + 1)
	j.records = append(j.records, record)
	return nil
}

// Recent returns up to limit records, newest first. An empty mapping
// matches every mapping; a limit of zero or less returns all records.
func (j *Journal) Recent(_ context.Context, mapping string, limit int) ([]domain.CommitRecord, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	var out []domain.CommitRecord
	for i := len(j.records) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		if mapping == "" || j.records[i].Mapping == mapping {
			out = append(out, j.records[i])
		}
	}
	return out, nil
}

// Close marks the journal closed.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.closed = true
	return nil
}

// Closed reports whether Close was called.
func (j *Journal) Closed() bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.closed
}
