package driving

import (
	"context"

	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/domain"
)

// DataProvider routes item operations across an ordered set of mappings.
type DataProvider interface {
	ItemReader
	ItemWriter

	// Mappings returns the mappings in configuration order.
	Mappings() []Mapping

	// Mapping returns a mapping by name.
	Mapping(name string) (Mapping, bool)

	// Owner returns the mapping that holds itemID.
	Owner(itemID domain.ID) (Mapping, bool)

	// FieldResolver returns the field registry.
	FieldResolver() FieldResolver

	// History returns recent commits, newest first.
	History(ctx context.Context, mapping string, limit int) ([]domain.CommitRecord, error)

	// WatchExternalChanges reports backing files modified outside the
	// provider until ctx is cancelled.
	WatchExternalChanges(ctx context.Context, fn func(domain.ExternalChange)) error

	// Close releases the journal and watcher.
	Close() error
}

// FieldResolver classifies fields.
type FieldResolver interface {
	// Scope returns the scope of a field, ScopeUnknown if undefined.
	Scope(fieldID domain.ID) domain.FieldScope

	// Lookup resolves a field by id text or by name.
	Lookup(nameOrID string) (domain.FieldDefinition, bool)

	// Definitions lists every known field.
	Definitions() []domain.FieldDefinition
}
