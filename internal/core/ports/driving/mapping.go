package driving

import (
	"context"

	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/domain"
)

// ItemReader is the read side of a mapping. Reads never mutate and are
// safe to call concurrently. A false result means the item is unknown or
// hidden by the mapping.
type ItemReader interface {
	// ItemDefinition returns the name, template, and parent of an item.
	ItemDefinition(itemID domain.ID) (domain.ItemDefinition, bool)

	// ParentID returns the id of the item's parent.
	ParentID(itemID domain.ID) (domain.ID, bool)

	// ChildIDs returns the ids of the item's children in order.
	ChildIDs(itemID domain.ID) ([]domain.ID, bool)

	// Versions lists every stored (language, version) pair of the item.
	Versions(itemID domain.ID) ([]domain.VersionURI, bool)

	// Fields returns the fields visible for uri.
	Fields(itemID domain.ID, uri domain.VersionURI) (*domain.FieldMap, bool)

	// TemplateIDs returns the ids of template definition items.
	TemplateIDs() []domain.ID

	// Languages returns the names of language definition items.
	Languages() []string
}

// ItemWriter is the mutation side of a mapping. A false result with a nil
// error means the target could not be resolved and nothing changed. A
// non-nil error is fatal for the call: an unclassified field, or a
// snapshot that could not be written.
type ItemWriter interface {
	// CreateItem adds an empty item under parentID.
	CreateItem(ctx context.Context, itemID domain.ID, name string, templateID, parentID domain.ID) (bool, error)

	// CopyItem deep-copies the source subtree under destinationID.
	CopyItem(ctx context.Context, sourceID, destinationID, copyID domain.ID, copyName string) (bool, error)

	// MoveItem re-parents an item under targetID.
	MoveItem(ctx context.Context, itemID, targetID domain.ID) (bool, error)

	// DeleteItem removes an item and its descendants.
	DeleteItem(ctx context.Context, itemID domain.ID) (bool, error)

	// AddVersion adds a version and returns its number. A valid
	// uri.Version that exists is copied without its workflow state.
	AddVersion(ctx context.Context, itemID domain.ID, uri domain.VersionURI) (domain.Version, bool, error)

	// RemoveVersion removes one version.
	RemoveVersion(ctx context.Context, itemID domain.ID, uri domain.VersionURI) (bool, error)

	// RemoveVersions removes every version of a language, or of all
	// languages for domain.Invariant.
	RemoveVersions(ctx context.Context, itemID domain.ID, language domain.Language) (bool, error)

	// SaveItem applies a rename and field edits with a single commit.
	SaveItem(ctx context.Context, itemID domain.ID, changes domain.ItemChanges) (bool, error)
}

// Mapping is one file-backed item tree.
type Mapping interface {
	ItemReader
	ItemWriter

	// Name returns the configured mapping name.
	Name() string

	// Path returns the backing file path.
	Path() string

	// ReadOnly reports whether mutations are rejected.
	ReadOnly() bool

	// AcceptsNewChildrenOf reports whether items may be created under itemID.
	AcceptsNewChildrenOf(itemID domain.ID) bool

	// Len returns the number of cached items.
	Len() int

	// Tree returns a deep copy of the top-level items.
	Tree() []*domain.Item

	// Digest returns the digest of the last snapshot loaded or written.
	Digest() string
}
