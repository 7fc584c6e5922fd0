package driven

import "github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/domain"

// RootEntry is one root of a forest snapshot: a root id and the items
// directly beneath it.
type RootEntry struct {
	ID       domain.ID
	Children []*domain.Item
}

// TreeCodec converts item trees to and from snapshot text.
// Decoded items carry no parent ids; the caller assigns them.
type TreeCodec interface {
	// MarshalItems encodes a list of top-level items.
	MarshalItems(items []*domain.Item, pretty bool) ([]byte, error)

	// UnmarshalItems decodes a list of top-level items.
	UnmarshalItems(data []byte) ([]*domain.Item, error)

	// MarshalRoots encodes an object keyed by root id, in entry order.
	MarshalRoots(roots []RootEntry, pretty bool) ([]byte, error)

	// UnmarshalRoots decodes an object keyed by root id, preserving key order.
	UnmarshalRoots(data []byte) ([]RootEntry, error)
}
