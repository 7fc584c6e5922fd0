// Package jsoncodec encodes item trees as JSON snapshots.
//
// An item is written as
//
//	{
//	  "ID": "{GUID}",
//	  "Name": "Home",
//	  "TemplateID": "{GUID}",
//	  "Fields": {
//	    "Shared": {"{field}": "value"},
//	    "Unversioned": {"en": {"{field}": "value"}},
//	    "Versioned": {"en": {"1": {"{field}": "value"}}}
//	  },
//	  "Children": []
//	}
//
// Object keys are written in the order they were stored and read back in
// file order. Languages without values are omitted and null items are
// skipped on load.
package jsoncodec

import (
	"encoding/json"
	"errors"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/domain"
	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/ports/driven"
)

// ErrSyntax is returned for snapshot text that does not have the expected
// shape.
var ErrSyntax = errors.New("unexpected json")

// Ensure Codec implements the interface.
var _ driven.TreeCodec = (*Codec)(nil)

// Codec is the JSON tree codec. It is stateless and safe for concurrent use.
type Codec struct{}

// New creates a codec.
func New() *Codec {
	return &Codec{}
}

// MarshalItems encodes a list of top-level items.
func (c *Codec) MarshalItems(items []*domain.Item, pretty bool) ([]byte, error) {
	data, err := encode(newItemDocs(items), pretty)
	if err != nil {
		return nil, fmt.Errorf("encoding items: %w", err)
	}
	return data, nil
}

// UnmarshalItems decodes a list of top-level items. A null document
// yields no items.
func (c *Codec) UnmarshalItems(data []byte) ([]*domain.Item, error) {
	var docs []*itemDoc
	err := json.Unmarshal(data, &docs)
	var items []*domain.Item
	if err == nil {
		items, err = toItems(docs)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding items: %w: %w", ErrSyntax, err)
	}
	return items, nil
}

// MarshalRoots encodes an object keyed by root id, in entry order.
func (c *Codec) MarshalRoots(roots []driven.RootEntry, pretty bool) ([]byte, error) {
	doc := orderedmap.New[domain.ID, []*itemDoc](len(roots))
	for _, root := range roots {
		doc.Set(root.ID, newItemDocs(root.Children))
	}
	data, err := encode(doc, pretty)
	if err != nil {
		return nil, fmt.Errorf("encoding roots: %w", err)
	}
	return data, nil
}

// UnmarshalRoots decodes an object keyed by root id, preserving key order.
// A null document yields no roots.
func (c *Codec) UnmarshalRoots(data []byte) ([]driven.RootEntry, error) {
	roots, err := decodeRoots(data)
	if err != nil {
		return nil, fmt.Errorf("decoding roots: %w: %w", ErrSyntax, err)
	}
	return roots, nil
}

func decodeRoots(data []byte) ([]driven.RootEntry, error) {
	var doc *orderedmap.OrderedMap[domain.ID, []*itemDoc]
	if err := json.Unmarshal(data, &doc); err != nil || doc == nil {
		return nil, err
	}
	roots := make([]driven.RootEntry, 0, doc.Len())
	for pair := doc.Oldest(); pair != nil; pair = pair.Next() {
		children, err := toItems(pair.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pair.Key, err)
		}
		roots = append(roots, driven.RootEntry{ID: pair.Key, Children: children})
	}
	return roots, nil
}

// encode marshals v, indented when pretty is set. Pretty output ends with
// a newline.
func encode(v any, pretty bool) ([]byte, error) {
	if !pretty {
		return json.Marshal(v)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
