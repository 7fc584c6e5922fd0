package domain

import "slices"

// Item is one node of the item tree.
//
// Children are owned exclusively by their parent. ParentID is a
// back-reference for navigation and must always agree with the container
// that actually holds the item.
type Item struct {
	// ID is unique within a mapping and never changes.
	ID ID

	// Name is the display name.
	Name string

	// TemplateID names the item's type.
	TemplateID ID

	// ParentID is the parent's id, NullID for a forest root.
	ParentID ID

	// Children in display order.
	Children []*Item

	// Fields is the item's field scope store.
	Fields *ItemFields
}

// NewItem returns an item with no children and empty fields.
func NewItem(id ID, name string, templateID, parentID ID) *Item {
	return &Item{
		ID:         id,
		Name:       name,
		TemplateID: templateID,
		ParentID:   parentID,
		Fields:     NewItemFields(),
	}
}

// ItemDefinition is the host-visible identity of an item.
type ItemDefinition struct {
	ID         ID
	Name       string
	TemplateID ID
	ParentID   ID
}

// Definition returns the item's definition.
func (i *Item) Definition() ItemDefinition {
	return ItemDefinition{
		ID:         i.ID,
		Name:       i.Name,
		TemplateID: i.TemplateID,
		ParentID:   i.ParentID,
	}
}

// ChildIDs returns the ids of the direct children in order.
func (i *Item) ChildIDs() []ID {
	return ItemIDs(i.Children)
}

// Walk visits i and its descendants depth-first, parents before children.
func (i *Item) Walk(fn func(*Item)) {
	fn(i)
	for _, child := range i.Children {
		child.Walk(fn)
	}
}

// Contains reports whether id is i or one of its descendants.
func (i *Item) Contains(id ID) bool {
	if i.ID == id {
		return true
	}
	for _, child := range i.Children {
		if child.Contains(id) {
			return true
		}
	}
	return false
}

// Clone deep-copies the subtree rooted at i. The copy's root gets rootID,
// rootName, and parentID; every descendant gets a fresh id from newID and
// keeps its name, template, and fields. No field maps are shared.
func (i *Item) Clone(rootID ID, rootName string, parentID ID, newID func() ID) *Item {
	c := &Item{
		ID:         rootID,
		Name:       rootName,
		TemplateID: i.TemplateID,
		ParentID:   parentID,
		Fields:     i.Fields.Clone(),
	}
	for _, child := range i.Children {
		c.Children = append(c.Children, child.Clone(newID(), child.Name, c.ID, newID))
	}
	return c
}

// Copy deep-copies the subtree rooted at i, keeping every id.
func (i *Item) Copy() *Item {
	c := &Item{
		ID:         i.ID,
		Name:       i.Name,
		TemplateID: i.TemplateID,
		ParentID:   i.ParentID,
		Fields:     i.Fields.Clone(),
	}
	for _, child := range i.Children {
		c.Children = append(c.Children, child.Copy())
	}
	return c
}

// ItemIDs returns the ids of items in order.
func ItemIDs(items []*Item) []ID {
	ids := make([]ID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}

// RemoveItem removes the item with the given id from items, preserving order.
func RemoveItem(items []*Item, id ID) ([]*Item, bool) {
	n := len(items)
	items = slices.DeleteFunc(items, func(c *Item) bool { return c.ID == id })
	return items, len(items) != n
}
