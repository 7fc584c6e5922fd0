package services

import (
	"fmt"

	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/domain"
)

// ItemCache is a flat index over every item of a mapping's tree.
// It is a secondary index, not a source of truth, and is not safe for
// concurrent use; the owning mapping's lock guards it.
type ItemCache struct {
	items map[domain.ID]*domain.Item
}

// NewItemCache creates an empty cache.
func NewItemCache() *ItemCache {
	return &ItemCache{items: make(map[domain.ID]*domain.Item)}
}

// Get returns the item with the given id.
func (c *ItemCache) Get(id domain.ID) (*domain.Item, bool) {
	item, ok := c.items[id]
	return item, ok
}

// Contains reports whether id is indexed.
func (c *ItemCache) Contains(id domain.ID) bool {
	_, ok := c.items[id]
	return ok
}

// Len returns the number of indexed items.
func (c *ItemCache) Len() int {
	return len(c.items)
}

// Add indexes a single item. It returns false if the id is taken.
func (c *ItemCache) Add(item *domain.Item) bool {
	if _, ok := c.items[item.ID]; ok {
		return false
	}
	c.items[item.ID] = item
	return true
}

// AddTree indexes root and all its descendants. If any id is already
// taken, nothing is indexed.
func (c *ItemCache) AddTree(root *domain.Item) error {
	var added []domain.ID
	var dup *domain.Item
	root.Walk(func(item *domain.Item) {
		if dup != nil {
			return
		}
		if !c.Add(item) {
			dup = item
			return
		}
		added = append(added, item.ID)
	})
	if dup != nil {
		for _, id := range added {
			delete(c.items, id)
		}
		return fmt.Errorf("%w: item %s", domain.ErrAlreadyExists, dup.ID)
	}
	return nil
}

// RemoveTree removes root and all its descendants and returns how many
// entries were removed.
func (c *ItemCache) RemoveTree(root *domain.Item) int {
	removed := 0
	root.Walk(func(item *domain.Item) {
		if _, ok := c.items[item.ID]; ok {
			delete(c.items, item.ID)
			removed++
		}
	})
	return removed
}

// Range calls fn for every item in unspecified order until fn returns false.
func (c *ItemCache) Range(fn func(*domain.Item) bool) {
	for _, item := range c.items {
		if !fn(item) {
			return
		}
	}
}
