package services

import (
	"context"
	"fmt"

	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/domain"
	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/ports/driving"
)

// Verify interface compliance at compile time.
var _ driving.Mapping = (*SubtreeMapping)(nil)

// SubtreeMapping stores the descendants of a single anchor item that is
// owned by the host. Top-level items report the anchor as their parent.
// Operations never reach past the anchor.
//
// Snapshots are written after the write lock is released, serialized by a
// separate commit lock.
type SubtreeMapping struct {
	*engine
	anchor domain.ID
}

// NewSubtreeMapping creates an anchored mapping and loads its backing file.
func NewSubtreeMapping(spec domain.MappingSpec, deps MappingDeps) (*SubtreeMapping, error) {
	if !spec.Anchored() {
		return nil, fmt.Errorf("%w: mapping %q: subtree mapping needs an anchor item",
			domain.ErrInvalidConfiguration, spec.Name)
	}
	e, err := newEngine(spec, deps)
	if err != nil {
		return nil, err
	}
	m := &SubtreeMapping{engine: e, anchor: spec.Anchor}
	e.isTop = func(parentID domain.ID) bool { return parentID == m.anchor }
	e.hidden = func(*domain.Item) bool { return false }
	e.encode = func() ([]byte, error) { return m.deps.Codec.MarshalItems(m.roots, m.spec.Pretty) }

	if err := e.load(m.decode); err != nil {
		return nil, err
	}
	for _, item := range m.roots {
		item.ParentID = m.anchor
	}
	return m, nil
}

// Anchor returns the id of the item the mapping hangs under.
func (m *SubtreeMapping) Anchor() domain.ID {
	return m.anchor
}

// decode reads a list of top-level items, falling back to the legacy
// layout of an object with the anchor as its only key.
func (m *SubtreeMapping) decode(data []byte) ([]*domain.Item, error) {
	items, listErr := m.deps.Codec.UnmarshalItems(data)
	if listErr == nil {
		return items, nil
	}

	entries, err := m.deps.Codec.UnmarshalRoots(data)
	if err != nil {
		return nil, listErr
	}
	switch {
	case len(entries) == 0:
		return nil, nil
	case len(entries) > 1:
		return nil, fmt.Errorf("the root object contains %d keys, expected only %s", len(entries), m.anchor)
	case entries[0].ID != m.anchor:
		return nil, fmt.Errorf("the root object key %s differs from the configured item %s", entries[0].ID, m.anchor)
	}
	return entries[0].Children, nil
}

// ChildIDs returns the ids of the item's children. The anchor lists the
// top-level items.
func (m *SubtreeMapping) ChildIDs(itemID domain.ID) ([]domain.ID, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if itemID == m.anchor {
		return domain.ItemIDs(m.roots), true
	}
	item, ok := m.cache.Get(itemID)
	if !ok {
		return nil, false
	}
	return item.ChildIDs(), true
}

// AcceptsNewChildrenOf reports whether items may be created under itemID:
// the anchor or any item the mapping holds.
func (m *SubtreeMapping) AcceptsNewChildrenOf(itemID domain.ID) bool {
	if m.spec.ReadOnly {
		return false
	}
	return m.resolves(itemID)
}

func (m *SubtreeMapping) resolves(itemID domain.ID) bool {
	if itemID == m.anchor {
		return true
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cache.Contains(itemID)
}

// resolvesLocked is resolves for callers already holding mu.
func (m *SubtreeMapping) resolvesLocked(itemID domain.ID) bool {
	return itemID == m.anchor || m.cache.Contains(itemID)
}

// CreateItem adds an empty item under the anchor or an existing item.
func (m *SubtreeMapping) CreateItem(ctx context.Context, itemID domain.ID, name string, templateID, parentID domain.ID) (bool, error) {
	return m.mutate(ctx, domain.OpCreate, itemID, func() (outcome, error) {
		if itemID.IsNull() || itemID == m.anchor || m.cache.Contains(itemID) || !m.resolvesLocked(parentID) {
			return rejected, nil
		}
		if err := m.insert(parentID, domain.NewItem(itemID, name, templateID, parentID)); err != nil {
			return rejected, err
		}
		return changed, nil
	})
}

// CopyItem deep-copies the source subtree under the anchor or an existing
// item.
func (m *SubtreeMapping) CopyItem(ctx context.Context, sourceID, destinationID, copyID domain.ID, copyName string) (bool, error) {
	return m.mutate(ctx, domain.OpCopy, copyID, func() (outcome, error) {
		if copyID == m.anchor {
			return rejected, nil
		}
		return m.copyItem(sourceID, destinationID, copyID, copyName, m.resolvesLocked)
	})
}

// MoveItem re-parents an item under the anchor or an existing item.
func (m *SubtreeMapping) MoveItem(ctx context.Context, itemID, targetID domain.ID) (bool, error) {
	return m.mutate(ctx, domain.OpMove, itemID, func() (outcome, error) {
		return m.moveItem(itemID, targetID, m.resolvesLocked)
	})
}
