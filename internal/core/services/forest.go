package services

import (
	"context"

	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/domain"
	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/ports/driven"
	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/ports/driving"
)

// Verify interface compliance at compile time.
var _ driving.Mapping = (*ForestMapping)(nil)

// ForestMapping stores any number of independent trees. Each tree hangs
// off a synthetic root that is keyed by the id the host created children
// under. Synthetic roots have a null parent and are never visible.
//
// The write lock is held across the commit of every mutation.
type ForestMapping struct {
	*engine
}

// NewForestMapping creates a forest mapping and loads its backing file.
func NewForestMapping(spec domain.MappingSpec, deps MappingDeps) (*ForestMapping, error) {
	e, err := newEngine(spec, deps)
	if err != nil {
		return nil, err
	}
	m := &ForestMapping{engine: e}
	e.isTop = domain.ID.IsNull
	e.hidden = func(item *domain.Item) bool { return item.ParentID.IsNull() }
	e.encode = m.encode
	e.foldCommit = true

	if err := e.load(m.decode); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *ForestMapping) decode(data []byte) ([]*domain.Item, error) {
	entries, err := m.deps.Codec.UnmarshalRoots(data)
	if err != nil {
		return nil, err
	}
	roots := make([]*domain.Item, 0, len(entries))
	for _, entry := range entries {
		root := domain.NewItem(entry.ID, domain.SyntheticRootName, domain.NullID, domain.NullID)
		root.Children = entry.Children
		roots = append(roots, root)
	}
	return roots, nil
}

func (m *ForestMapping) encode() ([]byte, error) {
	entries := make([]driven.RootEntry, 0, len(m.roots))
	for _, root := range m.roots {
		entries = append(entries, driven.RootEntry{ID: root.ID, Children: root.Children})
	}
	return m.deps.Codec.MarshalRoots(entries, m.spec.Pretty)
}

// materialize returns the item with the given id, adding a synthetic root
// for it if it is unknown. mu must be held for writing.
func (m *ForestMapping) materialize(itemID domain.ID) *domain.Item {
	if item, ok := m.cache.Get(itemID); ok {
		return item
	}
	root := domain.NewItem(itemID, domain.SyntheticRootName, domain.NullID, domain.NullID)
	m.cache.Add(root)
	m.roots = append(m.roots, root)
	return root
}

// ChildIDs returns the ids of the item's children. Synthetic roots expose
// their children too.
func (m *ForestMapping) ChildIDs(itemID domain.ID) ([]domain.ID, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.cache.Get(itemID)
	if !ok {
		return nil, false
	}
	return item.ChildIDs(), true
}

// AcceptsNewChildrenOf reports whether the mapping is writable. A forest
// accepts children under any id.
func (m *ForestMapping) AcceptsNewChildrenOf(domain.ID) bool {
	return !m.spec.ReadOnly
}

// CreateItem adds an empty item under parentID, adding a synthetic root
// for parentID if it is unknown.
func (m *ForestMapping) CreateItem(ctx context.Context, itemID domain.ID, name string, templateID, parentID domain.ID) (bool, error) {
	return m.mutate(ctx, domain.OpCreate, itemID, func() (outcome, error) {
		if itemID.IsNull() || parentID.IsNull() || itemID == parentID || m.cache.Contains(itemID) {
			return rejected, nil
		}
		m.materialize(parentID)
		if err := m.insert(parentID, domain.NewItem(itemID, name, templateID, parentID)); err != nil {
			return rejected, err
		}
		return changed, nil
	})
}

// CopyItem deep-copies the source subtree under an existing destination.
func (m *ForestMapping) CopyItem(ctx context.Context, sourceID, destinationID, copyID domain.ID, copyName string) (bool, error) {
	return m.mutate(ctx, domain.OpCopy, copyID, func() (outcome, error) {
		return m.copyItem(sourceID, destinationID, copyID, copyName, m.cache.Contains)
	})
}

// MoveItem re-parents an item, adding a synthetic root for targetID if
// it is unknown.
func (m *ForestMapping) MoveItem(ctx context.Context, itemID, targetID domain.ID) (bool, error) {
	return m.mutate(ctx, domain.OpMove, itemID, func() (outcome, error) {
		return m.moveItem(itemID, targetID, func(target domain.ID) bool {
			if target.IsNull() {
				return false
			}
			m.materialize(target)
			return true
		})
	})
}
