package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/domain"
	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/ports/driven"
	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/ports/driving"
	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/logger"
)

// MappingDeps are the adapters a mapping works through.
type MappingDeps struct {
	Codec     driven.TreeCodec
	Snapshots driven.SnapshotStore

	// Journal is optional.
	Journal driven.CommitJournal

	// NewID generates ids for copied descendants. Defaults to domain.NewID.
	NewID func() domain.ID

	// Now stamps new versions. Defaults to time.Now.
	Now func() time.Time
}

// NewMapping builds the mapping strategy selected by spec: an anchored
// subtree when spec has an anchor, a forest otherwise. The backing file
// is loaded before NewMapping returns.
func NewMapping(spec domain.MappingSpec, deps MappingDeps) (driving.Mapping, error) {
	if spec.Anchored() {
		return NewSubtreeMapping(spec, deps)
	}
	return NewForestMapping(spec, deps)
}

// outcome is the result of an in-memory edit.
type outcome int

const (
	// rejected means the target did not resolve; nothing changed.
	rejected outcome = iota
	// unchanged means the call succeeded without touching the tree.
	unchanged
	// changed means the tree was edited and must be committed.
	changed
)

// engine holds the item tree of one mapping and implements everything
// that does not depend on how the top of the tree is laid out.
type engine struct {
	spec domain.MappingSpec
	deps MappingDeps

	// mu guards roots, cache, and every item reachable from them.
	mu sync.RWMutex

	// commitMu serializes snapshot writes made outside mu.
	commitMu sync.Mutex

	roots  []*domain.Item
	cache  *ItemCache
	digest atomic.Pointer[string]

	// isTop reports whether parentID denotes the top-level list.
	isTop func(parentID domain.ID) bool

	// hidden reports whether an item is invisible to the host.
	hidden func(*domain.Item) bool

	// encode serializes the tree; mu is held at least for reading.
	encode func() ([]byte, error)

	// foldCommit keeps the write lock held while the snapshot is written.
	foldCommit bool
}

func newEngine(spec domain.MappingSpec, deps MappingDeps) (*engine, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if deps.Codec == nil || deps.Snapshots == nil {
		return nil, fmt.Errorf("%w: mapping %q: codec and snapshot store are required",
			domain.ErrInvalidConfiguration, spec.Name)
	}
	if deps.NewID == nil {
		deps.NewID = domain.NewID
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	e := &engine{
		spec:  spec,
		deps:  deps,
		cache: NewItemCache(),
	}
	e.setDigest("")
	return e, nil
}

// load reads the backing file and indexes the decoded tree. A missing or
// blank file yields an empty tree.
func (e *engine) load(decode func([]byte) ([]*domain.Item, error)) error {
	path := e.spec.Path
	data, err := e.deps.Snapshots.Load(path)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	logger.Info("Deserializing items from: %s", path)
	e.setDigest(digestOf(data))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	roots, err := decode(data)
	if err != nil {
		return fmt.Errorf("%w: cannot deserialize json file %s: %v", domain.ErrCorruptPersistence, path, err)
	}
	for _, root := range roots {
		adopt(root)
		if err := e.cache.AddTree(root); err != nil {
			return fmt.Errorf("%w: json file %s: %v", domain.ErrCorruptPersistence, path, err)
		}
	}
	e.roots = roots
	return nil
}

// adopt points every descendant of item at its parent.
func adopt(item *domain.Item) {
	if item.Fields == nil {
		item.Fields = domain.NewItemFields()
	}
	for _, child := range item.Children {
		child.ParentID = item.ID
		adopt(child)
	}
}

// mutate runs edit under the write lock and commits if it changed the tree.
func (e *engine) mutate(ctx context.Context, op domain.Operation, itemID domain.ID, edit func() (outcome, error)) (bool, error) {
	if e.spec.ReadOnly {
		return false, nil
	}

	e.mu.Lock()
	result, err := edit()
	if err != nil || result == rejected {
		e.mu.Unlock()
		return false, err
	}
	if result == unchanged {
		e.mu.Unlock()
		return true, nil
	}

	if e.foldCommit {
		defer e.mu.Unlock()
		data, err := e.encode()
		if err != nil {
			return true, fmt.Errorf("encoding mapping %q: %w", e.spec.Name, err)
		}
		return true, e.write(ctx, op, itemID, data)
	}

	e.mu.Unlock()
	return true, e.commit(ctx, op, itemID)
}

// commit snapshots the tree under the read lock and writes it outside any
// tree lock, serialized against other commits.
func (e *engine) commit(ctx context.Context, op domain.Operation, itemID domain.ID) error {
	e.commitMu.Lock()
	defer e.commitMu.Unlock()

	e.mu.RLock()
	data, err := e.encode()
	e.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encoding mapping %q: %w", e.spec.Name, err)
	}
	return e.write(ctx, op, itemID, data)
}

func (e *engine) write(ctx context.Context, op domain.Operation, itemID domain.ID, data []byte) error {
	// The digest must be current before the file changes; watchers
	// compare against it.
	digest := digestOf(data)
	previous := e.Digest()
	e.setDigest(digest)
	if err := e.deps.Snapshots.Save(e.spec.Path, data); err != nil {
		e.setDigest(previous)
		return fmt.Errorf("committing mapping %q to %s: %w", e.spec.Name, e.spec.Path, err)
	}

	logger.With(logrus.Fields{
		"mapping": e.spec.Name,
		"op":      op,
		"item":    itemID,
		"bytes":   len(data),
	}).Debug("committed snapshot")

	if e.deps.Journal == nil {
		return nil
	}
	record := domain.CommitRecord{
		Mapping:     e.spec.Name,
		Operation:   op,
		ItemID:      itemID,
		Bytes:       len(data),
		Digest:      digest,
		CommittedAt: e.deps.Now().UTC(),
	}
	if err := e.deps.Journal.Record(ctx, record); err != nil {
		logger.Warn("Recording commit of mapping %q: %v", e.spec.Name, err)
	}
	return nil
}

func digestOf(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (e *engine) setDigest(d string) {
	e.digest.Store(&d)
}

// Digest returns the digest of the last snapshot loaded or written, or ""
// if there has been none.
func (e *engine) Digest() string {
	return *e.digest.Load()
}

// Name returns the configured mapping name.
func (e *engine) Name() string { return e.spec.Name }

// Path returns the backing file path.
func (e *engine) Path() string { return e.spec.Path }

// ReadOnly reports whether mutations are rejected.
func (e *engine) ReadOnly() bool { return e.spec.ReadOnly }

// Len returns the number of cached items.
func (e *engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cache.Len()
}

// Tree returns a deep copy of the top-level items.
func (e *engine) Tree() []*domain.Item {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*domain.Item, 0, len(e.roots))
	for _, root := range e.roots {
		out = append(out, root.Copy())
	}
	return out
}

// lookup returns a cached item the host may see. mu must be held.
func (e *engine) lookup(itemID domain.ID) (*domain.Item, bool) {
	item, ok := e.cache.Get(itemID)
	if !ok || e.hidden(item) {
		return nil, false
	}
	return item, true
}

// children returns the list that holds the children of parentID. mu must
// be held.
func (e *engine) children(parentID domain.ID) (*[]*domain.Item, bool) {
	if e.isTop(parentID) {
		return &e.roots, true
	}
	parent, ok := e.cache.Get(parentID)
	if !ok {
		return nil, false
	}
	return &parent.Children, true
}

// attach appends item to the children of parentID and sets its parent id.
// It is the only place, with detach, that edits tree membership. mu must
// be held for writing.
func (e *engine) attach(parentID domain.ID, item *domain.Item) error {
	list, ok := e.children(parentID)
	if !ok {
		return fmt.Errorf("cannot find parent %s of item %s", parentID, item.ID)
	}
	item.ParentID = parentID
	*list = append(*list, item)
	return nil
}

// detach removes item from its parent's children. mu must be held for
// writing.
func (e *engine) detach(item *domain.Item) error {
	list, ok := e.children(item.ParentID)
	if !ok {
		return fmt.Errorf("cannot find parent %s of item %s", item.ParentID, item.ID)
	}
	var removed bool
	*list, removed = domain.RemoveItem(*list, item.ID)
	if !removed {
		return fmt.Errorf("item %s is not held by its parent %s", item.ID, item.ParentID)
	}
	return nil
}

// insert attaches and indexes a new subtree. mu must be held for writing.
func (e *engine) insert(parentID domain.ID, item *domain.Item) error {
	if err := e.cache.AddTree(item); err != nil {
		return err
	}
	if err := e.attach(parentID, item); err != nil {
		e.cache.RemoveTree(item)
		return err
	}
	return nil
}

// ItemDefinition returns the name, template, and parent of an item.
func (e *engine) ItemDefinition(itemID domain.ID) (domain.ItemDefinition, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	item, ok := e.lookup(itemID)
	if !ok {
		return domain.ItemDefinition{}, false
	}
	return item.Definition(), true
}

// ParentID returns the id of the item's parent.
func (e *engine) ParentID(itemID domain.ID) (domain.ID, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	item, ok := e.lookup(itemID)
	if !ok {
		return domain.NullID, false
	}
	return item.ParentID, true
}

// Versions lists every stored (language, version) pair of the item.
func (e *engine) Versions(itemID domain.ID) ([]domain.VersionURI, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	item, ok := e.lookup(itemID)
	if !ok {
		return nil, false
	}
	return item.Fields.Versioned.URIs(), true
}

// Fields returns the fields visible for uri.
func (e *engine) Fields(itemID domain.ID, uri domain.VersionURI) (*domain.FieldMap, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	item, ok := e.lookup(itemID)
	if !ok {
		return nil, false
	}
	return item.Fields.Resolve(uri), true
}

// TemplateIDs returns the ids of template definition items, ordered by id.
func (e *engine) TemplateIDs() []domain.ID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var ids []domain.ID
	e.cache.Range(func(item *domain.Item) bool {
		if item.TemplateID == domain.TemplateTemplateID && !e.hidden(item) {
			ids = append(ids, item.ID)
		}
		return true
	})
	slices.SortFunc(ids, domain.ID.Compare)
	return ids
}

// Languages returns the sorted, distinct names of language definition items.
func (e *engine) Languages() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var names []string
	e.cache.Range(func(item *domain.Item) bool {
		if item.TemplateID == domain.LanguageTemplateID && !e.hidden(item) {
			names = append(names, item.Name)
		}
		return true
	})
	slices.Sort(names)
	return slices.Compact(names)
}

// AddVersion adds a version and returns its number.
func (e *engine) AddVersion(ctx context.Context, itemID domain.ID, uri domain.VersionURI) (domain.Version, bool, error) {
	var number domain.Version
	ok, err := e.mutate(ctx, domain.OpAddVersion, itemID, func() (outcome, error) {
		item, ok := e.lookup(itemID)
		if !ok {
			return rejected, nil
		}
		versions := item.Fields.Versioned.Ensure(uri.Language)
		number = versions.Latest() + 1

		if uri.Version.IsValid() {
			if source := versions.Fields(uri.Version); source != nil {
				copied := source.Clone()
				copied.Delete(domain.WorkflowStateFieldID)
				versions.Set(number, copied)
				return changed, nil
			}
		}

		fresh := domain.NewFieldMap()
		fresh.Set(domain.CreatedFieldID, domain.FormatISOTicks(e.deps.Now()))
		versions.Set(number, fresh)
		return changed, nil
	})
	if !ok {
		return 0, false, err
	}
	return number, true, err
}

// RemoveVersion removes one version.
func (e *engine) RemoveVersion(ctx context.Context, itemID domain.ID, uri domain.VersionURI) (bool, error) {
	return e.mutate(ctx, domain.OpRemoveVersion, itemID, func() (outcome, error) {
		item, ok := e.lookup(itemID)
		if !ok {
			return rejected, nil
		}
		versions := item.Fields.Versioned.Versions(uri.Language)
		if versions == nil || !versions.Delete(uri.Version) {
			return rejected, nil
		}
		return changed, nil
	})
}

// RemoveVersions removes every version of language, or of every language
// when language is Invariant.
func (e *engine) RemoveVersions(ctx context.Context, itemID domain.ID, language domain.Language) (bool, error) {
	return e.mutate(ctx, domain.OpRemoveVersions, itemID, func() (outcome, error) {
		item, ok := e.lookup(itemID)
		if !ok {
			return rejected, nil
		}
		if language.IsInvariant() {
			item.Fields.Versioned.Clear()
		} else if versions := item.Fields.Versioned.Versions(language); versions != nil {
			versions.Clear()
		}
		return changed, nil
	})
}

// SaveItem applies changes to an item with a single commit. Every edit is
// validated before anything is applied.
func (e *engine) SaveItem(ctx context.Context, itemID domain.ID, changes domain.ItemChanges) (bool, error) {
	return e.mutate(ctx, domain.OpSave, itemID, func() (outcome, error) {
		item, ok := e.lookup(itemID)
		if !ok {
			return rejected, nil
		}
		if err := validateChanges(itemID, changes); err != nil {
			return rejected, err
		}
		applyChanges(item, changes)
		return changed, nil
	})
}

func validateChanges(itemID domain.ID, changes domain.ItemChanges) error {
	for _, change := range changes.Fields {
		if change.FieldID.IsNull() || change.Removes() {
			continue
		}
		switch change.Scope {
		case domain.ScopeShared, domain.ScopeUnversioned:
		case domain.ScopeVersioned:
			if !change.Version.IsValid() {
				return fmt.Errorf("%w: versioned field %s of item %s needs a version, got %d",
					domain.ErrInvalidInput, change.FieldID, itemID, change.Version)
			}
		default:
			return fmt.Errorf("%w: field %s of item %s", domain.ErrUnclassifiedField, change.FieldID, itemID)
		}
	}
	return nil
}

func applyChanges(item *domain.Item, changes domain.ItemChanges) {
	if changes.Name != nil {
		item.Name = *changes.Name
	}
	if changes.TemplateID != nil {
		item.TemplateID = *changes.TemplateID
	}

	fields := item.Fields
	if changes.SaveAll {
		fields.Clear()
	}

	for _, change := range changes.Fields {
		if change.FieldID.IsNull() {
			continue
		}
		if change.Removes() {
			// Nothing to remove from stores that were just cleared.
			if changes.SaveAll {
				continue
			}
			fields.Shared.Delete(change.FieldID)
			if unversioned := fields.Unversioned.Fields(change.Language); unversioned != nil {
				unversioned.Delete(change.FieldID)
			}
			if versions := fields.Versioned.Versions(change.Language); versions != nil {
				if versioned := versions.Fields(change.Version); versioned != nil {
					versioned.Delete(change.FieldID)
				}
			}
			continue
		}

		value := *change.Value
		switch change.Scope {
		case domain.ScopeShared:
			fields.Shared.Set(change.FieldID, value)
		case domain.ScopeUnversioned:
			fields.Unversioned.Ensure(change.Language).Set(change.FieldID, value)
		case domain.ScopeVersioned:
			versions := fields.Versioned.Ensure(change.Language)
			versioned := versions.Fields(change.Version)
			if versioned == nil {
				versioned = domain.NewFieldMap()
				versions.Set(change.Version, versioned)
			}
			versioned.Set(change.FieldID, value)
		}
	}
}

// DeleteItem removes an item and every descendant.
func (e *engine) DeleteItem(ctx context.Context, itemID domain.ID) (bool, error) {
	return e.mutate(ctx, domain.OpDelete, itemID, func() (outcome, error) {
		item, ok := e.lookup(itemID)
		if !ok {
			return rejected, nil
		}
		if err := e.detach(item); err != nil {
			return rejected, err
		}
		e.cache.RemoveTree(item)
		return changed, nil
	})
}

// copyItem deep-copies a visible source subtree under destinationID once
// resolveDestination accepts it. mu must be held for writing.
func (e *engine) copyItem(sourceID, destinationID, copyID domain.ID, copyName string, resolveDestination func(domain.ID) bool) (outcome, error) {
	source, ok := e.lookup(sourceID)
	if !ok || copyID.IsNull() || e.cache.Contains(copyID) {
		return rejected, nil
	}
	if !resolveDestination(destinationID) {
		return rejected, nil
	}
	clone := source.Clone(copyID, copyName, destinationID, e.deps.NewID)
	if err := e.insert(destinationID, clone); err != nil {
		return rejected, err
	}
	return changed, nil
}

// moveItem re-parents a visible item once resolveTarget accepts the
// target. Moving an item beneath itself is rejected. mu must be held for
// writing.
func (e *engine) moveItem(itemID, targetID domain.ID, resolveTarget func(domain.ID) bool) (outcome, error) {
	item, ok := e.lookup(itemID)
	if !ok {
		return rejected, nil
	}
	if item.ParentID == targetID {
		return unchanged, nil
	}
	if item.Contains(targetID) || !resolveTarget(targetID) {
		return rejected, nil
	}
	if err := e.detach(item); err != nil {
		return rejected, err
	}
	if err := e.attach(targetID, item); err != nil {
		return rejected, err
	}
	return changed, nil
}
