package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/domain"
	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/ports/driven"
	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/ports/driving"
	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/logger"
)

// Verify interface compliance at compile time.
var _ driving.DataProvider = (*Provider)(nil)

// ProviderOptions are the optional collaborators of a Provider.
type ProviderOptions struct {
	// Fields classifies field edits. Defaults to the well-known fields only.
	Fields *FieldRegistry

	// Journal serves History. Nil disables it.
	Journal driven.CommitJournal

	// Watcher and Snapshots serve WatchExternalChanges. Nil disables it.
	Watcher   driven.FileWatcher
	Snapshots driven.SnapshotStore
}

// Provider routes item operations across an ordered set of mappings.
// Reads are answered by the first mapping that knows an item; mutations
// go to the mapping that owns it.
type Provider struct {
	mappings []driving.Mapping
	byName   map[string]driving.Mapping
	opts     ProviderOptions
}

// OpenMappings constructs and loads one mapping per spec, in order.
func OpenMappings(specs []domain.MappingSpec, deps MappingDeps) ([]driving.Mapping, error) {
	mappings := make([]driving.Mapping, 0, len(specs))
	for _, spec := range specs {
		m, err := NewMapping(spec, deps)
		if err != nil {
			return nil, fmt.Errorf("opening mapping %q: %w", spec.Name, err)
		}
		logger.Debug("Opened mapping %q (%d items) from %s", spec.Name, m.Len(), spec.Path)
		mappings = append(mappings, m)
	}
	return mappings, nil
}

// NewProvider creates a provider over mappings. Mapping names must be
// unique.
func NewProvider(mappings []driving.Mapping, opts ProviderOptions) (*Provider, error) {
	p := &Provider{
		mappings: mappings,
		byName:   make(map[string]driving.Mapping, len(mappings)),
		opts:     opts,
	}
	if p.opts.Fields == nil {
		p.opts.Fields = NewFieldRegistry()
	}
	for _, m := range mappings {
		if _, ok := p.byName[m.Name()]; ok {
			return nil, fmt.Errorf("%w: duplicate mapping name %q", domain.ErrInvalidConfiguration, m.Name())
		}
		p.byName[m.Name()] = m
	}
	return p, nil
}

// Mappings returns the mappings in configuration order.
func (p *Provider) Mappings() []driving.Mapping {
	return slices.Clone(p.mappings)
}

// Mapping returns a mapping by name.
func (p *Provider) Mapping(name string) (driving.Mapping, bool) {
	m, ok := p.byName[name]
	return m, ok
}

// Owner returns the first mapping that resolves itemID.
func (p *Provider) Owner(itemID domain.ID) (driving.Mapping, bool) {
	for _, m := range p.mappings {
		if _, ok := m.ItemDefinition(itemID); ok {
			return m, true
		}
	}
	return nil, false
}

// FieldResolver returns the field registry.
func (p *Provider) FieldResolver() driving.FieldResolver {
	return p.opts.Fields
}

// ItemDefinition returns the name, template, and parent of an item.
func (p *Provider) ItemDefinition(itemID domain.ID) (domain.ItemDefinition, bool) {
	for _, m := range p.mappings {
		if def, ok := m.ItemDefinition(itemID); ok {
			return def, true
		}
	}
	return domain.ItemDefinition{}, false
}

// ParentID returns the id of the item's parent.
func (p *Provider) ParentID(itemID domain.ID) (domain.ID, bool) {
	if m, ok := p.Owner(itemID); ok {
		return m.ParentID(itemID)
	}
	return domain.NullID, false
}

// ChildIDs merges the children every mapping holds under itemID, in
// mapping order without duplicates.
func (p *Provider) ChildIDs(itemID domain.ID) ([]domain.ID, bool) {
	var (
		ids   []domain.ID
		found bool
		seen  = make(map[domain.ID]bool)
	)
	for _, m := range p.mappings {
		children, ok := m.ChildIDs(itemID)
		if !ok {
			continue
		}
		found = true
		for _, id := range children {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids, found
}

// Versions lists every stored (language, version) pair of the item.
func (p *Provider) Versions(itemID domain.ID) ([]domain.VersionURI, bool) {
	if m, ok := p.Owner(itemID); ok {
		return m.Versions(itemID)
	}
	return nil, false
}

// Fields returns the fields visible for uri.
func (p *Provider) Fields(itemID domain.ID, uri domain.VersionURI) (*domain.FieldMap, bool) {
	if m, ok := p.Owner(itemID); ok {
		return m.Fields(itemID, uri)
	}
	return nil, false
}

// TemplateIDs returns the union of template ids across mappings, ordered.
func (p *Provider) TemplateIDs() []domain.ID {
	var ids []domain.ID
	for _, m := range p.mappings {
		ids = append(ids, m.TemplateIDs()...)
	}
	slices.SortFunc(ids, domain.ID.Compare)
	return slices.Compact(ids)
}

// Languages returns the union of language names across mappings, sorted.
func (p *Provider) Languages() []string {
	var names []string
	for _, m := range p.mappings {
		names = append(names, m.Languages()...)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// CreateItem adds an item to the first mapping that already holds the
// parent and accepts children under it. A parent that is only an anchor or
// a synthetic root counts as held. Otherwise the item goes to the first
// mapping that accepts children under the parent. It fails if any mapping
// has itemID.
func (p *Provider) CreateItem(ctx context.Context, itemID domain.ID, name string, templateID, parentID domain.ID) (bool, error) {
	if _, ok := p.Owner(itemID); ok {
		return false, nil
	}
	target := p.creator(parentID)
	if target == nil {
		return false, nil
	}
	return target.CreateItem(ctx, itemID, name, templateID, parentID)
}

func (p *Provider) creator(parentID domain.ID) driving.Mapping {
	for _, m := range p.mappings {
		if _, ok := m.ItemDefinition(parentID); ok && m.AcceptsNewChildrenOf(parentID) {
			return m
		}
	}
	for _, m := range p.mappings {
		if _, ok := m.ChildIDs(parentID); ok && m.AcceptsNewChildrenOf(parentID) {
			return m
		}
	}
	for _, m := range p.mappings {
		if m.AcceptsNewChildrenOf(parentID) {
			return m
		}
	}
	return nil
}

// CopyItem copies within the mapping that owns the source. A destination
// held by another mapping is rejected.
func (p *Provider) CopyItem(ctx context.Context, sourceID, destinationID, copyID domain.ID, copyName string) (bool, error) {
	if _, ok := p.Owner(copyID); ok {
		return false, nil
	}
	m, ok := p.Owner(sourceID)
	if !ok || p.heldElsewhere(destinationID, m) {
		return false, nil
	}
	return m.CopyItem(ctx, sourceID, destinationID, copyID, copyName)
}

// MoveItem moves within the mapping that owns the item. A target held by
// another mapping is rejected.
func (p *Provider) MoveItem(ctx context.Context, itemID, targetID domain.ID) (bool, error) {
	m, ok := p.Owner(itemID)
	if !ok || p.heldElsewhere(targetID, m) {
		return false, nil
	}
	return m.MoveItem(ctx, itemID, targetID)
}

// heldElsewhere reports whether a mapping other than m knows itemID as an
// item, an anchor, or a synthetic root.
func (p *Provider) heldElsewhere(itemID domain.ID, m driving.Mapping) bool {
	for _, other := range p.mappings {
		if other == m {
			continue
		}
		if _, ok := other.ItemDefinition(itemID); ok {
			return true
		}
		if _, ok := other.ChildIDs(itemID); ok {
			return true
		}
	}
	return false
}

// DeleteItem deletes an item from the mapping that owns it.
func (p *Provider) DeleteItem(ctx context.Context, itemID domain.ID) (bool, error) {
	m, ok := p.Owner(itemID)
	if !ok {
		return false, nil
	}
	return m.DeleteItem(ctx, itemID)
}

// AddVersion adds a version in the mapping that owns the item.
func (p *Provider) AddVersion(ctx context.Context, itemID domain.ID, uri domain.VersionURI) (domain.Version, bool, error) {
	m, ok := p.Owner(itemID)
	if !ok {
		return 0, false, nil
	}
	return m.AddVersion(ctx, itemID, uri)
}

// RemoveVersion removes a version in the mapping that owns the item.
func (p *Provider) RemoveVersion(ctx context.Context, itemID domain.ID, uri domain.VersionURI) (bool, error) {
	m, ok := p.Owner(itemID)
	if !ok {
		return false, nil
	}
	return m.RemoveVersion(ctx, itemID, uri)
}

// RemoveVersions removes versions in the mapping that owns the item.
func (p *Provider) RemoveVersions(ctx context.Context, itemID domain.ID, language domain.Language) (bool, error) {
	m, ok := p.Owner(itemID)
	if !ok {
		return false, nil
	}
	return m.RemoveVersions(ctx, itemID, language)
}

// SaveItem classifies edits without a scope through the field registry
// and saves them in the mapping that owns the item.
func (p *Provider) SaveItem(ctx context.Context, itemID domain.ID, changes domain.ItemChanges) (bool, error) {
	m, ok := p.Owner(itemID)
	if !ok {
		return false, nil
	}
	if len(changes.Fields) > 0 {
		fields := slices.Clone(changes.Fields)
		for i := range fields {
			if fields[i].Scope == domain.ScopeUnknown {
				fields[i].Scope = p.opts.Fields.Scope(fields[i].FieldID)
			}
		}
		changes.Fields = fields
	}
	return m.SaveItem(ctx, itemID, changes)
}

// History returns recent commits of mapping, or of every mapping when
// mapping is empty, newest first.
func (p *Provider) History(ctx context.Context, mapping string, limit int) ([]domain.CommitRecord, error) {
	if p.opts.Journal == nil {
		return nil, fmt.Errorf("%w: commit journal is disabled", domain.ErrNotFound)
	}
	if mapping != "" {
		if _, ok := p.byName[mapping]; !ok {
			return nil, fmt.Errorf("%w: mapping %q", domain.ErrNotFound, mapping)
		}
	}
	return p.opts.Journal.Recent(ctx, mapping, limit)
}

// WatchExternalChanges reports backing files that were changed by
// something other than their mapping, until ctx is cancelled. A change
// whose content matches the mapping's last snapshot is ignored.
func (p *Provider) WatchExternalChanges(ctx context.Context, fn func(domain.ExternalChange)) error {
	if p.opts.Watcher == nil || p.opts.Snapshots == nil {
		return fmt.Errorf("%w: file watching is not configured", domain.ErrInvalidConfiguration)
	}

	byPath := make(map[string]driving.Mapping, len(p.mappings))
	for _, m := range p.mappings {
		path := filepath.Clean(m.Path())
		if err := p.opts.Watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		byPath[path] = m
	}

	return p.opts.Watcher.Run(ctx, func(event domain.FileEvent) {
		m, ok := byPath[filepath.Clean(event.Path)]
		if !ok {
			return
		}
		if event.Kind == domain.FileChanged && !p.changedExternally(m) {
			return
		}
		logger.With(logrus.Fields{
			"mapping": m.Name(),
			"path":    m.Path(),
			"kind":    event.Kind,
		}).Warn("backing file modified externally")
		fn(domain.ExternalChange{Mapping: m.Name(), Path: m.Path(), Kind: event.Kind})
	})
}

func (p *Provider) changedExternally(m driving.Mapping) bool {
	data, err := p.opts.Snapshots.Load(m.Path())
	if errors.Is(err, domain.ErrNotFound) {
		return false
	}
	if err != nil {
		logger.Warn("Reading %s: %v", m.Path(), err)
		return false
	}
	return digestOf(data) != m.Digest()
}

// Close releases the journal and watcher.
func (p *Provider) Close() error {
	var errs []error
	if p.opts.Watcher != nil {
		errs = append(errs, p.opts.Watcher.Close())
	}
	if p.opts.Journal != nil {
		errs = append(errs, p.opts.Journal.Close())
	}
	return errors.Join(errs...)
}
