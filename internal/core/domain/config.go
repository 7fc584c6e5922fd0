package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Journal drivers.
const (
	JournalDisabled = ""
	JournalMemory   = "memory"
	JournalSQLite   = "sqlite"
)

// ProviderConfig is the on-disk configuration of a set of mappings.
type ProviderConfig struct {
	// Root is the base directory for relative mapping files.
	Root string `toml:"root" yaml:"root"`

	// Pretty enables indented snapshots. Defaults to true.
	Pretty *bool `toml:"pretty" yaml:"pretty"`

	// Journal configures the commit journal.
	Journal JournalConfig `toml:"journal" yaml:"journal"`

	// Mappings are consulted in order.
	Mappings []MappingConfig `toml:"mappings" yaml:"mappings"`

	// Fields classifies fields into scopes.
	Fields []FieldConfig `toml:"fields" yaml:"fields"`
}

// JournalConfig selects the commit journal backend.
type JournalConfig struct {
	Driver string `toml:"driver" yaml:"driver"`
	Path   string `toml:"path" yaml:"path"`
}

// MappingConfig configures one mapping.
type MappingConfig struct {
	Name string `toml:"name" yaml:"name"`
	File string `toml:"file" yaml:"file"`

	// Item is the anchor id. Empty selects a forest mapping.
	Item string `toml:"item" yaml:"item"`

	ReadOnly bool `toml:"read_only" yaml:"read_only"`
}

// FieldConfig declares a field definition.
type FieldConfig struct {
	ID    string `toml:"id" yaml:"id"`
	Name  string `toml:"name" yaml:"name"`
	Scope string `toml:"scope" yaml:"scope"`
}

// MappingSpec is a validated, resolved mapping configuration.
type MappingSpec struct {
	Name     string
	Path     string
	Anchor   ID
	ReadOnly bool
	Pretty   bool
}

// Anchored reports whether the spec selects a single-root subtree mapping.
func (s MappingSpec) Anchored() bool {
	return !s.Anchor.IsNull()
}

// Validate checks a resolved spec.
func (s MappingSpec) Validate() error {
	if s.Path == "" {
		return fmt.Errorf("%w: mapping %q: file path is empty", ErrInvalidConfiguration, s.Name)
	}
	if !filepath.IsAbs(s.Path) {
		return fmt.Errorf("%w: mapping %q: file path %q is not absolute", ErrInvalidConfiguration, s.Name, s.Path)
	}
	return nil
}

// PrettyOrDefault reports whether snapshots should be indented.
func (c ProviderConfig) PrettyOrDefault() bool {
	return c.Pretty == nil || *c.Pretty
}

// Resolve validates c and resolves mapping files against base. A relative
// Root is itself resolved against base.
func (c ProviderConfig) Resolve(base string) ([]MappingSpec, error) {
	root := c.Root
	if root == "" {
		root = base
	} else if !filepath.IsAbs(root) {
		root = filepath.Join(base, root)
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving root %q: %v", ErrInvalidConfiguration, c.Root, err)
	}

	specs := make([]MappingSpec, 0, len(c.Mappings))
	seen := make(map[string]bool)
	for i, m := range c.Mappings {
		name := strings.TrimSpace(m.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: mapping #%d has no name", ErrInvalidConfiguration, i+1)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: duplicate mapping name %q", ErrInvalidConfiguration, name)
		}
		seen[name] = true

		file := strings.TrimSpace(m.File)
		if file == "" {
			return nil, fmt.Errorf("%w: the \"file\" attribute of mapping %q is empty", ErrInvalidConfiguration, name)
		}
		if !filepath.IsAbs(file) {
			file = filepath.Join(root, file)
		}

		spec := MappingSpec{
			Name:     name,
			Path:     filepath.Clean(file),
			ReadOnly: m.ReadOnly,
			Pretty:   c.PrettyOrDefault(),
		}
		if item := strings.TrimSpace(m.Item); item != "" {
			anchor, err := ParseID(item)
			if err != nil || anchor.IsNull() {
				return nil, fmt.Errorf("%w: the \"item\" attribute of mapping %q is not a valid GUID: %q",
					ErrInvalidConfiguration, name, m.Item)
			}
			spec.Anchor = anchor
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// FieldDefinitions validates and converts the configured fields.
func (c ProviderConfig) FieldDefinitions() ([]FieldDefinition, error) {
	defs := make([]FieldDefinition, 0, len(c.Fields))
	for _, f := range c.Fields {
		id, err := ParseID(f.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", ErrInvalidConfiguration, f.Name, err)
		}
		scope, err := ParseFieldScope(f.Scope)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", ErrInvalidConfiguration, f.Name, err)
		}
		defs = append(defs, FieldDefinition{ID: id, Name: strings.TrimSpace(f.Name), Scope: scope})
	}
	return defs, nil
}

// JournalPath resolves the journal path against base.
func (c ProviderConfig) JournalPath(base string) string {
	if c.Journal.Path == "" || filepath.IsAbs(c.Journal.Path) {
		return c.Journal.Path
	}
	return filepath.Join(base, c.Journal.Path)
}
