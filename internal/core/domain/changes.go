package domain

import (
	"fmt"
	"strings"
)

// FieldScope classifies where a field's values are stored.
type FieldScope int

const (
	// ScopeUnknown means the field could not be classified.
	ScopeUnknown FieldScope = iota
	// ScopeShared values apply to every language and version.
	ScopeShared
	// ScopeUnversioned values apply per language.
	ScopeUnversioned
	// ScopeVersioned values apply per language and version.
	ScopeVersioned
)

// String returns the scope name.
func (s FieldScope) String() string {
	switch s {
	case ScopeShared:
		return "shared"
	case ScopeUnversioned:
		return "unversioned"
	case ScopeVersioned:
		return "versioned"
	default:
		return "unknown"
	}
}

// ParseFieldScope parses "shared", "unversioned", or "versioned".
func ParseFieldScope(s string) (FieldScope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "shared":
		return ScopeShared, nil
	case "unversioned":
		return ScopeUnversioned, nil
	case "versioned":
		return ScopeVersioned, nil
	default:
		return ScopeUnknown, fmt.Errorf("%w: field scope %q", ErrInvalidInput, s)
	}
}

// FieldDefinition describes a known field.
type FieldDefinition struct {
	ID    ID
	Name  string
	Scope FieldScope
}

// FieldChange is one field edit.
type FieldChange struct {
	FieldID  ID
	Language Language
	Version  Version
	Scope    FieldScope

	// Value is the new value; nil removes the field.
	Value *string

	// Remove deletes the field regardless of Value.
	Remove bool
}

// Removes reports whether the change deletes the field.
func (c FieldChange) Removes() bool {
	return c.Remove || c.Value == nil
}

// ItemChanges is a batch of edits applied to one item with a single commit.
type ItemChanges struct {
	// Name renames the item when set.
	Name *string

	// TemplateID retypes the item when set.
	TemplateID *ID

	// SaveAll clears every stored field before applying Fields.
	SaveAll bool

	// Fields are applied in order.
	Fields []FieldChange
}

// SetField returns a change writing value into scope.
func SetField(fieldID ID, scope FieldScope, uri VersionURI, value string) FieldChange {
	return FieldChange{
		FieldID:  fieldID,
		Language: uri.Language,
		Version:  uri.Version,
		Scope:    scope,
		Value:    &value,
	}
}

// RemoveField returns a change deleting fieldID from every scope.
func RemoveField(fieldID ID, uri VersionURI) FieldChange {
	return FieldChange{
		FieldID:  fieldID,
		Language: uri.Language,
		Version:  uri.Version,
		Remove:   true,
	}
}
