package domain

import (
	"fmt"
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// FieldMap maps field ids to raw values, preserving insertion order.
type FieldMap struct {
	orderedMap[ID, string]
}

// NewFieldMap returns an empty field map.
func NewFieldMap() *FieldMap {
	return &FieldMap{}
}

// Clone returns an independent copy of m.
func (m *FieldMap) Clone() *FieldMap {
	c := NewFieldMap()
	m.Range(func(id ID, v string) bool {
		c.Set(id, v)
		return true
	})
	return c
}

// Merge copies every entry of other into m, overwriting on collision.
func (m *FieldMap) Merge(other *FieldMap) {
	if other == nil {
		return
	}
	other.Range(func(id ID, v string) bool {
		m.Set(id, v)
		return true
	})
}

// ToMap returns the entries as a plain map.
func (m *FieldMap) ToMap() map[ID]string {
	out := make(map[ID]string, m.Len())
	m.Range(func(id ID, v string) bool {
		out[id] = v
		return true
	})
	return out
}

// Equal reports whether m and other hold the same entries, ignoring order.
func (m *FieldMap) Equal(other *FieldMap) bool {
	if m.Len() != other.Len() {
		return false
	}
	equal := true
	m.Range(func(id ID, v string) bool {
		ov, ok := other.Get(id)
		equal = ok && ov == v
		return equal
	})
	return equal
}

// Versions maps version numbers to the versioned fields of one language.
type Versions struct {
	orderedMap[Version, *FieldMap]
}

// Latest returns the highest stored version number, or 0 if none.
func (v *Versions) Latest() Version {
	var latest Version
	v.Range(func(n Version, _ *FieldMap) bool {
		latest = max(latest, n)
		return true
	})
	return latest
}

// Fields returns the fields of version n, or nil.
func (v *Versions) Fields(n Version) *FieldMap {
	fields, _ := v.Get(n)
	return fields
}

// Numbers returns the stored version numbers in ascending order.
func (v *Versions) Numbers() []Version {
	numbers := v.Keys()
	slices.Sort(numbers)
	return numbers
}

// Clone returns a deep copy of v.
func (v *Versions) Clone() *Versions {
	c := &Versions{}
	v.Range(func(n Version, fields *FieldMap) bool {
		c.Set(n, fields.Clone())
		return true
	})
	return c
}

// UnmarshalJSON reads an object keyed by version number. A null entry
// becomes an empty field map.
func (v *Versions) UnmarshalJSON(data []byte) error {
	if err := v.orderedMap.UnmarshalJSON(data); err != nil {
		return err
	}
	for _, n := range v.Keys() {
		if !n.IsValid() {
			return fmt.Errorf("%w: invalid version number %d", ErrInvalidInput, n)
		}
		if v.Fields(n) == nil {
			v.Set(n, NewFieldMap())
		}
	}
	return nil
}

// UnversionedFields holds one field map per language.
type UnversionedFields struct {
	orderedMap[Language, *FieldMap]
}

// Fields returns the fields for language, or nil.
func (u *UnversionedFields) Fields(language Language) *FieldMap {
	fields, _ := u.Get(language)
	return fields
}

// Ensure returns the fields for language, creating them if missing.
func (u *UnversionedFields) Ensure(language Language) *FieldMap {
	if fields, ok := u.Get(language); ok {
		return fields
	}
	fields := NewFieldMap()
	u.Set(language, fields)
	return fields
}

// Clone returns a deep copy of u.
func (u *UnversionedFields) Clone() *UnversionedFields {
	c := &UnversionedFields{}
	u.Range(func(language Language, fields *FieldMap) bool {
		c.Set(language, fields.Clone())
		return true
	})
	return c
}

// MarshalJSON writes an object keyed by language. Languages without
// values are omitted.
func (u *UnversionedFields) MarshalJSON() ([]byte, error) {
	out := orderedmap.New[Language, *FieldMap]()
	u.Range(func(language Language, fields *FieldMap) bool {
		if fields != nil && fields.Len() > 0 {
			out.Set(language, fields)
		}
		return true
	})
	return out.MarshalJSON()
}

// UnmarshalJSON reads an object keyed by language.
func (u *UnversionedFields) UnmarshalJSON(data []byte) error {
	var decoded orderedMap[Language, *FieldMap]
	if err := decoded.UnmarshalJSON(data); err != nil {
		return err
	}
	u.Clear()
	var err error
	decoded.Range(func(key Language, fields *FieldMap) bool {
		var language Language
		if language, err = ParseLanguage(string(key)); err != nil {
			return false
		}
		u.Ensure(language).Merge(fields)
		return true
	})
	return err
}

// VersionedFields holds the versions of every language.
type VersionedFields struct {
	orderedMap[Language, *Versions]
}

// Versions returns the versions for language, or nil.
func (vf *VersionedFields) Versions(language Language) *Versions {
	versions, _ := vf.Get(language)
	return versions
}

// Ensure returns the versions for language, creating them if missing.
func (vf *VersionedFields) Ensure(language Language) *Versions {
	if versions, ok := vf.Get(language); ok {
		return versions
	}
	versions := &Versions{}
	vf.Set(language, versions)
	return versions
}

// URIs lists every stored (language, version) pair.
func (vf *VersionedFields) URIs() []VersionURI {
	var uris []VersionURI
	vf.Range(func(language Language, versions *Versions) bool {
		for _, n := range versions.Numbers() {
			uris = append(uris, NewVersionURI(language, n))
		}
		return true
	})
	return uris
}

// Clone returns a deep copy of vf.
func (vf *VersionedFields) Clone() *VersionedFields {
	c := &VersionedFields{}
	vf.Range(func(language Language, versions *Versions) bool {
		c.Set(language, versions.Clone())
		return true
	})
	return c
}

// MarshalJSON writes an object keyed by language. Languages without
// versions are omitted.
func (vf *VersionedFields) MarshalJSON() ([]byte, error) {
	out := orderedmap.New[Language, *Versions]()
	vf.Range(func(language Language, versions *Versions) bool {
		if versions != nil && versions.Len() > 0 {
			out.Set(language, versions)
		}
		return true
	})
	return out.MarshalJSON()
}

// UnmarshalJSON reads an object keyed by language.
func (vf *VersionedFields) UnmarshalJSON(data []byte) error {
	var decoded orderedMap[Language, *Versions]
	if err := decoded.UnmarshalJSON(data); err != nil {
		return err
	}
	vf.Clear()
	var err error
	decoded.Range(func(key Language, versions *Versions) bool {
		var language Language
		if language, err = ParseLanguage(string(key)); err != nil {
			return false
		}
		target := vf.Ensure(language)
		if versions == nil {
			return true
		}
		versions.Range(func(n Version, fields *FieldMap) bool {
			target.Set(n, fields)
			return true
		})
		return true
	})
	return err
}

// ItemFields is the field scope store of one item.
// A field id lives in at most one scope; which one is decided by the
// field's definition, not stored here.
type ItemFields struct {
	Shared      *FieldMap
	Unversioned *UnversionedFields
	Versioned   *VersionedFields
}

// NewItemFields returns an empty scope store.
func NewItemFields() *ItemFields {
	return &ItemFields{
		Shared:      NewFieldMap(),
		Unversioned: &UnversionedFields{},
		Versioned:   &VersionedFields{},
	}
}

// Resolve returns the fields visible for uri: shared, then unversioned for
// the language, then the language's version, later scopes winning on
// collision. The Invariant language sees shared fields only.
func (f *ItemFields) Resolve(uri VersionURI) *FieldMap {
	resolved := f.Shared.Clone()
	if uri.Language.IsInvariant() {
		return resolved
	}
	resolved.Merge(f.Unversioned.Fields(uri.Language))
	if versions := f.Versioned.Versions(uri.Language); versions != nil {
		resolved.Merge(versions.Fields(uri.Version))
	}
	return resolved
}

// Clear empties all three scopes.
func (f *ItemFields) Clear() {
	f.Shared.Clear()
	f.Unversioned.Clear()
	f.Versioned.Clear()
}

// Clone returns a deep copy sharing no maps with f.
func (f *ItemFields) Clone() *ItemFields {
	return &ItemFields{
		Shared:      f.Shared.Clone(),
		Unversioned: f.Unversioned.Clone(),
		Versioned:   f.Versioned.Clone(),
	}
}

// Equal reports whether f and other hold the same values in every scope.
// Empty language and version entries are ignored and order does not matter.
func (f *ItemFields) Equal(other *ItemFields) bool {
	if !f.Shared.Equal(other.Shared) {
		return false
	}
	if !languagesEqual(f.Unversioned.Keys(), other.Unversioned.Keys(), func(l Language) bool {
		return fieldsOrEmpty(f.Unversioned.Fields(l)).Equal(fieldsOrEmpty(other.Unversioned.Fields(l)))
	}) {
		return false
	}
	uris := f.Versioned.URIs()
	if len(uris) != len(other.Versioned.URIs()) {
		return false
	}
	for _, uri := range uris {
		theirs := other.Versioned.Versions(uri.Language)
		if theirs == nil {
			return false
		}
		fields := theirs.Fields(uri.Version)
		if fields == nil || !f.Versioned.Versions(uri.Language).Fields(uri.Version).Equal(fields) {
			return false
		}
	}
	return true
}

func languagesEqual(a, b []Language, same func(Language) bool) bool {
	for _, l := range append(a, b...) {
		if !same(l) {
			return false
		}
	}
	return true
}

func fieldsOrEmpty(m *FieldMap) *FieldMap {
	if m == nil {
		return NewFieldMap()
	}
	return m
}
