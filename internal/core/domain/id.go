package domain

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID identifies an item, a template, or a field.
// IDs are GUIDs; the canonical text form is upper case in braces.
type ID uuid.UUID

// NullID is the zero ID. It denotes "no parent" and "not found".
var NullID ID

// NewID returns a random ID.
func NewID() ID {
	return ID(uuid.New())
}

// ParseID parses an ID in braced, hyphenated, URN, or plain hex form.
func ParseID(s string) (ID, error) {
	u, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return NullID, fmt.Errorf("%w: parsing id %q: %v", ErrInvalidInput, s, err)
	}
	return ID(u), nil
}

// MustParseID is like ParseID but panics on malformed input.
// It is intended for well-known ids and tests.
func MustParseID(s string) ID {
	id, err := ParseID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// IsNull reports whether id is the Null sentinel.
func (id ID) IsNull() bool {
	return id == NullID
}

// String returns the canonical form, e.g. {110D559F-DEA5-42EA-9C1C-8A5DF7E70EF9}.
func (id ID) String() string {
	return "{" + strings.ToUpper(uuid.UUID(id).String()) + "}"
}

// Compare orders ids by their byte representation.
func (id ID) Compare(other ID) int {
	return bytes.Compare(id[:], other[:])
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty text yields
// NullID.
func (id *ID) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*id = NullID
		return nil
	}
	parsed, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
