package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a version number. Valid versions start at 1; zero means
// "no particular version".
type Version int

// IsValid reports whether v names a stored version.
func (v Version) IsValid() bool {
	return v > 0
}

// ParseVersion parses a decimal version number. Negative numbers are rejected.
func ParseVersion(s string) (Version, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: version %q", ErrInvalidInput, s)
	}
	return Version(n), nil
}

// VersionURI identifies one revision of an item's versioned fields.
type VersionURI struct {
	Language Language
	Version  Version
}

// NewVersionURI returns the revision coordinates for a language and number.
func NewVersionURI(language Language, version Version) VersionURI {
	return VersionURI{Language: language, Version: version}
}

// String returns "language#version".
func (u VersionURI) String() string {
	return fmt.Sprintf("%s#%d", u.Language, u.Version)
}
