package domain

import (
	"fmt"
	"strings"
)

// Language names a content language, e.g. "en" or "da-DK".
type Language string

// Invariant applies to all languages and carries no version scoping.
const Invariant Language = ""

// ParseLanguage validates a language name. Empty input and "invariant"
// both yield Invariant.
func ParseLanguage(s string) (Language, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "invariant") {
		return Invariant, nil
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return Invariant, fmt.Errorf("%w: language %q contains %q", ErrInvalidInput, s, r)
		}
	}
	return Language(s), nil
}

// IsInvariant reports whether l is the Invariant language.
func (l Language) IsInvariant() bool {
	return l == Invariant
}

// String returns the language name, or "invariant".
func (l Language) String() string {
	if l.IsInvariant() {
		return "invariant"
	}
	return string(l)
}
