package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Identifier is a time-ordered unique identifier (UUIDv7) in canonical
// lowercase hyphenated form. The 48-bit millisecond timestamp prefix makes
// generated identifiers sort lexicographically by creation time.
type Identifier struct {
	value string
}

// NewIdentifier generates a fresh identifier.
func NewIdentifier() (Identifier, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Identifier{}, fmt.Errorf("failed to generate identifier: %w", err)
	}
	return Identifier{value: id.String()}, nil
}

// IdentifierFrom wraps an externally supplied identifier string.
// The string is parsed and re-rendered in canonical form, so uppercase or
// alternate encodings never leak into storage.
func IdentifierFrom(s string) (Identifier, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return Identifier{}, fmt.Errorf("%w: %q", ErrIdentifierFormat, s)
	}
	return Identifier{value: id.String()}, nil
}

// String returns the canonical 8-4-4-4-12 lowercase hex form.
func (i Identifier) String() string {
	return i.value
}

// IsZero reports whether the identifier was never set.
func (i Identifier) IsZero() bool {
	return i.value == ""
}

// Equals reports canonical-string equality.
func (i Identifier) Equals(other Identifier) bool {
	return i.value == other.value
}
