package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// PersonName is a whitespace-collapsed, trimmed name containing only letters
// (including Latin-1 accented letters) and spaces.
type PersonName struct {
	name string
}

const maxPersonNameLen = 100

var personNamePattern = regexp.MustCompile(`^[a-zA-Z\x{00C0}-\x{00FF}\s]+$`)

// NewPersonName validates raw and returns the canonical collapsed form.
func NewPersonName(raw string) (PersonName, error) {
	cleaned := strings.Join(strings.Fields(raw), " ")

	if cleaned == "" {
		return PersonName{}, ErrPersonNameEmpty
	}
	if n := utf8.RuneCountInString(cleaned); n > maxPersonNameLen {
		return PersonName{}, fmt.Errorf("%w: got %d", ErrPersonNameLength, n)
	}
	if !personNamePattern.MatchString(cleaned) {
		return PersonName{}, fmt.Errorf("%w: %q", ErrPersonNameFormat, raw)
	}

	return PersonName{name: cleaned}, nil
}

// String returns the canonical name.
func (n PersonName) String() string {
	return n.name
}

// Equals reports canonical equality.
func (n PersonName) Equals(other PersonName) bool {
	return n.name == other.name
}
