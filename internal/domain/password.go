package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// PasswordHasher is the capability contract for hashing and verifying
// passwords. The concrete algorithm, cost parameters and storage encoding
// are the adapter's responsibility.
type PasswordHasher interface {
	// Hash hashes a validated plain-text password.
	Hash(plain string) (string, error)

	// Verify checks a plain-text attempt against a stored hash.
	Verify(plain, hash string) bool
}

// Password holds a hashed credential. Construction from plain text is a
// two-phase factory: the plain text is validated, handed to the hasher, and
// only the hash is retained. No code outside NewPassword ever observes the
// plain text.
type Password struct {
	value  string
	hashed bool
}

const minPasswordLen = 8

var passwordPattern = regexp.MustCompile(`^[a-zA-Z0-9!@#$%^&*()_+{}\[\]:;<>,.?~\\/-]+$`)

// NewPassword validates plain against the allowed character set and minimum
// length, then immediately replaces it with the hasher's output. Validation
// failures are reported before the hasher is ever invoked.
func NewPassword(plain string, hasher PasswordHasher) (Password, error) {
	if !passwordPattern.MatchString(plain) {
		return Password{}, ErrPasswordCharacters
	}
	if len(plain) < minPasswordLen {
		return Password{}, ErrPasswordLength
	}

	hash, err := hasher.Hash(plain)
	if err != nil {
		return Password{}, fmt.Errorf("failed to hash password: %w", err)
	}

	return Password{value: hash, hashed: true}, nil
}

// PasswordFromHash wraps an already-hashed value with no validation. Used
// when reconstructing a User from storage.
func PasswordFromHash(hash string) Password {
	return Password{value: hash, hashed: true}
}

// Value returns the stored hash.
func (p Password) Value() string {
	return p.value
}

// Hashed reports whether the held value is a hash. Always true for
// passwords built through NewPassword or PasswordFromHash.
func (p Password) Hashed() bool {
	return p.hashed
}

// String masks the stored value so hashes never leak into logs.
func (p Password) String() string {
	return strings.Repeat("*", len(p.value))
}
