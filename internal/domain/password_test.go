package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingHasher records invocations so tests can assert that validation
// failures never reach the hasher.
type countingHasher struct {
	calls int
}

func (h *countingHasher) Hash(plain string) (string, error) {
	h.calls++
	return "hashed:" + plain, nil
}

func (h *countingHasher) Verify(plain, hash string) bool {
	return hash == "hashed:"+plain
}

func TestNewPassword(t *testing.T) {
	hasher := &countingHasher{}

	password, err := NewPassword("s3cret!pass", hasher)
	require.NoError(t, err)

	assert.Equal(t, "hashed:s3cret!pass", password.Value())
	assert.True(t, password.Hashed())
	assert.Equal(t, 1, hasher.calls)
}

func TestNewPassword_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		plain   string
		wantErr error
	}{
		{"empty", "", ErrPasswordCharacters},
		{"contains space", "bad pass 123", ErrPasswordCharacters},
		{"accented letters", "senhaçäo123", ErrPasswordCharacters},
		{"too short", "s3cret!", ErrPasswordLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hasher := &countingHasher{}
			_, err := NewPassword(tt.plain, hasher)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, hasher.calls, "hasher must not see invalid plain text")
		})
	}
}

func TestPasswordFromHash(t *testing.T) {
	password := PasswordFromHash("$2a$10$abcdefghijklmnopqrstuv")

	assert.Equal(t, "$2a$10$abcdefghijklmnopqrstuv", password.Value())
	assert.True(t, password.Hashed())
}

func TestPassword_StringMasksValue(t *testing.T) {
	hasher := &countingHasher{}
	password, err := NewPassword("s3cret!pass", hasher)
	require.NoError(t, err)

	assert.NotContains(t, password.String(), "s3cret")
	assert.NotContains(t, password.String(), "hashed")
}
