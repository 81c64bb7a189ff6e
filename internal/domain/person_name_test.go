package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPersonName(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"simple", "Ana Souza", "Ana Souza"},
		{"accented", "João da Conceição", "João da Conceição"},
		{"collapses inner whitespace", "Ana   \t Souza", "Ana Souza"},
		{"trims surrounding whitespace", "  Ana Souza \n", "Ana Souza"},
		{"single word", "Ana", "Ana"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewPersonName(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNewPersonName_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{"empty", "", ErrPersonNameEmpty},
		{"whitespace only", " \t\n ", ErrPersonNameEmpty},
		{"digits", "Ana Souza 2", ErrPersonNameFormat},
		{"punctuation", "Ana-Souza", ErrPersonNameFormat},
		{"too long", strings.Repeat("a", 101), ErrPersonNameLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPersonName(tt.raw)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewPersonName_LengthCountsRunes(t *testing.T) {
	// 100 accented characters are 200 bytes but still a valid length.
	raw := strings.Repeat("ã", 100)
	got, err := NewPersonName(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, got.String())

	_, err = NewPersonName(strings.Repeat("ã", 101))
	assert.ErrorIs(t, err, ErrPersonNameLength)
}
