package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPhoneNumber_Valid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"nine digit mobile", "11987654321", "5511987654321"},
		{"eight digit padded", "1187654321", "5511987654321"},
		{"with country code", "5511987654321", "5511987654321"},
		{"full punctuation", "+55(11)98765-4321", "5511987654321"},
		{"punctuation no country code", "(11)98765-4321", "5511987654321"},
		{"another ddd", "21987654321", "5521987654321"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phone, err := NewPhoneNumber(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, phone.String())
		})
	}
}

func TestNewPhoneNumber_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{"empty", "", ErrPhoneEmpty},
		{"letters", "11abc54321", ErrPhoneCharacters},
		{"internal spaces", "11 98765 4321", ErrPhoneCharacters},
		{"too long input", strings.Repeat("1", 31), ErrPhoneLength},
		{"unknown ddd", "09987654321", ErrPhoneDDD},
		{"ddd zero", "00987654321", ErrPhoneDDD},
		{"too few digits", "1", ErrPhoneDDD},
		{"subscriber too short", "111234567", ErrPhoneSubscriberLength},
		{"subscriber too long", "111234567890", ErrPhoneSubscriberLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPhoneNumber(tt.raw)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPhoneNumber_Formatted(t *testing.T) {
	phone, err := NewPhoneNumber("11987654321")
	require.NoError(t, err)
	assert.Equal(t, "+55 (11) 98765-4321", phone.Formatted())
}

func TestPhoneNumber_Equals(t *testing.T) {
	a, err := NewPhoneNumber("1187654321")
	require.NoError(t, err)
	b, err := NewPhoneNumber("+55(11)98765-4321")
	require.NoError(t, err)

	assert.True(t, a.Equals(b))
}
