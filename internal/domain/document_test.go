package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocument_ValidCPF(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare digits", "52998224725", "52998224725"},
		{"punctuated", "529.982.247-25", "52998224725"},
		{"classic sequence", "12345678909", "12345678909"},
		{"repeated block", "11144477735", "11144477735"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := NewDocument(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.String())
			assert.True(t, doc.IsCPF())
			assert.False(t, doc.IsCNPJ())
		})
	}
}

func TestNewDocument_ValidCNPJ(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare digits", "11222333000181", "11222333000181"},
		{"punctuated", "11.222.333/0001-81", "11222333000181"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := NewDocument(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.String())
			assert.True(t, doc.IsCNPJ())
			assert.False(t, doc.IsCPF())
		})
	}
}

func TestNewDocument_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{"empty", "", ErrDocumentCharacters},
		{"letters", "5299822472a", ErrDocumentCharacters},
		{"disallowed punctuation", "529 982 247 25", ErrDocumentCharacters},
		{"too short", "123", ErrDocumentLength},
		{"between cpf and cnpj", "529982247251", ErrDocumentLength},
		{"too long", "112223330001811", ErrDocumentLength},
		{"cpf bad first check digit", "52998224735", ErrDocumentCPFChecksum},
		{"cpf bad second check digit", "52998224724", ErrDocumentCPFChecksum},
		{"cpf all same digits", "11111111111", ErrDocumentCPFChecksum},
		{"cpf all zeros", "00000000000", ErrDocumentCPFChecksum},
		{"cnpj bad check digit", "11222333000182", ErrDocumentCNPJChecksum},
		{"cnpj all same digits", "11111111111111", ErrDocumentCNPJChecksum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDocument(tt.raw)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDocument_Formatted(t *testing.T) {
	cpf, err := NewDocument("52998224725")
	require.NoError(t, err)
	assert.Equal(t, "529.982.247-25", cpf.Formatted())

	cnpj, err := NewDocument("11222333000181")
	require.NoError(t, err)
	assert.Equal(t, "11.222.333/0001-81", cnpj.Formatted())
}

func TestDocument_Equals(t *testing.T) {
	a, err := NewDocument("529.982.247-25")
	require.NoError(t, err)
	b, err := NewDocument("52998224725")
	require.NoError(t, err)

	assert.True(t, a.Equals(b))
}
