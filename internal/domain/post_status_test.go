package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePostStatus(t *testing.T) {
	for _, want := range []PostStatus{StatusDraft, StatusPending, StatusPublished} {
		got, err := ParsePostStatus(want.String())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestParsePostStatus_Unknown(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"lowercase", "draft"},
		{"unknown value", "ARCHIVED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePostStatus(tt.raw)
			assert.ErrorIs(t, err, ErrPostStatusUnknown)
		})
	}
}
