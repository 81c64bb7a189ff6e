package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*FilesystemStore, string) {
	t.Helper()

	dir := t.TempDir()
	store, err := NewFilesystemStore(dir, zerolog.Nop())
	require.NoError(t, err)
	return store, dir
}

func TestFilesystemStore_StoreAndRetrieve(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	content := []byte("png bytes")
	ref, err := store.Store(ctx, bytes.NewReader(content))
	require.NoError(t, err)

	sum := sha256.Sum256(content)
	assert.Equal(t, hex.EncodeToString(sum[:]), ref)

	rc, err := store.Retrieve(ctx, ref)
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestFilesystemStore_ShardedLayout(t *testing.T) {
	store, dir := newTestStore(t)

	ref, err := store.Store(context.Background(), bytes.NewReader([]byte("content")))
	require.NoError(t, err)

	expected := filepath.Join(dir, ref[0:2], ref[2:4], ref)
	_, err = os.Stat(expected)
	assert.NoError(t, err)
}

func TestFilesystemStore_StoreIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	first, err := store.Store(ctx, bytes.NewReader([]byte("same bytes")))
	require.NoError(t, err)
	second, err := store.Store(ctx, bytes.NewReader([]byte("same bytes")))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFilesystemStore_Exists(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	ref, err := store.Store(ctx, bytes.NewReader([]byte("content")))
	require.NoError(t, err)

	ok, err := store.Exists(ctx, ref)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Exists(ctx, "deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFilesystemStore_Delete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	ref, err := store.Store(ctx, bytes.NewReader([]byte("content")))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, ref))

	_, err = store.Retrieve(ctx, ref)
	assert.ErrorIs(t, err, ErrImageNotFound)

	err = store.Delete(ctx, ref)
	assert.ErrorIs(t, err, ErrImageNotFound)
}
