package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/prn-tf/helena-identity/internal/pkg/crypto"
)

// FilesystemStore implements ImageStore on the local filesystem.
// Content is written to a temp file while being hashed, then renamed into
// its sharded location, so partially written images are never visible.
type FilesystemStore struct {
	baseDir string
	logger  zerolog.Logger
}

// NewFilesystemStore creates a filesystem image store rooted at baseDir.
func NewFilesystemStore(baseDir string, logger zerolog.Logger) (*FilesystemStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &FilesystemStore{
		baseDir: baseDir,
		logger:  logger.With().Str("storage", "filesystem").Logger(),
	}, nil
}

// Store persists content and returns its SHA-256 reference.
func (s *FilesystemStore) Store(ctx context.Context, reader io.Reader) (string, error) {
	tmp, err := os.CreateTemp(s.baseDir, "upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	hashReader := crypto.NewHashReader(reader)
	if _, err := io.Copy(tmp, hashReader); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	ref := hashReader.SHA256()
	finalPath := filepath.Join(s.baseDir, shardPath(ref))

	// Same content already stored; the temp copy is redundant.
	if _, err := os.Stat(finalPath); err == nil {
		return ref, nil
	}

	if err := os.MkdirAll(filepath.Dir(finalPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create shard directory: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return "", fmt.Errorf("failed to move image into place: %w", err)
	}

	s.logger.Debug().
		Str("ref", ref).
		Int64("size", hashReader.Size()).
		Msg("image stored")

	return ref, nil
}

// Retrieve returns the content for a reference.
func (s *FilesystemStore) Retrieve(ctx context.Context, ref string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.baseDir, shardPath(ref)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrImageNotFound
		}
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return f, nil
}

// Delete removes the content for a reference.
func (s *FilesystemStore) Delete(ctx context.Context, ref string) error {
	err := os.Remove(filepath.Join(s.baseDir, shardPath(ref)))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrImageNotFound
		}
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// Exists checks whether a reference has stored content.
func (s *FilesystemStore) Exists(ctx context.Context, ref string) (bool, error) {
	_, err := os.Stat(filepath.Join(s.baseDir, shardPath(ref)))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat image: %w", err)
	}
	return true, nil
}
