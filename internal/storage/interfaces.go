// Package storage defines the image store used for Post image references.
// Content is addressed by its SHA-256 hash: the reference recorded on a
// Post is the hash returned by Store, so identical uploads deduplicate
// naturally.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrImageNotFound indicates the referenced image does not exist.
var ErrImageNotFound = errors.New("image not found")

// ImageStore defines the interface for image storage backends.
// Implementations include the local filesystem and S3.
type ImageStore interface {
	// Store persists content from reader and returns its reference
	// (the hex SHA-256 hash of the content). Storing the same content
	// twice returns the same reference.
	Store(ctx context.Context, reader io.Reader) (ref string, err error)

	// Retrieve returns the content for a reference.
	// The returned ReadCloser must be closed after use.
	Retrieve(ctx context.Context, ref string) (io.ReadCloser, error)

	// Delete removes the content for a reference.
	Delete(ctx context.Context, ref string) error

	// Exists checks whether a reference has stored content.
	Exists(ctx context.Context, ref string) (bool, error)
}
