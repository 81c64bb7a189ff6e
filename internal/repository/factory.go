// Package repository provides the data access layer for helena-identity.
// This file contains the repository bundle handed to the service layer and
// the selection helpers used by the wiring code; the concrete constructors
// live in the driver packages to keep the import graph acyclic.
package repository

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/prn-tf/helena-identity/internal/config"
)

// Repositories holds all repository instances.
type Repositories struct {
	User UserRepository
	Post PostRepository
}

// DatabaseHealth is an interface for database health checks and shutdown.
type DatabaseHealth interface {
	Ping(ctx context.Context) error
	Close() error
}

// Factory selects repository implementations based on configuration.
type Factory struct {
	cfg    config.DatabaseConfig
	logger zerolog.Logger
}

// NewFactory creates a new repository factory.
func NewFactory(cfg config.DatabaseConfig, logger zerolog.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// Driver returns the configured database driver.
func (f *Factory) Driver() string {
	return f.cfg.Driver
}

// IsEmbedded returns true if using an embedded database (SQLite).
func (f *Factory) IsEmbedded() bool {
	return f.cfg.IsEmbedded()
}
