// Package repository defines data access interfaces for helena-identity.
// These interfaces abstract database operations, allowing for different
// implementations (SQLite, PostgreSQL, in-memory for testing) while keeping
// the service layer clean.
package repository

import (
	"context"

	"github.com/prn-tf/helena-identity/internal/domain"
)

// UserRepository defines the interface for user data access. All lookups are
// exact-match on the value object's canonical form. Implementations must
// enforce uniqueness of email, phone and document with unique indexes; the
// service layer's check-then-act reads are not race-safe on their own.
type UserRepository interface {
	// Create persists a new user and returns its identifier.
	// Returns ErrDuplicate if a unique field is already taken.
	Create(ctx context.Context, user *domain.User) (domain.Identifier, error)

	// GetByID retrieves a user by identifier.
	GetByID(ctx context.Context, id domain.Identifier) (*domain.User, error)

	// GetAll returns all users.
	GetAll(ctx context.Context) ([]*domain.User, error)

	// Update replaces an existing user.
	// Returns ErrDuplicate if a unique field is already taken.
	Update(ctx context.Context, user *domain.User) error

	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email domain.Email) (*domain.User, error)

	// GetByPhoneNumber retrieves a user by phone number.
	GetByPhoneNumber(ctx context.Context, phone domain.PhoneNumber) (*domain.User, error)

	// GetByDocument retrieves a user by document.
	GetByDocument(ctx context.Context, document domain.Document) (*domain.User, error)
}

// PostRepository defines the interface for post data access.
type PostRepository interface {
	// Create persists a new post and returns its identifier.
	Create(ctx context.Context, post *domain.Post) (domain.Identifier, error)

	// GetByID retrieves a post by identifier.
	GetByID(ctx context.Context, id domain.Identifier) (*domain.Post, error)

	// GetAll returns all posts owned by the given user.
	GetAll(ctx context.Context, userID domain.Identifier) ([]*domain.Post, error)

	// Update replaces an existing post.
	Update(ctx context.Context, post *domain.Post) error
}
