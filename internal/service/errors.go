// Package service provides the use cases of helena-identity.
package service

import "errors"

// Common service errors.
var (
	// Not-found errors
	ErrUserNotFound    = errors.New("user not found")
	ErrCreatorNotFound = errors.New("creator not found")
	ErrPostNotFound    = errors.New("post not found")

	// Authorization errors
	ErrAdminRequired      = errors.New("operation requires an admin creator")
	ErrSuperAdminRequired = errors.New("operation requires a super-admin creator")

	// Uniqueness conflicts
	ErrEmailTaken      = errors.New("email already belongs to another user")
	ErrPhoneTaken      = errors.New("phone number already belongs to another user")
	ErrDocumentTaken   = errors.New("document already belongs to another user")
	ErrUniqueViolation = errors.New("unique constraint violated")

	// Configuration errors
	ErrHasherRequired     = errors.New("password hasher is required for this operation")
	ErrImageStoreRequired = errors.New("image store is required for this operation")

	// General errors
	ErrInternalError = errors.New("internal error")
)
