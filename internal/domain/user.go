package domain

// User is the identity aggregate. All fields are validated value objects;
// the entity itself carries no validation logic. Document, Email and Phone
// are globally unique across users - the use cases enforce that, backed by
// unique indexes in the persistence adapters.
//
// Timestamp fields are ISO-8601 UTC strings. This core stores and forwards
// them but never parses them.
type User struct {
	ID       Identifier
	Document Document
	Name     PersonName
	Email    Email
	Phone    PhoneNumber
	Password Password

	CreatedAtUTC      string
	UpdatedAtUTC      string
	LastAccessedAtUTC string

	// Admin grants permission to create and manage users.
	Admin bool

	// SuperAdmin grants permission to create other admins and super-admins.
	// It can only be set at creation time, never through an update.
	SuperAdmin bool
}
