// Package domain contains the core business entities and value objects for
// helena-identity. Value objects validate on construction and only ever hold
// their canonical form; entities are plain aggregates of value objects with
// no validation logic of their own.
package domain

import (
	"errors"
	"fmt"
)

// Domain errors - these represent validation failures raised by value-object
// constructors. They are distinct from infrastructure errors (database,
// network, etc.).

var (
	// ErrIdentifierFormat indicates the identifier string is not a valid UUID.
	ErrIdentifierFormat = errors.New("identifier is not a valid UUID")

	// ErrDocumentCharacters indicates the document contains characters other
	// than digits and the ./- separators.
	ErrDocumentCharacters = errors.New("document must contain only numbers and optional separators (./-)")

	// ErrDocumentLength indicates the digit count is neither 11 (CPF) nor 14 (CNPJ).
	ErrDocumentLength = errors.New("document must have 11 (CPF) or 14 (CNPJ) digits")

	// ErrDocumentCPFChecksum indicates the CPF check digits do not match.
	ErrDocumentCPFChecksum = errors.New("document failed CPF validation algorithm")

	// ErrDocumentCNPJChecksum indicates the CNPJ check digits do not match.
	ErrDocumentCNPJChecksum = errors.New("document failed CNPJ validation algorithm")

	// ErrEmailEmpty indicates the email is empty or whitespace only.
	ErrEmailEmpty = errors.New("email address cannot be empty")

	// ErrEmailLength indicates the email exceeds the total length limit.
	ErrEmailLength = errors.New("email address must be at most 250 characters")

	// ErrEmailFormat indicates the email does not split into local@domain.
	ErrEmailFormat = errors.New("email address must contain exactly one '@'")

	// ErrEmailLocalPart indicates the local part is malformed.
	ErrEmailLocalPart = errors.New("email local part is invalid")

	// ErrEmailDomainPart indicates the domain part is malformed.
	ErrEmailDomainPart = errors.New("email domain part is invalid")

	// ErrPersonNameEmpty indicates the name is empty or whitespace only.
	ErrPersonNameEmpty = errors.New("person name cannot be empty")

	// ErrPersonNameLength indicates the name exceeds 100 characters.
	ErrPersonNameLength = errors.New("person name must be at most 100 characters")

	// ErrPersonNameFormat indicates the name contains characters other than
	// letters (including Latin-1 accented letters) and spaces.
	ErrPersonNameFormat = errors.New("person name must contain only letters and spaces")

	// ErrPhoneEmpty indicates the phone number is empty or whitespace only.
	ErrPhoneEmpty = errors.New("phone number cannot be empty")

	// ErrPhoneCharacters indicates the phone contains invalid characters.
	ErrPhoneCharacters = errors.New("phone number contains invalid characters")

	// ErrPhoneLength indicates the raw phone exceeds the input length limit.
	ErrPhoneLength = errors.New("phone number must be at most 30 characters")

	// ErrPhoneDDD indicates the area code is not a known Brazilian DDD.
	ErrPhoneDDD = errors.New("unknown Brazilian area code (DDD)")

	// ErrPhoneSubscriberLength indicates the subscriber number has fewer than
	// 8 or more than 9 digits.
	ErrPhoneSubscriberLength = errors.New("subscriber number must have 8 or 9 digits")

	// ErrPhoneFormat indicates the normalized number failed the final format check.
	ErrPhoneFormat = errors.New("phone number has invalid format")

	// ErrPasswordCharacters indicates the plain-text password contains
	// characters outside the allowed set.
	ErrPasswordCharacters = errors.New("password contains invalid characters")

	// ErrPasswordLength indicates the plain-text password is shorter than 8 characters.
	ErrPasswordLength = errors.New("password must be at least 8 characters long")

	// ErrPostStatusUnknown indicates the status is not DRAFT, PENDING or PUBLISHED.
	ErrPostStatusUnknown = errors.New("unknown post status")
)

// DomainError wraps a domain error with the field it refers to, so callers
// can report which input was rejected.
type DomainError struct {
	// Err is the underlying domain error.
	Err error

	// Field identifies the offending input (e.g. "email", "document").
	Field string

	// Value is the rejected raw input, when safe to echo back.
	Value string
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %s (%q)", e.Field, e.Err.Error(), e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Err.Error())
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError with field context.
func NewDomainError(err error, field, value string) *DomainError {
	return &DomainError{
		Err:   err,
		Field: field,
		Value: value,
	}
}
