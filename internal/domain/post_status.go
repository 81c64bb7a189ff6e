package domain

import "fmt"

// PostStatus is the workflow status of a Post.
type PostStatus string

const (
	// StatusDraft marks a post still being written.
	StatusDraft PostStatus = "DRAFT"

	// StatusPending marks a post awaiting review.
	StatusPending PostStatus = "PENDING"

	// StatusPublished marks a publicly visible post.
	StatusPublished PostStatus = "PUBLISHED"
)

// ParsePostStatus validates membership in the closed status set.
func ParsePostStatus(s string) (PostStatus, error) {
	switch PostStatus(s) {
	case StatusDraft, StatusPending, StatusPublished:
		return PostStatus(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrPostStatusUnknown, s)
	}
}

// String returns the status name.
func (s PostStatus) String() string {
	return string(s)
}
