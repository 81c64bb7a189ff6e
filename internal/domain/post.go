package domain

// Post is a user-authored content aggregate. Ownership by UserID is
// permanent once the post is created.
type Post struct {
	ID     Identifier
	UserID Identifier

	// Image is an optional reference into the image store; empty means no image.
	Image string

	Title string

	// Link is an optional external URL; empty means no link.
	Link string

	Description string
	BodyContent string
	Status      PostStatus

	CreatedAtUTC string
	UpdatedAtUTC string
}
