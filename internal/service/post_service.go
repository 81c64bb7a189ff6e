package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/helena-identity/internal/domain"
	"github.com/prn-tf/helena-identity/internal/metrics"
	"github.com/prn-tf/helena-identity/internal/repository"
	"github.com/prn-tf/helena-identity/internal/storage"
)

// PostService handles post management operations. Image bytes go through the
// image store; the post only carries the returned content reference.
type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	images   storage.ImageStore
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewPostService creates a new PostService. images and metrics may be nil;
// a nil image store only fails operations that actually upload an image.
func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository, images storage.ImageStore, m *metrics.Metrics, logger zerolog.Logger) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
		images:   images,
		metrics:  m,
		logger:   logger.With().Str("service", "post").Logger(),
	}
}

// CreatePostInput contains the data needed to create a post.
type CreatePostInput struct {
	AuthorID    string
	Title       string
	Link        string
	Description string
	BodyContent string
	Status      string

	// Image is optional; when set, the content is stored and the post
	// records the resulting reference.
	Image io.Reader
}

// CreatePostOutput contains the result of creating a post.
type CreatePostOutput struct {
	ID       domain.Identifier
	ImageRef string
}

// Create creates a new post owned by an existing user.
func (s *PostService) Create(ctx context.Context, input CreatePostInput) (out *CreatePostOutput, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOperation("post.create", err, start) }()

	authorID, err := domain.IdentifierFrom(input.AuthorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, authorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error().Err(err).Str("author_id", input.AuthorID).Msg("failed to load author")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	status, err := domain.ParsePostStatus(input.Status)
	if err != nil {
		return nil, err
	}

	var imageRef string
	if input.Image != nil {
		if s.images == nil {
			return nil, ErrImageStoreRequired
		}
		imageRef, err = s.images.Store(ctx, input.Image)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to store post image")
			return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
		}
	}

	id, err := domain.NewIdentifier()
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to generate identifier")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	post := &domain.Post{
		ID:           id,
		UserID:       authorID,
		Image:        imageRef,
		Title:        input.Title,
		Link:         input.Link,
		Description:  input.Description,
		BodyContent:  input.BodyContent,
		Status:       status,
		CreatedAtUTC: now,
		UpdatedAtUTC: now,
	}

	createdID, err := s.postRepo.Create(ctx, post)
	if err != nil {
		s.logger.Error().Err(err).Str("author_id", input.AuthorID).Msg("failed to create post")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Str("post_id", createdID.String()).
		Str("author_id", authorID.String()).
		Str("status", status.String()).
		Msg("post created")

	return &CreatePostOutput{ID: createdID, ImageRef: imageRef}, nil
}

// UpdatePostInput contains the data for a partial post update.
// Nil pointer fields keep the post's current value. Ownership cannot change.
type UpdatePostInput struct {
	ID string

	Title       *string
	Link        *string
	Description *string
	BodyContent *string
	Status      *string

	// Image replaces the stored image when set.
	Image io.Reader
}

// UpdatePostOutput contains the result of updating a post.
type UpdatePostOutput struct {
	Post *domain.Post
}

// Update applies a partial update to an existing post.
func (s *PostService) Update(ctx context.Context, input UpdatePostInput) (out *UpdatePostOutput, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOperation("post.update", err, start) }()

	postID, err := domain.IdentifierFrom(input.ID)
	if err != nil {
		return nil, err
	}
	target, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Error().Err(err).Str("post_id", input.ID).Msg("failed to load post")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	updated := *target

	if input.Title != nil {
		updated.Title = *input.Title
	}
	if input.Link != nil {
		updated.Link = *input.Link
	}
	if input.Description != nil {
		updated.Description = *input.Description
	}
	if input.BodyContent != nil {
		updated.BodyContent = *input.BodyContent
	}
	if input.Status != nil {
		status, err := domain.ParsePostStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		updated.Status = status
	}
	if input.Image != nil {
		if s.images == nil {
			return nil, ErrImageStoreRequired
		}
		imageRef, err := s.images.Store(ctx, input.Image)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to store post image")
			return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
		}
		// Content-addressed refs are shared, so the old image is left in
		// place rather than deleted; another post may point at it.
		updated.Image = imageRef
	}

	updated.UpdatedAtUTC = time.Now().UTC().Format(time.RFC3339)

	if err := s.postRepo.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Error().Err(err).Str("post_id", input.ID).Msg("failed to update post")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Str("post_id", updated.ID.String()).
		Msg("post updated")

	return &UpdatePostOutput{Post: &updated}, nil
}

// GetByID retrieves a post by identifier.
func (s *PostService) GetByID(ctx context.Context, id string) (post *domain.Post, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOperation("post.get", err, start) }()

	postID, err := domain.IdentifierFrom(id)
	if err != nil {
		return nil, err
	}

	post, err = s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Error().Err(err).Str("post_id", id).Msg("failed to get post")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return post, nil
}

// ListByUser returns all posts owned by a user.
func (s *PostService) ListByUser(ctx context.Context, userID string) (posts []*domain.Post, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOperation("post.list", err, start) }()

	ownerID, err := domain.IdentifierFrom(userID)
	if err != nil {
		return nil, err
	}

	posts, err = s.postRepo.GetAll(ctx, ownerID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to list posts")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return posts, nil
}
