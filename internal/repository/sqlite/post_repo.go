package sqlite

import (
	"context"
	"fmt"

	"github.com/prn-tf/helena-identity/internal/domain"
	"github.com/prn-tf/helena-identity/internal/repository"
)

// postRepository implements repository.PostRepository for SQLite.
type postRepository struct {
	db *DB
}

// NewPostRepository creates a new SQLite post repository.
func NewPostRepository(db *DB) repository.PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, user_id, image, title, link, description,
	body_content, status, created_at_utc, updated_at_utc`

func scanPost(s rowScanner) (*domain.Post, error) {
	var (
		id, userID, image, title, link string
		description, body, status      string
		createdAt, updatedAt           string
	)
	if err := s.Scan(&id, &userID, &image, &title, &link,
		&description, &body, &status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	postID, err := domain.IdentifierFrom(id)
	if err != nil {
		return nil, fmt.Errorf("stored post id: %w", err)
	}
	ownerID, err := domain.IdentifierFrom(userID)
	if err != nil {
		return nil, fmt.Errorf("stored post user_id: %w", err)
	}
	postStatus, err := domain.ParsePostStatus(status)
	if err != nil {
		return nil, fmt.Errorf("stored post status: %w", err)
	}

	return &domain.Post{
		ID:           postID,
		UserID:       ownerID,
		Image:        image,
		Title:        title,
		Link:         link,
		Description:  description,
		BodyContent:  body,
		Status:       postStatus,
		CreatedAtUTC: createdAt,
		UpdatedAtUTC: updatedAt,
	}, nil
}

// Create persists a new post.
func (r *postRepository) Create(ctx context.Context, post *domain.Post) (domain.Identifier, error) {
	query := `
		INSERT INTO posts (id, user_id, image, title, link, description,
			body_content, status, created_at_utc, updated_at_utc)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		post.ID.String(),
		post.UserID.String(),
		post.Image,
		post.Title,
		post.Link,
		post.Description,
		post.BodyContent,
		post.Status.String(),
		post.CreatedAtUTC,
		post.UpdatedAtUTC,
	)
	if err != nil {
		return domain.Identifier{}, fmt.Errorf("failed to create post: %w", err)
	}

	return post.ID, nil
}

// GetByID retrieves a post by identifier.
func (r *postRepository) GetByID(ctx context.Context, id domain.Identifier) (*domain.Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM posts WHERE id = ?`, postColumns)

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}
	return post, nil
}

// GetAll returns all posts owned by the given user, newest-id last.
func (r *postRepository) GetAll(ctx context.Context, userID domain.Identifier) ([]*domain.Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM posts WHERE user_id = ? ORDER BY id`, postColumns)

	rows, err := r.db.QueryContext(ctx, query, userID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}

	return posts, nil
}

// Update replaces an existing post. The owning user never changes.
func (r *postRepository) Update(ctx context.Context, post *domain.Post) error {
	query := `
		UPDATE posts
		SET image = ?, title = ?, link = ?, description = ?, body_content = ?,
			status = ?, updated_at_utc = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		post.Image,
		post.Title,
		post.Link,
		post.Description,
		post.BodyContent,
		post.Status.String(),
		post.UpdatedAtUTC,
		post.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
