package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/prn-tf/helena-identity/internal/domain"
	"github.com/prn-tf/helena-identity/internal/repository"
)

// MockPostRepository is an in-memory implementation of repository.PostRepository.
type MockPostRepository struct {
	posts map[string]*domain.Post

	createErr error
	getErr    error
	updateErr error
}

func NewMockPostRepository() *MockPostRepository {
	return &MockPostRepository{posts: make(map[string]*domain.Post)}
}

func (m *MockPostRepository) Create(ctx context.Context, post *domain.Post) (domain.Identifier, error) {
	if m.createErr != nil {
		return domain.Identifier{}, m.createErr
	}
	copied := *post
	m.posts[post.ID.String()] = &copied
	return post.ID, nil
}

func (m *MockPostRepository) GetByID(ctx context.Context, id domain.Identifier) (*domain.Post, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if p, ok := m.posts[id.String()]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (m *MockPostRepository) GetAll(ctx context.Context, userID domain.Identifier) ([]*domain.Post, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	var result []*domain.Post
	for _, p := range m.posts {
		if p.UserID.Equals(userID) {
			copied := *p
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *MockPostRepository) Update(ctx context.Context, post *domain.Post) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.posts[post.ID.String()]; !ok {
		return repository.ErrNotFound
	}
	copied := *post
	m.posts[post.ID.String()] = &copied
	return nil
}

// fakeImageStore records stored content keyed by a counter-based reference.
type fakeImageStore struct {
	stored   map[string][]byte
	storeErr error
	counter  int
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{stored: make(map[string][]byte)}
}

func (f *fakeImageStore) Store(ctx context.Context, reader io.Reader) (string, error) {
	if f.storeErr != nil {
		return "", f.storeErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	f.counter++
	ref := strings.Repeat("a", 63) + string(rune('0'+f.counter))
	f.stored[ref] = data
	return ref, nil
}

func (f *fakeImageStore) Retrieve(ctx context.Context, ref string) (io.ReadCloser, error) {
	data, ok := f.stored[ref]
	if !ok {
		return nil, errors.New("not stored")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeImageStore) Delete(ctx context.Context, ref string) error {
	delete(f.stored, ref)
	return nil
}

func (f *fakeImageStore) Exists(ctx context.Context, ref string) (bool, error) {
	_, ok := f.stored[ref]
	return ok, nil
}

func newTestPostService(postRepo *MockPostRepository, userRepo *MockUserRepository, images *fakeImageStore) *PostService {
	if images == nil {
		return NewPostService(postRepo, userRepo, nil, nil, zerolog.Nop())
	}
	return NewPostService(postRepo, userRepo, images, nil, zerolog.Nop())
}

func TestPostService_Create(t *testing.T) {
	userRepo := NewMockUserRepository()
	author := mustUser(t, "52998224725", "Ana Souza", "ana@example.com", "11987654321", false, false)
	userRepo.add(author)

	postRepo := NewMockPostRepository()
	svc := newTestPostService(postRepo, userRepo, newFakeImageStore())

	output, err := svc.Create(context.Background(), CreatePostInput{
		AuthorID:    author.ID.String(),
		Title:       "Primeiro post",
		Description: "uma descrição",
		BodyContent: "conteúdo",
		Status:      "DRAFT",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.ID.IsZero() {
		t.Error("expected a non-zero identifier")
	}

	created, err := postRepo.GetByID(context.Background(), output.ID)
	if err != nil {
		t.Fatalf("created post not persisted: %v", err)
	}
	if !created.UserID.Equals(author.ID) {
		t.Errorf("expected owner %s, got %s", author.ID, created.UserID)
	}
	if created.Status != domain.StatusDraft {
		t.Errorf("expected DRAFT, got %s", created.Status)
	}
	if created.CreatedAtUTC == "" || created.CreatedAtUTC != created.UpdatedAtUTC {
		t.Errorf("expected matching creation timestamps, got %q / %q", created.CreatedAtUTC, created.UpdatedAtUTC)
	}
}

func TestPostService_Create_WithImage(t *testing.T) {
	userRepo := NewMockUserRepository()
	author := mustUser(t, "52998224725", "Ana Souza", "ana@example.com", "11987654321", false, false)
	userRepo.add(author)

	postRepo := NewMockPostRepository()
	images := newFakeImageStore()
	svc := newTestPostService(postRepo, userRepo, images)

	output, err := svc.Create(context.Background(), CreatePostInput{
		AuthorID: author.ID.String(),
		Title:    "Com imagem",
		Status:   "PUBLISHED",
		Image:    bytes.NewReader([]byte("png bytes")),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.ImageRef == "" {
		t.Fatal("expected an image reference")
	}
	if string(images.stored[output.ImageRef]) != "png bytes" {
		t.Error("image content not stored")
	}

	created, _ := postRepo.GetByID(context.Background(), output.ID)
	if created.Image != output.ImageRef {
		t.Errorf("post image ref %q does not match stored ref %q", created.Image, output.ImageRef)
	}
}

func TestPostService_Create_Errors(t *testing.T) {
	userRepo := NewMockUserRepository()
	author := mustUser(t, "52998224725", "Ana Souza", "ana@example.com", "11987654321", false, false)
	userRepo.add(author)

	tests := []struct {
		name    string
		input   CreatePostInput
		noStore bool
		wantErr error
	}{
		{
			name: "author not found",
			input: CreatePostInput{
				AuthorID: "018f4e8a-0000-7000-8000-000000000000",
				Title:    "Post",
				Status:   "DRAFT",
			},
			wantErr: ErrUserNotFound,
		},
		{
			name: "malformed author id",
			input: CreatePostInput{
				AuthorID: "nope",
				Status:   "DRAFT",
			},
			wantErr: domain.ErrIdentifierFormat,
		},
		{
			name: "unknown status",
			input: CreatePostInput{
				AuthorID: author.ID.String(),
				Title:    "Post",
				Status:   "ARCHIVED",
			},
			wantErr: domain.ErrPostStatusUnknown,
		},
		{
			name: "image without store",
			input: CreatePostInput{
				AuthorID: author.ID.String(),
				Title:    "Post",
				Status:   "DRAFT",
				Image:    bytes.NewReader([]byte("data")),
			},
			noStore: true,
			wantErr: ErrImageStoreRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var images *fakeImageStore
			if !tt.noStore {
				images = newFakeImageStore()
			}
			svc := newTestPostService(NewMockPostRepository(), userRepo, images)

			_, err := svc.Create(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestPostService_Update(t *testing.T) {
	userRepo := NewMockUserRepository()
	author := mustUser(t, "52998224725", "Ana Souza", "ana@example.com", "11987654321", false, false)
	userRepo.add(author)

	postRepo := NewMockPostRepository()
	svc := newTestPostService(postRepo, userRepo, newFakeImageStore())

	created, err := svc.Create(context.Background(), CreatePostInput{
		AuthorID:    author.ID.String(),
		Title:       "Rascunho",
		Description: "desc",
		Status:      "DRAFT",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	newTitle := "Publicado"
	newStatus := "PUBLISHED"
	output, err := svc.Update(context.Background(), UpdatePostInput{
		ID:     created.ID.String(),
		Title:  &newTitle,
		Status: &newStatus,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated := output.Post
	if updated.Title != newTitle {
		t.Errorf("expected title %q, got %q", newTitle, updated.Title)
	}
	if updated.Status != domain.StatusPublished {
		t.Errorf("expected PUBLISHED, got %s", updated.Status)
	}
	// Partial update: untouched fields survive, ownership is permanent.
	if updated.Description != "desc" {
		t.Errorf("description changed: %q", updated.Description)
	}
	if !updated.UserID.Equals(author.ID) {
		t.Errorf("ownership changed: %s", updated.UserID)
	}
}

func TestPostService_Update_NotFound(t *testing.T) {
	svc := newTestPostService(NewMockPostRepository(), NewMockUserRepository(), nil)

	_, err := svc.Update(context.Background(), UpdatePostInput{
		ID: "018f4e8a-0000-7000-8000-000000000000",
	})
	if !errors.Is(err, ErrPostNotFound) {
		t.Errorf("expected ErrPostNotFound, got %v", err)
	}
}

func TestPostService_GetByID(t *testing.T) {
	userRepo := NewMockUserRepository()
	author := mustUser(t, "52998224725", "Ana Souza", "ana@example.com", "11987654321", false, false)
	userRepo.add(author)

	postRepo := NewMockPostRepository()
	svc := newTestPostService(postRepo, userRepo, nil)

	created, err := svc.Create(context.Background(), CreatePostInput{
		AuthorID: author.ID.String(),
		Title:    "Post",
		Status:   "DRAFT",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.GetByID(context.Background(), created.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.ID.Equals(created.ID) {
		t.Errorf("expected post %s, got %s", created.ID, got.ID)
	}

	_, err = svc.GetByID(context.Background(), "018f4e8a-0000-7000-8000-000000000000")
	if !errors.Is(err, ErrPostNotFound) {
		t.Errorf("expected ErrPostNotFound, got %v", err)
	}
}

func TestPostService_ListByUser(t *testing.T) {
	userRepo := NewMockUserRepository()
	author := mustUser(t, "52998224725", "Ana Souza", "ana@example.com", "11987654321", false, false)
	other := mustUser(t, "11144477735", "Bob Silva", "bob@example.com", "31987654321", false, false)
	userRepo.add(author)
	userRepo.add(other)

	postRepo := NewMockPostRepository()
	svc := newTestPostService(postRepo, userRepo, nil)

	for _, title := range []string{"um", "dois"} {
		if _, err := svc.Create(context.Background(), CreatePostInput{
			AuthorID: author.ID.String(),
			Title:    title,
			Status:   "DRAFT",
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, err := svc.Create(context.Background(), CreatePostInput{
		AuthorID: other.ID.String(),
		Title:    "alheio",
		Status:   "DRAFT",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	posts, err := svc.ListByUser(context.Background(), author.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(posts) != 2 {
		t.Errorf("expected 2 posts, got %d", len(posts))
	}
}
