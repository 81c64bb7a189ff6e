package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/helena-identity/internal/config"
	"github.com/prn-tf/helena-identity/internal/domain"
	"github.com/prn-tf/helena-identity/internal/repository"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	cfg := config.DatabaseConfig{
		Driver:          "sqlite",
		Path:            filepath.Join(t.TempDir(), "test.db"),
		JournalMode:     "WAL",
		BusyTimeout:     5000,
		CacheSize:       -2000,
		SynchronousMode: "NORMAL",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
	}

	db, err := NewDB(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testUser(t *testing.T, rawDocument, rawName, rawEmail, rawPhone string) *domain.User {
	t.Helper()

	id, err := domain.NewIdentifier()
	require.NoError(t, err)
	document, err := domain.NewDocument(rawDocument)
	require.NoError(t, err)
	name, err := domain.NewPersonName(rawName)
	require.NoError(t, err)
	email, err := domain.NewEmail(rawEmail)
	require.NoError(t, err)
	phone, err := domain.NewPhoneNumber(rawPhone)
	require.NoError(t, err)

	now := time.Now().UTC().Format(time.RFC3339)
	return &domain.User{
		ID:           id,
		Document:     document,
		Name:         name,
		Email:        email,
		Phone:        phone,
		Password:     domain.PasswordFromHash("hashed:password1"),
		CreatedAtUTC: now,
		UpdatedAtUTC: now,
	}
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	user := testUser(t, "52998224725", "Ana Souza", "ana@example.com", "11987654321")
	user.Admin = true

	id, err := repo.Create(ctx, user)
	require.NoError(t, err)
	assert.True(t, id.Equals(user.ID))

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, byID.Email.Equals(user.Email))
	assert.True(t, byID.Phone.Equals(user.Phone))
	assert.True(t, byID.Document.Equals(user.Document))
	assert.Equal(t, user.Password.Value(), byID.Password.Value())
	assert.Equal(t, user.CreatedAtUTC, byID.CreatedAtUTC)
	assert.Empty(t, byID.LastAccessedAtUTC)
	assert.True(t, byID.Admin)
	assert.False(t, byID.SuperAdmin)

	byEmail, err := repo.GetByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.True(t, byEmail.ID.Equals(user.ID))

	byPhone, err := repo.GetByPhoneNumber(ctx, user.Phone)
	require.NoError(t, err)
	assert.True(t, byPhone.ID.Equals(user.ID))

	byDocument, err := repo.GetByDocument(ctx, user.Document)
	require.NoError(t, err)
	assert.True(t, byDocument.ID.Equals(user.ID))
}

func TestUserRepository_UniqueIndexes(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	first := testUser(t, "52998224725", "Ana Souza", "ana@example.com", "11987654321")
	_, err := repo.Create(ctx, first)
	require.NoError(t, err)

	duplicateEmail := testUser(t, "11144477735", "Bob Silva", "ana@example.com", "31987654321")
	_, err = repo.Create(ctx, duplicateEmail)
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	duplicatePhone := testUser(t, "11144477735", "Bob Silva", "bob@example.com", "11987654321")
	_, err = repo.Create(ctx, duplicatePhone)
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	duplicateDocument := testUser(t, "52998224725", "Bob Silva", "bob@example.com", "31987654321")
	_, err = repo.Create(ctx, duplicateDocument)
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestUserRepository_GetMissing(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	id, err := domain.NewIdentifier()
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	email, err := domain.NewEmail("ghost@example.com")
	require.NoError(t, err)
	_, err = repo.GetByEmail(ctx, email)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_Update(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	user := testUser(t, "52998224725", "Ana Souza", "ana@example.com", "11987654321")
	_, err := repo.Create(ctx, user)
	require.NoError(t, err)

	newEmail, err := domain.NewEmail("ana.souza@example.com")
	require.NoError(t, err)
	user.Email = newEmail
	user.LastAccessedAtUTC = "2026-08-29T12:00:00Z"
	user.UpdatedAtUTC = "2026-08-29T12:00:01Z"

	require.NoError(t, repo.Update(ctx, user))

	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.Email.Equals(newEmail))
	assert.Equal(t, "2026-08-29T12:00:00Z", stored.LastAccessedAtUTC)
	assert.Equal(t, "2026-08-29T12:00:01Z", stored.UpdatedAtUTC)
	// Creation timestamp is never rewritten by updates.
	assert.Equal(t, user.CreatedAtUTC, stored.CreatedAtUTC)
}

func TestUserRepository_UpdateMissing(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	user := testUser(t, "52998224725", "Ana Souza", "ana@example.com", "11987654321")
	err := repo.Update(context.Background(), user)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_GetAll(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	first := testUser(t, "52998224725", "Ana Souza", "ana@example.com", "11987654321")
	second := testUser(t, "11144477735", "Bob Silva", "bob@example.com", "31987654321")
	_, err := repo.Create(ctx, first)
	require.NoError(t, err)
	_, err = repo.Create(ctx, second)
	require.NoError(t, err)

	users, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	// Time-ordered identifiers make id order equal creation order.
	assert.True(t, users[0].ID.Equals(first.ID))
	assert.True(t, users[1].ID.Equals(second.ID))
}
