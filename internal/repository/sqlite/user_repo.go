package sqlite

import (
	"context"
	"fmt"

	"github.com/prn-tf/helena-identity/internal/domain"
	"github.com/prn-tf/helena-identity/internal/repository"
)

// userRepository implements repository.UserRepository for SQLite.
type userRepository struct {
	db *DB
}

// NewUserRepository creates a new SQLite user repository.
func NewUserRepository(db *DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, document, name, email, phone, password_hash,
	created_at_utc, updated_at_utc, last_accessed_at_utc, admin, super_admin`

// userRow holds the raw column values of one users row before the value
// objects are rebuilt.
type userRow struct {
	id           string
	document     string
	name         string
	email        string
	phone        string
	passwordHash string
	createdAt    string
	updatedAt    string
	lastAccessed string
	admin        int
	superAdmin   int
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(s rowScanner) (*domain.User, error) {
	var row userRow
	if err := s.Scan(
		&row.id,
		&row.document,
		&row.name,
		&row.email,
		&row.phone,
		&row.passwordHash,
		&row.createdAt,
		&row.updatedAt,
		&row.lastAccessed,
		&row.admin,
		&row.superAdmin,
	); err != nil {
		return nil, err
	}
	return row.toDomain()
}

// toDomain rebuilds the aggregate through the validating constructors.
// Stored values are canonical, so validation only fails on corrupted rows.
func (r userRow) toDomain() (*domain.User, error) {
	id, err := domain.IdentifierFrom(r.id)
	if err != nil {
		return nil, fmt.Errorf("stored user id: %w", err)
	}
	document, err := domain.NewDocument(r.document)
	if err != nil {
		return nil, fmt.Errorf("stored user document: %w", err)
	}
	name, err := domain.NewPersonName(r.name)
	if err != nil {
		return nil, fmt.Errorf("stored user name: %w", err)
	}
	email, err := domain.NewEmail(r.email)
	if err != nil {
		return nil, fmt.Errorf("stored user email: %w", err)
	}
	phone, err := domain.NewPhoneNumber(r.phone)
	if err != nil {
		return nil, fmt.Errorf("stored user phone: %w", err)
	}

	return &domain.User{
		ID:                id,
		Document:          document,
		Name:              name,
		Email:             email,
		Phone:             phone,
		Password:          domain.PasswordFromHash(r.passwordHash),
		CreatedAtUTC:      r.createdAt,
		UpdatedAtUTC:      r.updatedAt,
		LastAccessedAtUTC: r.lastAccessed,
		Admin:             r.admin != 0,
		SuperAdmin:        r.superAdmin != 0,
	}, nil
}

// Create persists a new user.
func (r *userRepository) Create(ctx context.Context, user *domain.User) (domain.Identifier, error) {
	query := `
		INSERT INTO users (id, document, name, email, phone, password_hash,
			created_at_utc, updated_at_utc, last_accessed_at_utc, admin, super_admin)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID.String(),
		user.Document.String(),
		user.Name.String(),
		user.Email.String(),
		user.Phone.String(),
		user.Password.Value(),
		user.CreatedAtUTC,
		user.UpdatedAtUTC,
		user.LastAccessedAtUTC,
		boolToInt(user.Admin),
		boolToInt(user.SuperAdmin),
	)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.Identifier{}, fmt.Errorf("%w: email, phone or document already exists", repository.ErrDuplicate)
		}
		return domain.Identifier{}, fmt.Errorf("failed to create user: %w", err)
	}

	return user.ID, nil
}

// GetByID retrieves a user by identifier.
func (r *userRepository) GetByID(ctx context.Context, id domain.Identifier) (*domain.User, error) {
	return r.getOne(ctx, "id", id.String())
}

// GetByEmail retrieves a user by email.
func (r *userRepository) GetByEmail(ctx context.Context, email domain.Email) (*domain.User, error) {
	return r.getOne(ctx, "email", email.String())
}

// GetByPhoneNumber retrieves a user by phone number.
func (r *userRepository) GetByPhoneNumber(ctx context.Context, phone domain.PhoneNumber) (*domain.User, error) {
	return r.getOne(ctx, "phone", phone.String())
}

// GetByDocument retrieves a user by document.
func (r *userRepository) GetByDocument(ctx context.Context, document domain.Document) (*domain.User, error) {
	return r.getOne(ctx, "document", document.String())
}

func (r *userRepository) getOne(ctx context.Context, column, value string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s = ?`, userColumns, column)

	user, err := scanUser(r.db.QueryRowContext(ctx, query, value))
	if err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by %s: %w", column, err)
	}
	return user, nil
}

// GetAll returns all users ordered by identifier, which for generated
// identifiers equals creation order.
func (r *userRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY id`, userColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// Update replaces an existing user.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET document = ?, name = ?, email = ?, phone = ?, password_hash = ?,
			updated_at_utc = ?, last_accessed_at_utc = ?, admin = ?, super_admin = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		user.Document.String(),
		user.Name.String(),
		user.Email.String(),
		user.Phone.String(),
		user.Password.Value(),
		user.UpdatedAtUTC,
		user.LastAccessedAtUTC,
		boolToInt(user.Admin),
		boolToInt(user.SuperAdmin),
		user.ID.String(),
	)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email, phone or document already exists", repository.ErrDuplicate)
		}
		return fmt.Errorf("failed to update user: %w", err)
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

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
