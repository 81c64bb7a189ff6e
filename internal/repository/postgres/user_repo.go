package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/prn-tf/helena-identity/internal/domain"
	"github.com/prn-tf/helena-identity/internal/repository"
)

// userRepository implements repository.UserRepository for PostgreSQL.
type userRepository struct {
	db *DB
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(db *DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, document, name, email, phone, password_hash,
	created_at_utc, updated_at_utc, last_accessed_at_utc, admin, super_admin`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(s rowScanner) (*domain.User, error) {
	var (
		id, document, name, email, phone string
		passwordHash                     string
		createdAt, updatedAt, lastAccess string
		admin, superAdmin                bool
	)
	if err := s.Scan(&id, &document, &name, &email, &phone, &passwordHash,
		&createdAt, &updatedAt, &lastAccess, &admin, &superAdmin); err != nil {
		return nil, err
	}

	userID, err := domain.IdentifierFrom(id)
	if err != nil {
		return nil, fmt.Errorf("stored user id: %w", err)
	}
	documentVO, err := domain.NewDocument(document)
	if err != nil {
		return nil, fmt.Errorf("stored user document: %w", err)
	}
	nameVO, err := domain.NewPersonName(name)
	if err != nil {
		return nil, fmt.Errorf("stored user name: %w", err)
	}
	emailVO, err := domain.NewEmail(email)
	if err != nil {
		return nil, fmt.Errorf("stored user email: %w", err)
	}
	phoneVO, err := domain.NewPhoneNumber(phone)
	if err != nil {
		return nil, fmt.Errorf("stored user phone: %w", err)
	}

	return &domain.User{
		ID:                userID,
		Document:          documentVO,
		Name:              nameVO,
		Email:             emailVO,
		Phone:             phoneVO,
		Password:          domain.PasswordFromHash(passwordHash),
		CreatedAtUTC:      createdAt,
		UpdatedAtUTC:      updatedAt,
		LastAccessedAtUTC: lastAccess,
		Admin:             admin,
		SuperAdmin:        superAdmin,
	}, nil
}

// isUniqueViolation checks for PostgreSQL unique constraint violations.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Create persists a new user.
func (r *userRepository) Create(ctx context.Context, user *domain.User) (domain.Identifier, error) {
	query := `
		INSERT INTO users (id, document, name, email, phone, password_hash,
			created_at_utc, updated_at_utc, last_accessed_at_utc, admin, super_admin)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		user.ID.String(),
		user.Document.String(),
		user.Name.String(),
		user.Email.String(),
		user.Phone.String(),
		user.Password.Value(),
		user.CreatedAtUTC,
		user.UpdatedAtUTC,
		user.LastAccessedAtUTC,
		user.Admin,
		user.SuperAdmin,
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
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s = $1`, userColumns, column)

	user, err := scanUser(r.db.Pool.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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

	rows, err := r.db.Pool.Query(ctx, query)
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
		SET document = $1, name = $2, email = $3, phone = $4, password_hash = $5,
			updated_at_utc = $6, last_accessed_at_utc = $7, admin = $8, super_admin = $9
		WHERE id = $10
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		user.Document.String(),
		user.Name.String(),
		user.Email.String(),
		user.Phone.String(),
		user.Password.Value(),
		user.UpdatedAtUTC,
		user.LastAccessedAtUTC,
		user.Admin,
		user.SuperAdmin,
		user.ID.String(),
	)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email, phone or document already exists", repository.ErrDuplicate)
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}
