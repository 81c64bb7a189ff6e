package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/helena-identity/internal/domain"
	"github.com/prn-tf/helena-identity/internal/metrics"
	"github.com/prn-tf/helena-identity/internal/repository"
)

// UserService handles user management operations. Uniqueness checks here are
// read-then-write; the repository's unique indexes are the real guard, and a
// duplicate-key failure from storage surfaces as ErrUniqueViolation.
type UserService struct {
	userRepo repository.UserRepository
	hasher   domain.PasswordHasher
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewUserService creates a new UserService. metrics may be nil.
func NewUserService(userRepo repository.UserRepository, hasher domain.PasswordHasher, m *metrics.Metrics, logger zerolog.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		hasher:   hasher,
		metrics:  m,
		logger:   logger.With().Str("service", "user").Logger(),
	}
}

// CreateUserInput contains the data needed to create a new user.
// All fields are raw values; validation happens here via the domain
// constructors before any repository write.
type CreateUserInput struct {
	CreatorID  string
	Document   string
	Name       string
	Email      string
	Phone      string
	Password   string
	Admin      bool
	SuperAdmin bool
}

// CreateUserOutput contains the result of creating a user.
type CreateUserOutput struct {
	ID domain.Identifier
}

// Create creates a new user on behalf of an existing admin creator.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (out *CreateUserOutput, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOperation("user.create", err, start) }()

	creator, err := s.loadCreator(ctx, input.CreatorID)
	if err != nil {
		return nil, err
	}

	// Super-admin creation needs a super-admin creator; everything else
	// needs at least a plain admin.
	if input.SuperAdmin && !creator.SuperAdmin {
		return nil, ErrSuperAdminRequired
	}
	if !creator.Admin {
		return nil, ErrAdminRequired
	}

	if s.hasher == nil {
		return nil, ErrHasherRequired
	}

	document, err := domain.NewDocument(input.Document)
	if err != nil {
		return nil, err
	}
	name, err := domain.NewPersonName(input.Name)
	if err != nil {
		return nil, err
	}
	email, err := domain.NewEmail(input.Email)
	if err != nil {
		return nil, err
	}
	phone, err := domain.NewPhoneNumber(input.Phone)
	if err != nil {
		return nil, err
	}
	password, err := domain.NewPassword(input.Password, s.hasher)
	if err != nil {
		return nil, err
	}

	var none domain.Identifier
	if err := s.checkEmailFree(ctx, email, none); err != nil {
		return nil, err
	}
	if err := s.checkPhoneFree(ctx, phone, none); err != nil {
		return nil, err
	}
	if err := s.checkDocumentFree(ctx, document, none); err != nil {
		return nil, err
	}

	id, err := domain.NewIdentifier()
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to generate identifier")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	user := &domain.User{
		ID:           id,
		Document:     document,
		Name:         name,
		Email:        email,
		Phone:        phone,
		Password:     password,
		CreatedAtUTC: now,
		UpdatedAtUTC: now,
		Admin:        input.Admin,
		SuperAdmin:   input.SuperAdmin,
	}

	createdID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %v", ErrUniqueViolation, err)
		}
		s.logger.Error().Err(err).Str("email", email.String()).Msg("failed to create user")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Str("user_id", createdID.String()).
		Str("creator_id", creator.ID.String()).
		Bool("admin", input.Admin).
		Bool("super_admin", input.SuperAdmin).
		Msg("user created")

	return &CreateUserOutput{ID: createdID}, nil
}

// UpdateUserInput contains the data for a partial user update.
// Nil pointer fields keep the target's current value.
type UpdateUserInput struct {
	ID        string
	CreatorID string

	Document          *string
	Name              *string
	Email             *string
	Phone             *string
	Password          *string
	Admin             *bool
	LastAccessedAtUTC *string
}

// UpdateUserOutput contains the result of updating a user.
type UpdateUserOutput struct {
	User *domain.User
}

// Update applies a partial update to an existing user. The super-admin flag
// is never changed through this operation, and ownership of unique fields is
// re-checked only for fields actually being replaced.
func (s *UserService) Update(ctx context.Context, input UpdateUserInput) (out *UpdateUserOutput, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOperation("user.update", err, start) }()

	creator, err := s.loadCreator(ctx, input.CreatorID)
	if err != nil {
		return nil, err
	}

	if input.Admin != nil && *input.Admin && !creator.Admin && !creator.SuperAdmin {
		return nil, ErrAdminRequired
	}

	targetID, err := domain.IdentifierFrom(input.ID)
	if err != nil {
		return nil, err
	}
	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error().Err(err).Str("user_id", input.ID).Msg("failed to load user")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	updated := *target

	if input.Document != nil {
		document, err := domain.NewDocument(*input.Document)
		if err != nil {
			return nil, err
		}
		if err := s.checkDocumentFree(ctx, document, target.ID); err != nil {
			return nil, err
		}
		updated.Document = document
	}
	if input.Name != nil {
		name, err := domain.NewPersonName(*input.Name)
		if err != nil {
			return nil, err
		}
		updated.Name = name
	}
	if input.Email != nil {
		email, err := domain.NewEmail(*input.Email)
		if err != nil {
			return nil, err
		}
		if err := s.checkEmailFree(ctx, email, target.ID); err != nil {
			return nil, err
		}
		updated.Email = email
	}
	if input.Phone != nil {
		phone, err := domain.NewPhoneNumber(*input.Phone)
		if err != nil {
			return nil, err
		}
		if err := s.checkPhoneFree(ctx, phone, target.ID); err != nil {
			return nil, err
		}
		updated.Phone = phone
	}
	if input.Password != nil {
		if s.hasher == nil {
			return nil, ErrHasherRequired
		}
		password, err := domain.NewPassword(*input.Password, s.hasher)
		if err != nil {
			return nil, err
		}
		updated.Password = password
	}
	if input.Admin != nil {
		updated.Admin = *input.Admin
	}
	if input.LastAccessedAtUTC != nil {
		updated.LastAccessedAtUTC = *input.LastAccessedAtUTC
	}

	updated.UpdatedAtUTC = time.Now().UTC().Format(time.RFC3339)

	if err := s.userRepo.Update(ctx, &updated); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, fmt.Errorf("%w: %v", ErrUniqueViolation, err)
		}
		s.logger.Error().Err(err).Str("user_id", input.ID).Msg("failed to update user")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Str("user_id", updated.ID.String()).
		Str("creator_id", creator.ID.String()).
		Msg("user updated")

	return &UpdateUserOutput{User: &updated}, nil
}

// GetByID retrieves a user by identifier.
func (s *UserService) GetByID(ctx context.Context, id string) (user *domain.User, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOperation("user.get", err, start) }()

	userID, err := domain.IdentifierFrom(id)
	if err != nil {
		return nil, err
	}

	user, err = s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error().Err(err).Str("user_id", id).Msg("failed to get user")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email.
func (s *UserService) GetByEmail(ctx context.Context, rawEmail string) (user *domain.User, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOperation("user.get_by_email", err, start) }()

	email, err := domain.NewEmail(rawEmail)
	if err != nil {
		return nil, err
	}

	user, err = s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error().Err(err).Str("email", rawEmail).Msg("failed to get user by email")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return user, nil
}

// List returns all users.
func (s *UserService) List(ctx context.Context) (users []*domain.User, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOperation("user.list", err, start) }()

	users, err = s.userRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list users")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return users, nil
}

// loadCreator resolves a creator id to an existing user.
func (s *UserService) loadCreator(ctx context.Context, creatorID string) (*domain.User, error) {
	id, err := domain.IdentifierFrom(creatorID)
	if err != nil {
		return nil, err
	}

	creator, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCreatorNotFound
		}
		s.logger.Error().Err(err).Str("creator_id", creatorID).Msg("failed to load creator")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return creator, nil
}

// checkEmailFree fails with ErrEmailTaken if another user owns the email.
// exclude is the target's own id during updates; a zero value excludes nobody.
func (s *UserService) checkEmailFree(ctx context.Context, email domain.Email, exclude domain.Identifier) error {
	owner, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		s.logger.Error().Err(err).Str("email", email.String()).Msg("failed to check email ownership")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	if owner.ID.Equals(exclude) {
		return nil
	}
	return ErrEmailTaken
}

func (s *UserService) checkPhoneFree(ctx context.Context, phone domain.PhoneNumber, exclude domain.Identifier) error {
	owner, err := s.userRepo.GetByPhoneNumber(ctx, phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		s.logger.Error().Err(err).Str("phone", phone.String()).Msg("failed to check phone ownership")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	if owner.ID.Equals(exclude) {
		return nil
	}
	return ErrPhoneTaken
}

func (s *UserService) checkDocumentFree(ctx context.Context, document domain.Document, exclude domain.Identifier) error {
	owner, err := s.userRepo.GetByDocument(ctx, document)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		s.logger.Error().Err(err).Msg("failed to check document ownership")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	if owner.ID.Equals(exclude) {
		return nil
	}
	return ErrDocumentTaken
}
