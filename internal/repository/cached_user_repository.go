package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/helena-identity/internal/domain"
	"github.com/prn-tf/helena-identity/internal/metrics"
)

// CachedUserRepository decorates a UserRepository with read-through caching
// of by-id and by-email lookups. Cache failures degrade to the inner
// repository; a broken cache never breaks a read.
type CachedUserRepository struct {
	inner   UserRepository
	cache   Cache
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewCachedUserRepository creates a caching decorator around inner.
// m may be nil.
func NewCachedUserRepository(inner UserRepository, cache Cache, ttl time.Duration, m *metrics.Metrics, logger zerolog.Logger) *CachedUserRepository {
	return &CachedUserRepository{
		inner:   inner,
		cache:   cache,
		ttl:     ttl,
		metrics: m,
		logger:  logger.With().Str("repository", "cached_user").Logger(),
	}
}

// cachedUser is the serialized form of a user held in the cache. Value
// objects are flattened to their canonical strings and rebuilt on read.
type cachedUser struct {
	ID                string `json:"id"`
	Document          string `json:"document"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	PasswordHash      string `json:"password_hash"`
	CreatedAtUTC      string `json:"created_at_utc"`
	UpdatedAtUTC      string `json:"updated_at_utc"`
	LastAccessedAtUTC string `json:"last_accessed_at_utc"`
	Admin             bool   `json:"admin"`
	SuperAdmin        bool   `json:"super_admin"`
}

func toCachedUser(u *domain.User) cachedUser {
	return cachedUser{
		ID:                u.ID.String(),
		Document:          u.Document.String(),
		Name:              u.Name.String(),
		Email:             u.Email.String(),
		Phone:             u.Phone.String(),
		PasswordHash:      u.Password.Value(),
		CreatedAtUTC:      u.CreatedAtUTC,
		UpdatedAtUTC:      u.UpdatedAtUTC,
		LastAccessedAtUTC: u.LastAccessedAtUTC,
		Admin:             u.Admin,
		SuperAdmin:        u.SuperAdmin,
	}
}

func (c cachedUser) toDomain() (*domain.User, error) {
	id, err := domain.IdentifierFrom(c.ID)
	if err != nil {
		return nil, fmt.Errorf("cached user id: %w", err)
	}
	document, err := domain.NewDocument(c.Document)
	if err != nil {
		return nil, fmt.Errorf("cached user document: %w", err)
	}
	name, err := domain.NewPersonName(c.Name)
	if err != nil {
		return nil, fmt.Errorf("cached user name: %w", err)
	}
	email, err := domain.NewEmail(c.Email)
	if err != nil {
		return nil, fmt.Errorf("cached user email: %w", err)
	}
	phone, err := domain.NewPhoneNumber(c.Phone)
	if err != nil {
		return nil, fmt.Errorf("cached user phone: %w", err)
	}

	return &domain.User{
		ID:                id,
		Document:          document,
		Name:              name,
		Email:             email,
		Phone:             phone,
		Password:          domain.PasswordFromHash(c.PasswordHash),
		CreatedAtUTC:      c.CreatedAtUTC,
		UpdatedAtUTC:      c.UpdatedAtUTC,
		LastAccessedAtUTC: c.LastAccessedAtUTC,
		Admin:             c.Admin,
		SuperAdmin:        c.SuperAdmin,
	}, nil
}

func userIDKey(id domain.Identifier) string {
	return "user:id:" + id.String()
}

func userEmailKey(email domain.Email) string {
	return "user:email:" + email.String()
}

// Create persists through the inner repository and invalidates nothing;
// a fresh user cannot be cached yet.
func (r *CachedUserRepository) Create(ctx context.Context, user *domain.User) (domain.Identifier, error) {
	return r.inner.Create(ctx, user)
}

// GetByID retrieves a user by identifier, reading through the cache.
func (r *CachedUserRepository) GetByID(ctx context.Context, id domain.Identifier) (*domain.User, error) {
	if user, ok := r.fromCache(ctx, userIDKey(id)); ok {
		return user, nil
	}

	user, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.store(ctx, userIDKey(id), user)
	return user, nil
}

// GetByEmail retrieves a user by email, reading through the cache.
func (r *CachedUserRepository) GetByEmail(ctx context.Context, email domain.Email) (*domain.User, error) {
	if user, ok := r.fromCache(ctx, userEmailKey(email)); ok {
		return user, nil
	}

	user, err := r.inner.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	r.store(ctx, userEmailKey(email), user)
	return user, nil
}

// GetAll passes through; list results are not cached.
func (r *CachedUserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	return r.inner.GetAll(ctx)
}

// Update persists through the inner repository and invalidates both cache
// entries for the user. The previous email key is unknown here, so callers
// that change an email rely on the TTL to expire the stale entry.
func (r *CachedUserRepository) Update(ctx context.Context, user *domain.User) error {
	if err := r.inner.Update(ctx, user); err != nil {
		return err
	}

	if err := r.cache.DeleteMulti(ctx, userIDKey(user.ID), userEmailKey(user.Email)); err != nil {
		r.logger.Warn().Err(err).Str("user_id", user.ID.String()).Msg("failed to invalidate user cache")
	}
	return nil
}

// GetByPhoneNumber passes through; phone lookups are uniqueness probes and
// are not cached.
func (r *CachedUserRepository) GetByPhoneNumber(ctx context.Context, phone domain.PhoneNumber) (*domain.User, error) {
	return r.inner.GetByPhoneNumber(ctx, phone)
}

// GetByDocument passes through.
func (r *CachedUserRepository) GetByDocument(ctx context.Context, document domain.Document) (*domain.User, error) {
	return r.inner.GetByDocument(ctx, document)
}

func (r *CachedUserRepository) fromCache(ctx context.Context, key string) (*domain.User, bool) {
	data, err := r.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			r.logger.Debug().Err(err).Str("key", key).Msg("cache read failed")
		}
		r.metrics.CacheMiss()
		return nil, false
	}

	var cached cachedUser
	if err := json.Unmarshal(data, &cached); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("dropping undecodable cache entry")
		_ = r.cache.Delete(ctx, key)
		return nil, false
	}

	user, err := cached.toDomain()
	if err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("dropping invalid cache entry")
		_ = r.cache.Delete(ctx, key)
		return nil, false
	}
	r.metrics.CacheHit()
	return user, true
}

func (r *CachedUserRepository) store(ctx context.Context, key string, user *domain.User) {
	data, err := json.Marshal(toCachedUser(user))
	if err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("failed to encode user for cache")
		return
	}
	if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
		r.logger.Debug().Err(err).Str("key", key).Msg("cache write failed")
	}
}
