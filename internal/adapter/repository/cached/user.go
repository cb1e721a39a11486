package cached

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"integrador-service/internal/adapter/cache"
	domain "integrador-service/internal/domain/user"
	"integrador-service/internal/usecase/user"
)

// UserRepository implements user.Repository with cache-aside reads by ID.
// It wraps a persistent repository (DB) and a cache implementation.
type UserRepository struct {
	dbRepo user.Repository
	cache  cache.UserCache
	log    *zap.Logger
	group  singleflight.Group
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(dbRepo user.Repository, cache cache.UserCache, log *zap.Logger) *UserRepository {
	return &UserRepository{
		dbRepo: dbRepo,
		cache:  cache,
		log:    log,
	}
}

// Create delegates to the DB repository.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) (int64, error) {
	return r.dbRepo.Create(ctx, u)
}

// GetByID retrieves a user by ID, consulting the cache first. Concurrent
// misses for the same ID share one database read. Cached copies carry no
// password hash.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if cached, err := r.cache.Get(ctx, id); err != nil {
		r.log.Warn("cache get error, falling back to database", zap.Int64("id", id), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	result, err, shared := r.group.Do(fmt.Sprintf("usuario:%d", id), func() (any, error) {
		u, err := r.dbRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if err := r.cache.Set(ctx, u); err != nil {
			r.log.Warn("failed to cache user", zap.Int64("id", id), zap.Error(err))
		}
		return u, nil
	})
	if err != nil {
		return nil, err
	}

	u := result.(*domain.User)
	if shared {
		// callers may mutate the result
		cp := *u
		return &cp, nil
	}
	return u, nil
}

// GetByEmail delegates to the DB repository; login needs the stored hash.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.dbRepo.GetByEmail(ctx, email)
}

// Update updates the user in DB and invalidates the cache.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	if err := r.dbRepo.Update(ctx, u); err != nil {
		return err
	}

	r.invalidate(ctx, u.ID, "update")
	return nil
}

// Delete deletes the user from DB and invalidates the cache.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	if err := r.dbRepo.Delete(ctx, id); err != nil {
		return err
	}

	r.invalidate(ctx, id, "delete")
	return nil
}

// List delegates to the DB repository.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.dbRepo.List(ctx)
}

func (r *UserRepository) invalidate(ctx context.Context, id int64, op string) {
	if err := r.cache.Delete(ctx, id); err != nil {
		r.log.Warn("failed to invalidate cache after "+op, zap.Int64("id", id), zap.Error(err))
	}
}
