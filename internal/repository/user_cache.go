package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"storefront/internal/model"

	"github.com/redis/go-redis/v9"
)

// ProfileCacheKeyPrefix is the Redis key prefix for cached profiles
const ProfileCacheKeyPrefix = "profile:"

// ProfileCache stores public user profiles by ID. Cached entries never
// carry the password hash.
type ProfileCache interface {
	Get(ctx context.Context, id string) (*model.User, bool, error)
	Set(ctx context.Context, user *model.User) error
}

// RedisProfileCache implements ProfileCache on Redis with a fixed TTL
type RedisProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisProfileCache creates a ProfileCache on the given client
func NewRedisProfileCache(client *redis.Client, ttl time.Duration) *RedisProfileCache {
	return &RedisProfileCache{client: client, ttl: ttl}
}

func (c *RedisProfileCache) Get(ctx context.Context, id string) (*model.User, bool, error) {
	val, err := c.client.Get(ctx, ProfileCacheKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var user model.User
	if err := json.Unmarshal(val, &user); err != nil {
		return nil, false, err
	}
	return &user, true, nil
}

func (c *RedisProfileCache) Set(ctx context.Context, user *model.User) error {
	// PasswordHash is tagged json:"-" and is dropped here
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, ProfileCacheKeyPrefix+user.ID, data, c.ttl).Err()
}

type cachedUserRepository struct {
	UserRepository
	cache  ProfileCache
	logger *slog.Logger
}

// NewCachedUserRepository puts a read-through profile cache in front of
// FindByID. FindByPhone is never cached because login needs the hash.
// Cache failures are logged and fall through to the store.
func NewCachedUserRepository(next UserRepository, cache ProfileCache, logger *slog.Logger) UserRepository {
	return &cachedUserRepository{UserRepository: next, cache: cache, logger: logger}
}

// FindByID returns the cached profile when present. The returned user has
// no PasswordHash on a cache hit.
func (r *cachedUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	user, hit, err := r.cache.Get(ctx, id)
	if err != nil {
		r.logger.WarnContext(ctx, "profile cache read failed", "user_id", id, "error", err)
	}
	if hit {
		return user, nil
	}

	user, err = r.UserRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, user); err != nil {
		r.logger.WarnContext(ctx, "profile cache write failed", "user_id", id, "error", err)
	}
	return user, nil
}
