package credentials

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	redisFieldAccess  = "access_token"
	redisFieldRefresh = "refresh_token"
)

// RedisStore keeps the pair in a single Redis hash so several console processes share one session.
type RedisStore struct {
	rdb redis.UniversalClient
	key string
}

// NewRedisStore wraps an existing client.
func NewRedisStore(rdb redis.UniversalClient, key string) *RedisStore {
	return &RedisStore{rdb: rdb, key: key}
}

// OpenRedisStore parses a redis:// URL and connects.
func OpenRedisStore(ctx context.Context, redisURL, key string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis store: parse url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis store: ping: %w", err)
	}
	return NewRedisStore(rdb, key), nil
}

func (r *RedisStore) Load(ctx context.Context) (Pair, bool, error) {
	fields, err := r.rdb.HGetAll(ctx, r.key).Result()
	if err != nil {
		return Pair{}, false, fmt.Errorf("redis store: load: %w", err)
	}
	if len(fields) == 0 {
		return Pair{}, false, nil
	}
	return Pair{
		AccessToken:  fields[redisFieldAccess],
		RefreshToken: fields[redisFieldRefresh],
	}, true, nil
}

// Save writes both fields with one HSET so the pair is replaced atomically.
func (r *RedisStore) Save(ctx context.Context, accessToken, refreshToken string) error {
	if err := validatePair(accessToken, refreshToken); err != nil {
		return err
	}
	err := r.rdb.HSet(ctx, r.key, map[string]interface{}{
		redisFieldAccess:  accessToken,
		redisFieldRefresh: refreshToken,
	}).Err()
	if err != nil {
		return fmt.Errorf("redis store: save: %w", err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.rdb.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis store: clear: %w", err)
	}
	return nil
}

func (r *RedisStore) Name() string {
	return fmt.Sprintf("RedisStore(%s)", r.key)
}

// Close releases the underlying client.
func (r *RedisStore) Close() error {
	return r.rdb.Close()
}
