package session

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "backoffice:credentials:"

// RedisStorage keeps credentials in redis so several gateway replicas can
// share one operator login.
type RedisStorage struct {
	client *redis.Client
}

// RedisConfig holds connection settings for the redis storage backend
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisStorage connects to redis and verifies the connection
func NewRedisStorage(ctx context.Context, cfg RedisConfig) (*RedisStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStorage{client: client}, nil
}

// Get returns the stored value for key
func (r *RedisStorage) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, redisKeyPrefix+key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read credential from redis: %w", err)
	}
	return value, true, nil
}

// Set stores value under key with no expiry; credential lifetime is governed
// by the token expiry times, not the store.
func (r *RedisStorage) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to persist credential to redis: %w", err)
	}
	return nil
}

// Delete removes key
func (r *RedisStorage) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete credential from redis: %w", err)
	}
	return nil
}

// Client exposes the underlying connection so other redis-backed concerns
// (distributed rate limiting) can share it.
func (r *RedisStorage) Client() *redis.Client {
	return r.client
}

// Close closes the redis connection
func (r *RedisStorage) Close() error {
	return r.client.Close()
}
