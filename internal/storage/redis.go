// Package storage provides a Redis-backed fiber.Storage so the rate limiter
// window is shared across replicas instead of being per-process.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStorage implements fiber.Storage over a go-redis client.
type RedisStorage struct {
	client *redis.Client
}

// NewRedisStorage connects to Redis using a redis:// URL and verifies the
// connection with a ping.
func NewRedisStorage(url string) (*RedisStorage, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisStorage{client: client}, nil
}

// Get returns the value for key, or nil if the key does not exist.
func (s *RedisStorage) Get(key string) ([]byte, error) {
	val, err := s.client.Get(context.Background(), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

// Set stores key with the given expiration. Zero expiration means no expiry.
func (s *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	return s.client.Set(context.Background(), key, val, exp).Err()
}

// Delete removes a key.
func (s *RedisStorage) Delete(key string) error {
	return s.client.Del(context.Background(), key).Err()
}

// Reset flushes the database backing the limiter.
func (s *RedisStorage) Reset() error {
	return s.client.FlushDB(context.Background()).Err()
}

// Close releases the underlying client.
func (s *RedisStorage) Close() error {
	return s.client.Close()
}
