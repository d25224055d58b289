package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps cache entries as JSON strings. Keys expire after twice the
// freshness window; freshness itself is still decided by the stored timestamp.
type RedisStore struct {
	client *redis.Client
	expiry time.Duration
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, expiry: 2 * ttl}
}

// OpenRedisStore connects using a redis:// URL and verifies the connection.
func OpenRedisStore(ctx context.Context, rawURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisStore(client, ttl), nil
}

// Lookup reads and decodes the entry for key.
func (s *RedisStore) Lookup(ctx context.Context, key Key) (Entry, bool, error) {
	data, err := s.client.Get(ctx, key.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	e, err := decodeEntry(key, data)
	if err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}

// Store writes the whole entry with a single SET.
func (s *RedisStore) Store(ctx context.Context, entry Entry) error {
	data, err := encodeEntry(entry)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, entry.Key.String(), data, s.expiry).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", entry.Key, err)
	}
	return nil
}

// Close releases the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
