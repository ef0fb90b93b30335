// Package cache is a small JSON-over-Redis cache. A Store with no client is a
// valid, always-missing cache so callers never branch on Redis availability.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shashiranjanraj/bookstore/config"
)

type Store struct {
	rdb    *redis.Client
	prefix string
}

// New wraps an existing client. rdb may be nil.
func New(rdb *redis.Client, prefix string) *Store {
	return &Store{rdb: rdb, prefix: prefix}
}

// Connect dials the configured Redis and verifies it with a ping. On failure
// it returns a pass-through Store together with the error so the caller can
// log a warning and carry on.
func Connect(ctx context.Context, prefix string) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return New(nil, prefix), fmt.Errorf("cache: redis ping: %w", err)
	}
	return New(rdb, prefix), nil
}

func (s *Store) Enabled() bool {
	return s != nil && s.rdb != nil
}

// Get unmarshals the cached value for key into dest.
// Returns true on a cache hit, false on miss or error.
func (s *Store) Get(ctx context.Context, key string, dest interface{}) bool {
	if !s.Enabled() {
		return false
	}

	val, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(val, dest) == nil
}

// Set stores value under key for ttl.
func (s *Store) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.prefix+key, data, ttl).Err()
}

func (s *Store) Close() error {
	if !s.Enabled() {
		return nil
	}
	return s.rdb.Close()
}
