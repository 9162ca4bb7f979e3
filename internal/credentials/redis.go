package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the key used when no session name is configured
const DefaultRedisKey = "resto:credentials:default"

// RedisStore keeps the bundle under a single redis key so several
// processes can share one session
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

type redisDocument struct {
	State   Bundle `json:"state"`
	Version int    `json:"version"`
}

// RedisOption configures a RedisStore
type RedisOption func(*RedisStore)

// WithKey sets the redis key holding the bundle
func WithKey(key string) RedisOption {
	return func(s *RedisStore) {
		if key != "" {
			s.key = key
		}
	}
}

// WithTTL expires the stored bundle after ttl; zero keeps it forever
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

// NewRedisStore creates a store on top of an existing redis client
func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client: client,
		key:    DefaultRedisKey,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the redis key holding the bundle
func (s *RedisStore) Key() string {
	return s.key
}

// Load reads the bundle from redis
func (s *RedisStore) Load(ctx context.Context) (Bundle, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Bundle{}, ErrNotFound
		}
		return Bundle{}, fmt.Errorf("failed to read credentials from redis: %w", err)
	}

	var doc redisDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return Bundle{}, fmt.Errorf("failed to parse credentials from redis: %w", err)
	}

	return doc.State, nil
}

// Save overwrites the bundle in redis
func (s *RedisStore) Save(ctx context.Context, bundle Bundle) error {
	data, err := json.Marshal(redisDocument{State: bundle, Version: FormatVersion})
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write credentials to redis: %w", err)
	}
	return nil
}

// Clear deletes the key
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear credentials in redis: %w", err)
	}
	return nil
}
