package template

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisKey is the single key holding the serialized template map.
const redisKey = "kitforge:template"

// RedisStore is a Redis-backed template store for hosted deployments.
// The whole map lives under one key; Save performs a single SET so the
// replacement is atomic per write (still last-writer-wins across writers).
type RedisStore struct {
	client *redis.Client
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string // host:port
	Password string // optional
	DB       int
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

// Load reads the template. A missing key or malformed payload yields an
// empty map without error.
func (s *RedisStore) Load(ctx context.Context) (Map, error) {
	data, err := s.client.Get(ctx, redisKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return Map{}, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil || rec.Views == nil {
		return Map{}, nil
	}
	return rec.Views, nil
}

// Save replaces the stored map wholesale.
func (s *RedisStore) Save(ctx context.Context, m Map) error {
	rec := fileRecord{Views: m, UpdatedAt: time.Now().UTC()}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal template: %w", err)
	}
	if err := s.client.Set(ctx, redisKey, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Clear deletes the template key.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, redisKey).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ensure RedisStore implements Store.
var _ Store = (*RedisStore)(nil)
