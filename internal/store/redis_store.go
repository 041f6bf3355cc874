package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/evyataryagoni/ipinfo/internal/models"
	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store using Redis, for deployments where
// multiple instances should share one lookup cache.
//
// Key format: ipinfo:<ip_address>
// Value: JSON-encoded models.IPInfo, expiring after the configured TTL.
type RedisStore struct {
	client *redis.Client
	ctx    context.Context
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed cache.
//
// Parameters:
//   - addr: Redis server address (e.g., "localhost:6379")
//   - password: Redis password (empty string if no password)
//   - db: Redis database number
//   - ttl: entry lifetime; non-positive means entries never expire
func NewRedisStore(addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{
		client: client,
		ctx:    ctx,
		ttl:    ttl,
	}, nil
}

func redisKey(ip string) string {
	return "ipinfo:" + ip
}

// Get returns the cached result for an IP address.
func (s *RedisStore) Get(ip string) (*models.IPInfo, error) {
	val, err := s.client.Get(s.ctx, redisKey(ip)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis query failed: %w", err)
	}

	var info models.IPInfo
	if err := json.Unmarshal([]byte(val), &info); err != nil {
		return nil, fmt.Errorf("failed to decode cached result: %w", err)
	}

	return &info, nil
}

// Set caches the result for an IP address with the store's TTL.
func (s *RedisStore) Set(ip string, info *models.IPInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	ttl := s.ttl
	if ttl < 0 {
		ttl = 0 // go-redis treats 0 as "no expiration"
	}

	if err := s.client.Set(s.ctx, redisKey(ip), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store in Redis: %w", err)
	}

	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
