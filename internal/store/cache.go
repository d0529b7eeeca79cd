package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// MetricsCache caches computed monitoring payloads in Redis so dashboard
// polling does not hit the report store on every request.
type MetricsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewMetricsCache connects to Redis and verifies the connection.
func NewMetricsCache(addr, password string, db int, ttl time.Duration, logger *zap.Logger) (*MetricsCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &MetricsCache{client: client, ttl: ttl, logger: logger}, nil
}

// Get loads a cached value into dest. The second return value reports a hit.
func (c *MetricsCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get failed: %w", err)
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		// A stale encoding is a miss, not an error.
		c.logger.Warn("dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
		c.client.Del(ctx, key)
		return false, nil
	}
	return true, nil
}

// Set stores a value under the configured TTL.
func (c *MetricsCache) Set(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set failed: %w", err)
	}
	return nil
}

// Close shuts down the Redis client.
func (c *MetricsCache) Close() error {
	return c.client.Close()
}
