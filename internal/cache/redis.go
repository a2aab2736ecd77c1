// Package cache publishes finished documents to Redis so the read side can
// serve them without touching the filesystem. The cache is strictly optional;
// every failure degrades to serving from the JSON state files.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"wbb_analytics/ingestion/internal/models"
)

const ratingsKey = "wbb:ratings"

// RedisCache holds the Redis connection and the ratings TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a new Redis cache connection
func NewRedisCache(addr, password string, db int, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{
		client: client,
		ttl:    ttl,
	}, nil
}

// Close closes the Redis connection
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

// HealthCheck pings Redis to verify connection
func (rc *RedisCache) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// SetRatings stores the serialized ratings document under the well-known key.
func (rc *RedisCache) SetRatings(ctx context.Context, doc models.RatingsDoc) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal ratings document: %w", err)
	}
	if err := rc.client.Set(ctx, ratingsKey, data, rc.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache ratings document: %w", err)
	}
	return nil
}

// GetRatings retrieves the cached ratings document. The second return is
// false on a cache miss.
func (rc *RedisCache) GetRatings(ctx context.Context) (models.RatingsDoc, bool, error) {
	data, err := rc.client.Get(ctx, ratingsKey).Bytes()
	if err == redis.Nil {
		return models.RatingsDoc{}, false, nil
	}
	if err != nil {
		return models.RatingsDoc{}, false, fmt.Errorf("failed to read cached ratings: %w", err)
	}

	var doc models.RatingsDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return models.RatingsDoc{}, false, fmt.Errorf("failed to decode cached ratings: %w", err)
	}
	return doc, true, nil
}
