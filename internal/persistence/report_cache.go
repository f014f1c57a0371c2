package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReportCache adapts the Redis client to the report cache contract.
// A nil client degrades to a no-op cache so the service still works
// without Redis.
type ReportCache struct {
	client *redis.Client
}

// NewReportCache wraps the shared Redis connection.
func NewReportCache(r *Redis) *ReportCache {
	if r == nil {
		return &ReportCache{}
	}
	return &ReportCache{client: r.Client}
}

// Get returns the cached payload, or nil on a miss.
func (c *ReportCache) Get(ctx context.Context, key string) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return payload, nil
}

// Set stores the payload with the given expiry.
func (c *ReportCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Set(ctx, key, value, ttl).Err()
}
