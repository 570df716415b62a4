package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// StatusCache stores the latest status per order in Redis, so status polls
// do not hit the relational store.
type StatusCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStatusCache(rdb *redis.Client, ttl time.Duration) *StatusCache {
	return &StatusCache{rdb: rdb, ttl: ttl}
}

// Keys carry the owning user so a cached read can never cross users.
func statusKey(userID, orderID string) string {
	return "order:status:" + userID + ":" + orderID
}

func (c *StatusCache) SetStatus(ctx context.Context, userID, orderID string, status string) error {
	return c.rdb.Set(ctx, statusKey(userID, orderID), status, c.ttl).Err()
}

// GetStatus returns "" with no error on a cache miss.
func (c *StatusCache) GetStatus(ctx context.Context, userID, orderID string) (string, error) {
	v, err := c.rdb.Get(ctx, statusKey(userID, orderID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}
