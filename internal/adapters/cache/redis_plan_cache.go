package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fleet-dispatch-service/internal/platform/obs"
	"fleet-dispatch-service/internal/ports"
)

const latestPlanKey = "fleet:plan:latest"

// RedisPlanCache keeps the most recent plan snapshot in Redis under a
// single key with a TTL, so a stale snapshot ages out rather than being
// served forever.
type RedisPlanCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisPlanCache(client *redis.Client, ttl time.Duration) *RedisPlanCache {
	return &RedisPlanCache{Client: client, TTL: ttl}
}

// Store the latest plan snapshot, replacing any previous one.
func (c *RedisPlanCache) PutLatest(ctx context.Context, payload []byte) error {
	if c.Client == nil {
		return errors.New("plan cache: client is nil")
	}
	if len(payload) == 0 {
		return errors.New("put latest plan: payload must not be empty")
	}

	if err := c.Client.Set(ctx, latestPlanKey, payload, c.TTL).Err(); err != nil {
		return fmt.Errorf("put latest plan: %w", err)
	}
	return nil
}

// Retrieve the latest plan snapshot.
func (c *RedisPlanCache) GetLatest(ctx context.Context) (_ []byte, err error) {
	defer obs.Time(ctx, "plan.cache.GetLatest")(&err)

	if c.Client == nil {
		return nil, errors.New("plan cache: client is nil")
	}

	raw, err := c.Client.Get(ctx, latestPlanKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ports.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("get latest plan: %w", err)
	}
	return raw, nil
}
