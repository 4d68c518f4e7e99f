package rediscache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"itboard/internal/common"
)

// UnreadCache keeps per-user unread totals in redis for a short TTL. Misses
// and redis failures both report a miss so callers fall back to recounting.
type UnreadCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewUnreadCache(client *redis.Client, ttl time.Duration) *UnreadCache {
	return &UnreadCache{client: client, ttl: ttl}
}

func (c *UnreadCache) key(userID common.UUID) string {
	return "unread_total:" + string(userID)
}

func (c *UnreadCache) Get(ctx context.Context, userID common.UUID) (int, bool) {
	val, err := c.client.Get(ctx, c.key(userID)).Result()
	if err != nil {
		return 0, false
	}
	total, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return total, true
}

func (c *UnreadCache) Set(ctx context.Context, userID common.UUID, total int) {
	_ = c.client.Set(ctx, c.key(userID), total, c.ttl).Err()
}

func (c *UnreadCache) Invalidate(ctx context.Context, userID common.UUID) {
	_ = c.client.Del(ctx, c.key(userID)).Err()
}
