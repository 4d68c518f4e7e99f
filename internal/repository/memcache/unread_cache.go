package memcache

import (
	"context"
	"sync"
	"time"

	"itboard/internal/common"
)

// UnreadCache is the in-process fallback used when redis is not configured.
type UnreadCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[common.UUID]entry
}

type entry struct {
	total     int
	expiresAt time.Time
}

func NewUnreadCache(ttl time.Duration) *UnreadCache {
	return &UnreadCache{ttl: ttl, entries: make(map[common.UUID]entry)}
}

func (c *UnreadCache) Get(_ context.Context, userID common.UUID) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[userID]
	if !ok {
		return 0, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.entries, userID)
		return 0, false
	}
	return e.total, true
}

func (c *UnreadCache) Set(_ context.Context, userID common.UUID, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = entry{total: total, expiresAt: time.Now().Add(c.ttl)}
}

func (c *UnreadCache) Invalidate(_ context.Context, userID common.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
}
