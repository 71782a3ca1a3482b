package cache

import (
	"sync"
	"time"
)

// ProfileCache is a TTL cache for fetched profiles. Profiles are
// immutable once an account exists (there is no update operation), so a
// short-lived read-through cache cannot serve meaningfully stale data.
type ProfileCache struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[string]entry
}

type entry struct {
	profile map[string]any
	exp     time.Time
}

func New(ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	return &ProfileCache{
		ttl: ttl,
		m:   make(map[string]entry),
	}
}

func (c *ProfileCache) Get(id string) (map[string]any, bool) {
	now := time.Now()
	c.mu.RLock()
	e, ok := c.m[id]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if now.After(e.exp) {
		c.mu.Lock()
		delete(c.m, id)
		c.mu.Unlock()
		return nil, false
	}

	return e.profile, true
}

func (c *ProfileCache) Set(id string, profile map[string]any) {
	c.mu.Lock()
	c.m[id] = entry{profile: profile, exp: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *ProfileCache) Clear() {
	c.mu.Lock()
	c.m = make(map[string]entry)
	c.mu.Unlock()
}
