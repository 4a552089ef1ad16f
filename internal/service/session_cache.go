package service

import (
	"sync"
	"time"

	"github.com/nlcorner/admin-api/internal/models"
)

type sessionEntry struct {
	auth     models.AuthContext
	cachedAt time.Time
}

// SessionCache memoises authorization results keyed by the raw session
// token. Entries are valid for a fixed TTL and are never evicted by size;
// a revoked admin keeps access for up to the TTL window, and a freshly
// promoted admin may keep seeing 403s for the same window.
type SessionCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]sessionEntry
	now     func() time.Time
}

// NewSessionCache constructs a cache with the given TTL (default 5 minutes).
func NewSessionCache(ttl time.Duration) *SessionCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SessionCache{
		ttl:     ttl,
		entries: make(map[string]sessionEntry),
		now:     time.Now,
	}
}

// Get returns the cached authorization result for a token when still fresh.
func (c *SessionCache) Get(token string) (models.AuthContext, bool) {
	c.mu.RLock()
	entry, ok := c.entries[token]
	c.mu.RUnlock()

	if !ok || c.now().Sub(entry.cachedAt) >= c.ttl {
		return models.AuthContext{}, false
	}
	return entry.auth, true
}

// Set stores the authorization result for a token with the current timestamp.
func (c *SessionCache) Set(token string, auth models.AuthContext) {
	c.mu.Lock()
	c.entries[token] = sessionEntry{auth: auth, cachedAt: c.now()}
	c.mu.Unlock()
}

// Reset drops every entry. Intended for tests and admin-set mutations that
// should not wait out the TTL.
func (c *SessionCache) Reset() {
	c.mu.Lock()
	c.entries = make(map[string]sessionEntry)
	c.mu.Unlock()
}
