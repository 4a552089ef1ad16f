package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sync"
	"time"

	appErrors "github.com/nlcorner/admin-api/pkg/errors"
)

type memoryCacheEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryCacheRepository is a process-local stand-in for the Redis cache used
// when no Redis instance is configured. Entries accumulate for the lifetime
// of the process and are only invalidated by TTL expiry.
type MemoryCacheRepository struct {
	mu      sync.RWMutex
	entries map[string]memoryCacheEntry
	now     func() time.Time
}

// NewMemoryCacheRepository constructs an empty in-memory cache.
func NewMemoryCacheRepository() *MemoryCacheRepository {
	return &MemoryCacheRepository{
		entries: make(map[string]memoryCacheEntry),
		now:     time.Now,
	}
}

// Get retrieves and unmarshals the cached value into the provided destination.
func (r *MemoryCacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	r.mu.RLock()
	entry, ok := r.entries[key]
	r.mu.RUnlock()

	if !ok || r.now().After(entry.expiresAt) {
		return appErrors.ErrCacheMiss
	}

	if err := json.Unmarshal(entry.payload, dest); err != nil {
		return fmt.Errorf("unmarshal cache value for %s: %w", key, err)
	}
	return nil
}

// Set marshals the provided value and stores it with the given TTL.
func (r *MemoryCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value for %s: %w", key, err)
	}

	r.mu.Lock()
	r.entries[key] = memoryCacheEntry{payload: payload, expiresAt: r.now().Add(ttl)}
	r.mu.Unlock()
	return nil
}

// DeleteByPattern removes cached entries matching the glob pattern.
func (r *MemoryCacheRepository) DeleteByPattern(ctx context.Context, pattern string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.entries {
		if matched, _ := path.Match(pattern, key); matched {
			delete(r.entries, key)
		}
	}
	return nil
}

// Close satisfies the repository contract; nothing to release.
func (r *MemoryCacheRepository) Close() error {
	return nil
}
