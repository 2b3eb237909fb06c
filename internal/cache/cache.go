// Package cache is a small in-memory TTL cache used by the reporting
// layer. Entries expire unconditionally; nothing invalidates them early.
package cache

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

type entry struct {
	data      any
	expiresAt time.Time
}

// Cache is a thread-safe map with per-entry expiration
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
}

// New creates a cache whose entries live for ttl
func New(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
	}
}

// Get returns the cached value for key, or false if the key is absent or
// its entry has expired. Expired entries are removed on access.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a Set may have raced in
		if cur, ok := c.entries[key]; ok && time.Now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.data, true
}

// Set stores a value under key with the cache's TTL
func (c *Cache) Set(key string, data any) {
	c.mu.Lock()
	c.entries[key] = entry{data: data, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// Purge drops every entry
func (c *Cache) Purge() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Len returns the number of entries, expired ones included
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Key builds a stable cache key from a name and the query's effective
// parameters. Parameters are serialized and hashed, so any value that
// encodes to JSON works.
func Key(name string, params ...any) string {
	encoded, err := json.Marshal(params)
	if err != nil {
		encoded = []byte(fmt.Sprintf("%v", params))
	}
	return fmt.Sprintf("%s:%x", name, sha256.Sum256(encoded))
}
