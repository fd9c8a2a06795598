// Package cache is a TTL key/value cache fronting the Nautobot API, so
// repeated dashboard loads do not hammer the upstream for slow-changing
// data such as locations and namespaces.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type entry struct {
	data      any
	expiresAt time.Time
}

type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
}

type Stats struct {
	Items int      `json:"items"`
	Keys  []string `json:"keys"`
}

// New creates a cache with the given default TTL. A non-positive TTL
// falls back to ten minutes.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Cache{entries: map[string]entry{}, ttl: ttl}
}

// Key builds a namespaced cache key, e.g. Key("nautobot", "locations").
func Key(namespace string, parts ...string) string {
	if len(parts) == 0 {
		return namespace
	}
	return namespace + ":" + strings.Join(parts, ":")
}

// Get returns the cached value, or nil and false when absent or expired.
// Expired entries drop on access.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.data, true
}

func (c *Cache) Set(key string, data any) {
	c.SetTTL(key, data, c.ttl)
}

func (c *Cache) SetTTL(key string, data any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{data: data, expiresAt: time.Now().Add(ttl)}
}

// DeleteNamespace drops every key under "namespace:" plus the bare
// namespace key itself. Used to invalidate after a sync run.
func (c *Cache) DeleteNamespace(namespace string) {
	prefix := namespace + ":"

	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key == namespace || strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]entry{}
}

func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	return Stats{Items: len(c.entries), Keys: keys}
}

// StartSweeper evicts expired entries periodically, keeping memory bounded
// for keys that are never read again. It blocks until ctx is cancelled, so
// callers run it on its own goroutine.
func (c *Cache) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *Cache) sweep() {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}
