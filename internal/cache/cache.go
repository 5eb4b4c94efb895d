// Package cache is a small TTL cache used to absorb bursty repeated report
// reads. Entries are immutable and simply expire; the underlying data moves
// slower than the window, so there is no invalidation protocol.
package cache

import (
    "sync"
    "time"
)

type entry struct {
    val     any
    expires time.Time
}

type Cache struct {
    mu  sync.Mutex
    m   map[string]entry
    now func() time.Time
}

func New() *Cache {
    return &Cache{m: map[string]entry{}, now: time.Now}
}

// Get returns the cached value when present and unexpired. Expired entries
// are dropped on read; there is no background sweeper.
func (c *Cache) Get(key string) (any, bool) {
    if c == nil { return nil, false }
    c.mu.Lock()
    defer c.mu.Unlock()
    e, ok := c.m[key]
    if !ok { return nil, false }
    if c.now().After(e.expires) {
        delete(c.m, key)
        return nil, false
    }
    return e.val, true
}

// Put stores val under key for ttl. Non-positive ttl stores nothing.
func (c *Cache) Put(key string, val any, ttl time.Duration) {
    if c == nil || ttl <= 0 { return }
    c.mu.Lock()
    defer c.mu.Unlock()
    c.m[key] = entry{val: val, expires: c.now().Add(ttl)}
}

func (c *Cache) Flush() {
    if c == nil { return }
    c.mu.Lock()
    defer c.mu.Unlock()
    c.m = map[string]entry{}
}
