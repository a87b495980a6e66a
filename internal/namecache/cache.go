// Package namecache memoizes resolved contact display names so sender
// attribution does not hit the contact table once per group message.
package namecache

import (
	"sync"
	"time"
)

type entry struct {
	name string
	exp  time.Time
}

type Cache struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[string]entry
}

func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{ttl: ttl, m: make(map[string]entry)}
}

func (c *Cache) Get(handle string) (string, bool) {
	c.mu.RLock()
	e, ok := c.m[handle]
	c.mu.RUnlock()
	if !ok || time.Now().After(e.exp) {
		return "", false
	}
	return e.name, true
}

func (c *Cache) Set(handle, name string) {
	c.mu.Lock()
	c.m[handle] = entry{name: name, exp: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}
