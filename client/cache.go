package client

import (
	"strings"
	"sync"
)

// readCache is a read-through cache over GET responses, keyed by
// operation name + built URL. It is only ever invalidated, never updated in
// place: after a mutation the next read goes back to the server.
type readCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func newReadCache() *readCache {
	return &readCache{entries: make(map[string][]byte)}
}

func (c *readCache) get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, ok := c.entries[key]
	return data, ok
}

func (c *readCache) set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = data
}

// invalidatePrefix drops every cached read whose key starts with prefix,
// e.g. "tournaments." after any tournament mutation.
func (c *readCache) invalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}
