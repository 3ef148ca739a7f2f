package cache

import (
	"sync"
	"time"
)

// LoaderFunc fetches the full settings map from the backing store.
type LoaderFunc func() (map[string]string, error)

// SettingsCache holds site settings with a load-once-reuse lifecycle. It is
// injected where needed instead of living as package-level mutable state,
// and carries an explicit TTL and Invalidate.
type SettingsCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	load     LoaderFunc
	values   map[string]string
	loadedAt time.Time
	now      func() time.Time
}

func NewSettingsCache(ttl time.Duration, load LoaderFunc) *SettingsCache {
	return &SettingsCache{
		ttl:  ttl,
		load: load,
		now:  time.Now,
	}
}

// Get returns the cached settings, reloading when the cache is empty or the
// TTL has elapsed. When a reload fails and a previous snapshot exists, the
// stale snapshot is served instead of the error.
func (c *SettingsCache) Get() (map[string]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.values != nil && c.now().Sub(c.loadedAt) < c.ttl {
		return copyValues(c.values), nil
	}

	values, err := c.load()
	if err != nil {
		if c.values != nil {
			return copyValues(c.values), nil
		}
		return nil, err
	}

	c.values = values
	c.loadedAt = c.now()
	return copyValues(values), nil
}

// Invalidate drops the cached snapshot; the next Get reloads.
func (c *SettingsCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = nil
}

func copyValues(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}
