package kvstore

import (
	"context"
	"sync"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

var _ Backend = (*CachedBackend)(nil)

// CachedBackend serves reads from a local freecache and drops the cached
// entry on every write. Writes made by other processes are only seen after expireSeconds.
type CachedBackend struct {
	next          Backend
	cache         *freecache.Cache
	expireSeconds int

	// generations counts writes per key; a read only fills the cache when no
	// write finished while it was fetching from next.
	mu          sync.Mutex
	generations map[string]uint64
}

func NewCachedBackend(next Backend, cacheSizeBytes, expireSeconds int) *CachedBackend {
	return &CachedBackend{
		next:          next,
		cache:         freecache.NewCache(cacheSizeBytes),
		expireSeconds: expireSeconds,
		generations:   make(map[string]uint64),
	}
}

func (c *CachedBackend) GetItem(ctx context.Context, key string) (string, bool, error) {
	if cached, err := c.cache.Get([]byte(key)); err == nil {
		return string(cached), true, nil
	}

	c.mu.Lock()
	generation := c.generations[key]
	c.mu.Unlock()

	value, exists, err := c.next.GetItem(ctx, key)
	if err != nil || !exists {
		return value, exists, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[key] != generation {
		return value, true, nil
	}
	if err := c.cache.Set([]byte(key), []byte(value), c.expireSeconds); err != nil {
		// too large for the cache, serve uncached
		log.Debugf("kv cache set %s: %s", key, err)
	}

	return value, true, nil
}

func (c *CachedBackend) SetItem(ctx context.Context, key, value string) error {
	defer c.invalidate(key)
	return c.next.SetItem(ctx, key, value)
}

func (c *CachedBackend) RemoveItem(ctx context.Context, key string) error {
	defer c.invalidate(key)
	return c.next.RemoveItem(ctx, key)
}

func (c *CachedBackend) Update(ctx context.Context, key string, fn UpdateFunc) error {
	defer c.invalidate(key)
	return c.next.Update(ctx, key, fn)
}

// invalidate runs after the write reached next.
func (c *CachedBackend) invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[key]++
	c.cache.Del([]byte(key))
}

// HitRate is the freecache hit ratio since creation.
func (c *CachedBackend) HitRate() float64 {
	return c.cache.HitRate()
}
