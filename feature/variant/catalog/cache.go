package catalog

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache holds the attribute catalog snapshot shared by requests. Concurrent
// loads are collapsed into one read of the source.
type Cache struct {
	source Source
	ttl    time.Duration

	mu         sync.RWMutex
	snapshot   *Snapshot
	generation uint64
	sf         singleflight.Group
}

// NewCache creates a cache over src. A zero ttl keeps the snapshot until
// Invalidate or Refresh is called.
func NewCache(src Source, ttl time.Duration) *Cache {
	return &Cache{source: src, ttl: ttl}
}

func (c *Cache) fresh(s *Snapshot) bool {
	if s == nil {
		return false
	}
	if c.ttl == 0 {
		return true
	}
	return time.Since(s.Built) <= c.ttl
}

// Load returns the cached snapshot, reading the source when there is none
// or it has expired.
func (c *Cache) Load(ctx context.Context) (*Snapshot, error) {
	c.mu.RLock()
	snap, gen := c.snapshot, c.generation
	c.mu.RUnlock()

	if c.fresh(snap) {
		return snap, nil
	}

	res, err, _ := c.sf.Do("catalog", func() (interface{}, error) {
		c.mu.RLock()
		cur := c.snapshot
		c.mu.RUnlock()
		if c.fresh(cur) {
			return cur, nil
		}

		built, err := Read(ctx, c.source)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		// An invalidation during the read makes this snapshot stale already.
		if c.generation == gen {
			c.snapshot = built
		}
		c.mu.Unlock()
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*Snapshot), nil
}

// Refresh drops the cached snapshot and reads a new one.
func (c *Cache) Refresh(ctx context.Context) (*Snapshot, error) {
	c.Invalidate()
	return c.Load(ctx)
}

// Invalidate drops the cached snapshot. Call it after attribute definitions change.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.snapshot = nil
	c.generation++
	c.mu.Unlock()
	c.sf.Forget("catalog")
}

// Current returns the cached snapshot without loading one.
func (c *Cache) Current() (*Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.fresh(c.snapshot) {
		return nil, false
	}
	return c.snapshot, true
}
