// Package inmemory provides a process-local report cache.
package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/artomo/pkg/reportcache"
)

type entry struct {
	report  string
	expires time.Time
}

// Cache is a map-backed reportcache.Cache. A zero ttl keeps entries until
// they are deleted.
type Cache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]entry
	ttl     time.Duration
	now     func() time.Time
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[uuid.UUID]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *Cache) Get(_ context.Context, id uuid.UUID) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[id]
	if !ok || (!e.expires.IsZero() && !c.now().Before(e.expires)) {
		return "", reportcache.ErrMiss
	}
	return e.report, nil
}

func (c *Cache) Set(_ context.Context, id uuid.UUID, report string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{report: report}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}
	c.entries[id] = e
	return nil
}

func (c *Cache) Delete(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, id)
	return nil
}

func (c *Cache) Close() error {
	return nil
}

var _ reportcache.Cache = (*Cache)(nil)
