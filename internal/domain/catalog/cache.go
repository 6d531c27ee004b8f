package catalog

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

var _ Source = (*Cache)(nil)

// Cache is a Source that keeps results of another Source for a TTL.
// Concurrent misses for the same key share one upstream call. Errors are
// not cached.
type Cache struct {
	src Source
	ttl time.Duration
	now func() time.Time

	group singleflight.Group

	mu       sync.RWMutex
	list     []Product
	listAt   time.Time
	products map[string]cachedProduct
}

type cachedProduct struct {
	product Product
	at      time.Time
}

// NewCache creates a Cache over src.
func NewCache(src Source, ttl time.Duration) *Cache {
	return &Cache{
		src:      src,
		ttl:      ttl,
		now:      time.Now,
		products: make(map[string]cachedProduct),
	}
}

func (c *Cache) fresh(at time.Time) bool {
	return !at.IsZero() && c.now().Sub(at) < c.ttl
}

func (c *Cache) List(ctx context.Context) ([]Product, error) {
	c.mu.RLock()
	if c.fresh(c.listAt) {
		list := c.list
		c.mu.RUnlock()
		return list, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do("list", func() (any, error) {
		list, err := c.src.List(ctx)
		if err != nil {
			return nil, err
		}
		now := c.now()
		c.mu.Lock()
		c.list, c.listAt = list, now
		for _, p := range list {
			c.products[p.ID] = cachedProduct{product: p, at: now}
		}
		c.mu.Unlock()
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Product), nil
}

func (c *Cache) Get(ctx context.Context, id string) (*Product, error) {
	c.mu.RLock()
	cached, ok := c.products[id]
	c.mu.RUnlock()
	if ok && c.fresh(cached.at) {
		p := cached.product
		return &p, nil
	}

	v, err, _ := c.group.Do("product:"+id, func() (any, error) {
		p, err := c.src.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, ErrNotFound
		}
		c.mu.Lock()
		c.products[id] = cachedProduct{product: *p, at: c.now()}
		c.mu.Unlock()
		return *p, nil
	})
	if err != nil {
		return nil, err
	}
	p := v.(Product)
	return &p, nil
}

// Invalidate drops every cached entry.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.list, c.listAt = nil, time.Time{}
	clear(c.products)
}
