package cache

import (
	"context"
	"sync"

	"github.com/kelvrith2-lang/safiri-sales/internal/core/domain"
)

// MemoryCache keeps the active catalog in process memory, indexed by id and
// by barcode. Scans at the register hit the barcode index; everything else
// goes by id.
type MemoryCache struct {
	mu        sync.RWMutex
	byID      map[string]domain.Product
	byBarcode map[string]string // barcode -> product id
	stats     *Stats
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		byID:      make(map[string]domain.Product),
		byBarcode: make(map[string]string),
		stats:     NewStats(),
	}
}

func (c *MemoryCache) GetByID(_ context.Context, id string) (domain.Product, bool) {
	c.mu.RLock()
	p, ok := c.byID[id]
	c.mu.RUnlock()

	if ok {
		c.stats.IncHit()
		return p, true
	}

	c.stats.IncMiss()
	return domain.Product{}, false
}

func (c *MemoryCache) GetByBarcode(_ context.Context, barcode string) (domain.Product, bool) {
	c.mu.RLock()
	var p domain.Product
	id, ok := c.byBarcode[barcode]
	if ok {
		p, ok = c.byID[id]
	}
	c.mu.RUnlock()

	if ok {
		c.stats.IncHit()
		return p, true
	}

	c.stats.IncMiss()
	return domain.Product{}, false
}

func (c *MemoryCache) Set(_ context.Context, p domain.Product) {
	if p.ID == "" {
		return
	}
	c.mu.Lock()
	c.set(p)
	c.mu.Unlock()
}

func (c *MemoryCache) BulkSet(_ context.Context, ps []domain.Product) {
	c.mu.Lock()
	for _, p := range ps {
		if p.ID == "" {
			continue
		}
		c.set(p)
	}
	c.mu.Unlock()
}

// set assumes the write lock. When a product's barcode changed the old
// index entry must not linger, so it is dropped first.
func (c *MemoryCache) set(p domain.Product) {
	if old, ok := c.byID[p.ID]; ok && old.Barcode != p.Barcode {
		delete(c.byBarcode, old.Barcode)
	}
	c.byID[p.ID] = p
	c.byBarcode[p.Barcode] = p.ID
}

func (c *MemoryCache) Invalidate(_ context.Context, id string) {
	c.mu.Lock()
	if p, ok := c.byID[id]; ok {
		delete(c.byBarcode, p.Barcode)
		delete(c.byID, id)
	}
	c.mu.Unlock()
}

func (c *MemoryCache) Len(_ context.Context) int {
	c.mu.RLock()
	n := len(c.byID)
	c.mu.RUnlock()
	return n
}

// Stats returns the raw hit and miss counts since startup.
func (c *MemoryCache) Stats() (hits uint64, misses uint64) {
	return c.stats.Snapshot()
}

func (c *MemoryCache) HitRate() float64 {
	return c.stats.HitRate()
}
