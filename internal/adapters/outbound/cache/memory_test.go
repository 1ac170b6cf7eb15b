package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kelvrith2-lang/safiri-sales/internal/core/domain"
)

func product(id, barcode, name string) domain.Product {
	return domain.Product{ID: id, Barcode: barcode, Name: name, PriceMinor: 100, Active: true}
}

func TestMemoryCacheSetAndGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	c.Set(ctx, product("p1", "4000", "Espresso Beans"))

	got, ok := c.GetByID(ctx, "p1")
	require.True(t, ok)
	require.Equal(t, "Espresso Beans", got.Name)

	got, ok = c.GetByBarcode(ctx, "4000")
	require.True(t, ok)
	require.Equal(t, "p1", got.ID)

	_, ok = c.GetByBarcode(ctx, "9999")
	require.False(t, ok)

	hits, misses := c.Stats()
	require.Equal(t, uint64(2), hits)
	require.Equal(t, uint64(1), misses)
}

func TestMemoryCacheBarcodeReindex(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	c.Set(ctx, product("p1", "4000", "Espresso Beans"))
	c.Set(ctx, product("p1", "4001", "Espresso Beans"))

	_, ok := c.GetByBarcode(ctx, "4000")
	require.False(t, ok, "stale barcode entry should be gone")

	got, ok := c.GetByBarcode(ctx, "4001")
	require.True(t, ok)
	require.Equal(t, "p1", got.ID)
	require.Equal(t, 1, c.Len(ctx))
}

func TestMemoryCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	c.BulkSet(ctx, []domain.Product{
		product("p1", "4000", "Espresso Beans"),
		product("p2", "4001", "Oat Milk"),
		{}, // no id, skipped
	})
	require.Equal(t, 2, c.Len(ctx))

	c.Invalidate(ctx, "p1")

	_, ok := c.GetByID(ctx, "p1")
	require.False(t, ok)
	_, ok = c.GetByBarcode(ctx, "4000")
	require.False(t, ok)
	require.Equal(t, 1, c.Len(ctx))
}

func TestStatsHitRate(t *testing.T) {
	s := NewStats()
	require.Zero(t, s.HitRate())

	s.IncHit()
	s.IncHit()
	s.IncHit()
	s.IncMiss()
	require.InDelta(t, 0.75, s.HitRate(), 1e-9)
}
