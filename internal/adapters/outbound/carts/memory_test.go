package carts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kelvrith2-lang/safiri-sales/internal/core/domain"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	cart := domain.Cart{}
	require.NoError(t, cart.Add(domain.Product{ID: "p1", Barcode: "4000", Name: "Oat Milk", PriceMinor: 199, VATRateBP: 700}, 2))
	s.Put(ctx, "tok", cart)

	got := s.Get(ctx, "tok")
	require.Len(t, got.Lines, 1)
	require.Equal(t, int32(2), got.Lines[0].Quantity)
}

func TestMemoryStoreGetUnknownIsEmpty(t *testing.T) {
	s := NewMemoryStore()
	got := s.Get(context.Background(), "nope")
	require.True(t, got.Empty())
}

func TestMemoryStoreClonesOnTheWayOut(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	cart := domain.Cart{}
	require.NoError(t, cart.Add(domain.Product{ID: "p1", Name: "Mug", PriceMinor: 899}, 1))
	s.Put(ctx, "tok", cart)

	first := s.Get(ctx, "tok")
	first.Lines[0].Quantity = 99

	second := s.Get(ctx, "tok")
	require.Equal(t, int32(1), second.Lines[0].Quantity, "mutating a returned cart must not touch the stored one")
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	cart := domain.Cart{}
	require.NoError(t, cart.Add(domain.Product{ID: "p1", Name: "Mug", PriceMinor: 899}, 1))
	s.Put(ctx, "tok", cart)

	s.Delete(ctx, "tok")
	require.True(t, s.Get(ctx, "tok").Empty())
}
