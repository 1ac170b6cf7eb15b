package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kelvrith2-lang/safiri-sales/internal/core/domain"
	"github.com/kelvrith2-lang/safiri-sales/internal/metrics"
)

func espresso() domain.Product {
	return domain.Product{
		ID: "p-espresso", Barcode: "4000", Name: "Espresso Beans 500g",
		PriceMinor: 350, VATRateBP: 1900, Stock: 40, MinStock: 5, Active: true,
	}
}

func oatMilk() domain.Product {
	return domain.Product{
		ID: "p-oat", Barcode: "4001", Name: "Oat Milk 1L",
		PriceMinor: 199, VATRateBP: 700, Stock: 12, MinStock: 6, Active: true,
	}
}

func newCheckout(products *stubProducts, sales *stubSales, cache *fakeCache, carts *fakeCarts, pub *fakePublisher) *CheckoutService {
	return NewCheckoutService(products, sales, cache, carts, pub, metrics.New(), zap.NewNop())
}

func TestScanAddsToCartAndWarmsCache(t *testing.T) {
	ctx := context.Background()
	repoCalls := 0
	products := &stubProducts{
		getByBarcode: func(_ context.Context, barcode string) (domain.Product, error) {
			repoCalls++
			if barcode == "4000" {
				return espresso(), nil
			}
			return domain.Product{}, domain.ErrNotFound
		},
	}
	svc := newCheckout(products, &stubSales{}, newFakeCache(), newFakeCarts(), &fakePublisher{})

	cart, p, err := svc.Scan(ctx, "tok", "4000")
	require.NoError(t, err)
	require.Equal(t, "Espresso Beans 500g", p.Name)
	require.Len(t, cart.Lines, 1)
	require.Equal(t, int32(1), cart.Lines[0].Quantity)

	// Second scan merges the line and comes out of the cache.
	cart, _, err = svc.Scan(ctx, "tok", "4000")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	require.Equal(t, int32(2), cart.Lines[0].Quantity)
	require.Equal(t, 1, repoCalls)
}

func TestScanUnknownBarcode(t *testing.T) {
	svc := newCheckout(&stubProducts{}, &stubSales{}, newFakeCache(), newFakeCarts(), &fakePublisher{})

	_, _, err := svc.Scan(context.Background(), "tok", "9999")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, _, err = svc.Scan(context.Background(), "tok", "")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestScanInactiveProductLooksUnknown(t *testing.T) {
	dead := espresso()
	dead.Active = false
	products := &stubProducts{
		getByBarcode: func(context.Context, string) (domain.Product, error) { return dead, nil },
	}
	svc := newCheckout(products, &stubSales{}, newFakeCache(), newFakeCarts(), &fakePublisher{})

	_, _, err := svc.Scan(context.Background(), "tok", "4000")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetQuantity(t *testing.T) {
	ctx := context.Background()
	carts := newFakeCarts()
	seed := domain.Cart{}
	require.NoError(t, seed.Add(espresso(), 2))
	carts.Put(ctx, "tok", seed)

	svc := newCheckout(&stubProducts{}, &stubSales{}, newFakeCache(), carts, &fakePublisher{})

	cart, err := svc.SetQuantity(ctx, "tok", "p-espresso", 5)
	require.NoError(t, err)
	require.Equal(t, int32(5), cart.Lines[0].Quantity)

	cart, err = svc.SetQuantity(ctx, "tok", "p-espresso", 0)
	require.NoError(t, err)
	require.True(t, cart.Empty())

	_, err = svc.SetQuantity(ctx, "tok", "p-missing", 1)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.SetQuantity(ctx, "tok", "p-espresso", -1)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestCheckoutRecordsSaleThenDecrements(t *testing.T) {
	ctx := context.Background()

	var recorded domain.Sale
	sales := &stubSales{
		record: func(_ context.Context, sale domain.Sale) error {
			recorded = sale
			return nil
		},
	}
	var decremented []string
	products := &stubProducts{
		decrement: func(_ context.Context, id string, qty int32) error {
			decremented = append(decremented, id)
			return nil
		},
	}
	cache := newFakeCache()
	cache.Set(ctx, espresso())
	cache.Set(ctx, oatMilk())

	carts := newFakeCarts()
	seed := domain.Cart{}
	require.NoError(t, seed.Add(espresso(), 2))
	require.NoError(t, seed.Add(oatMilk(), 1))
	carts.Put(ctx, "tok", seed)

	pub := &fakePublisher{}
	svc := newCheckout(products, sales, cache, carts, pub)
	svc.now = func() time.Time { return time.Date(2024, 11, 7, 14, 30, 0, 0, time.UTC) }

	sale, err := svc.Checkout(ctx, "tok", "cashier-1", domain.PaymentCard)
	require.NoError(t, err)

	require.Equal(t, int64(899), sale.TotalMinor)
	require.Equal(t, int64(125), sale.VATMinor)
	require.Equal(t, "cashier-1", sale.CashierID)
	require.Equal(t, recorded.ID, sale.ID)
	require.Regexp(t, `^R-20241107-[0-9A-F]{8}$`, sale.ReceiptNumber)

	// Cart is gone, stock was decremented per line, event went out.
	require.True(t, carts.Get(ctx, "tok").Empty())
	require.ElementsMatch(t, []string{"p-espresso", "p-oat"}, decremented)
	require.ElementsMatch(t, []string{"p-espresso", "p-oat"}, cache.invalidated)
	require.Len(t, pub.published, 1)
	require.Equal(t, sale.ReceiptNumber, pub.published[0].ReceiptNumber)
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc := newCheckout(&stubProducts{}, &stubSales{}, newFakeCache(), newFakeCarts(), &fakePublisher{})

	_, err := svc.Checkout(context.Background(), "tok", "cashier-1", domain.PaymentCash)
	require.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestCheckoutRetriesOnceOnReceiptConflict(t *testing.T) {
	ctx := context.Background()

	var receipts []string
	sales := &stubSales{
		record: func(_ context.Context, sale domain.Sale) error {
			receipts = append(receipts, sale.ReceiptNumber)
			if len(receipts) == 1 {
				return domain.ErrDuplicateReceipt
			}
			return nil
		},
	}
	carts := newFakeCarts()
	seed := domain.Cart{}
	require.NoError(t, seed.Add(espresso(), 1))
	carts.Put(ctx, "tok", seed)

	svc := newCheckout(&stubProducts{}, sales, newFakeCache(), carts, &fakePublisher{})

	sale, err := svc.Checkout(ctx, "tok", "cashier-1", domain.PaymentCash)
	require.NoError(t, err)
	require.Len(t, receipts, 2)
	require.NotEqual(t, receipts[0], receipts[1])
	require.Equal(t, receipts[1], sale.ReceiptNumber)
}

func TestCheckoutSecondConflictFails(t *testing.T) {
	ctx := context.Background()
	sales := &stubSales{
		record: func(context.Context, domain.Sale) error { return domain.ErrDuplicateReceipt },
	}
	carts := newFakeCarts()
	seed := domain.Cart{}
	require.NoError(t, seed.Add(espresso(), 1))
	carts.Put(ctx, "tok", seed)

	svc := newCheckout(&stubProducts{}, sales, newFakeCache(), carts, &fakePublisher{})

	_, err := svc.Checkout(ctx, "tok", "cashier-1", domain.PaymentCash)
	require.ErrorIs(t, err, domain.ErrDuplicateReceipt)
	// The cart survives a failed checkout.
	require.False(t, carts.Get(ctx, "tok").Empty())
}

func TestCheckoutSurvivesDecrementFailure(t *testing.T) {
	ctx := context.Background()
	products := &stubProducts{
		decrement: func(context.Context, string, int32) error { return errors.New("db down") },
	}
	cache := newFakeCache()
	cache.Set(ctx, espresso())

	carts := newFakeCarts()
	seed := domain.Cart{}
	require.NoError(t, seed.Add(espresso(), 1))
	carts.Put(ctx, "tok", seed)

	pub := &fakePublisher{}
	svc := newCheckout(products, &stubSales{}, cache, carts, pub)

	sale, err := svc.Checkout(ctx, "tok", "cashier-1", domain.PaymentCard)
	require.NoError(t, err, "the sale stands even when the decrement fails")
	require.NotEmpty(t, sale.ReceiptNumber)
	require.Empty(t, cache.invalidated, "failed decrement must not invalidate the cache entry")
	require.Len(t, pub.published, 1)
}
