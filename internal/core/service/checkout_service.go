package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kelvrith2-lang/safiri-sales/internal/core/domain"
	"github.com/kelvrith2-lang/safiri-sales/internal/metrics"
	"github.com/kelvrith2-lang/safiri-sales/internal/ports/inbound"
	"github.com/kelvrith2-lang/safiri-sales/internal/ports/outbound"
)

type CheckoutService struct {
	products  outbound.ProductRepository
	sales     outbound.SaleRepository
	cache     outbound.ProductCache
	carts     outbound.CartStore
	publisher outbound.SalePublisher
	metrics   *metrics.Metrics
	log       *zap.Logger
	now       func() time.Time
}

func NewCheckoutService(
	products outbound.ProductRepository,
	sales outbound.SaleRepository,
	cache outbound.ProductCache,
	carts outbound.CartStore,
	publisher outbound.SalePublisher,
	m *metrics.Metrics,
	log *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		products:  products,
		sales:     sales,
		cache:     cache,
		carts:     carts,
		publisher: publisher,
		metrics:   m,
		log:       log,
		now:       time.Now,
	}
}

// Scan resolves the barcode, cache first, and adds one unit to the
// session's cart. Inactive products scan like unknown barcodes.
func (s *CheckoutService) Scan(ctx context.Context, sessionToken, barcode string) (domain.Cart, domain.Product, error) {
	if barcode == "" {
		return domain.Cart{}, domain.Product{}, domain.ErrNotFound
	}

	p, err := s.lookupByBarcode(ctx, barcode)
	if err != nil {
		return domain.Cart{}, domain.Product{}, err
	}
	if !p.Active {
		return domain.Cart{}, domain.Product{}, domain.ErrNotFound
	}

	cart := s.carts.Get(ctx, sessionToken)
	if err := cart.Add(p, 1); err != nil {
		return domain.Cart{}, domain.Product{}, err
	}
	s.carts.Put(ctx, sessionToken, cart)

	return cart, p, nil
}

func (s *CheckoutService) SetQuantity(ctx context.Context, sessionToken, productID string, qty int32) (domain.Cart, error) {
	cart := s.carts.Get(ctx, sessionToken)
	if err := cart.SetQuantity(productID, qty); err != nil {
		return domain.Cart{}, err
	}
	s.carts.Put(ctx, sessionToken, cart)
	return cart, nil
}

func (s *CheckoutService) ClearCart(ctx context.Context, sessionToken string) error {
	s.carts.Delete(ctx, sessionToken)
	return nil
}

func (s *CheckoutService) Cart(ctx context.Context, sessionToken string) (domain.Cart, error) {
	return s.carts.Get(ctx, sessionToken), nil
}

// Checkout freezes the cart into a sale and records it in one transaction.
// Once that commits the sale stands: stock decrements run afterwards as
// independent writes, and the event publish is fire-and-forget. A receipt
// number collision retries once with a fresh number.
func (s *CheckoutService) Checkout(ctx context.Context, sessionToken, cashierID string, payment domain.PaymentMethod) (domain.Sale, error) {
	start := s.now()

	cart := s.carts.Get(ctx, sessionToken)
	sale, err := domain.NewSale(cart, cashierID, payment, start)
	if err != nil {
		return domain.Sale{}, err
	}

	if err := s.sales.Record(ctx, sale); err != nil {
		if errors.Is(err, domain.ErrDuplicateReceipt) {
			sale.ReceiptNumber = domain.NewReceiptNumber(start)
			err = s.sales.Record(ctx, sale)
		}
		if err != nil {
			return domain.Sale{}, fmt.Errorf("db record sale: %w", err)
		}
	}

	s.carts.Delete(ctx, sessionToken)

	for _, it := range sale.Items {
		if err := s.products.DecrementStock(ctx, it.ProductID, it.Quantity); err != nil {
			s.metrics.RecordStockDecrementFailure()
			s.log.Warn("stock decrement failed",
				zap.String("product_id", it.ProductID),
				zap.String("receipt", sale.ReceiptNumber),
				zap.Error(err))
			continue
		}
		s.cache.Invalidate(ctx, it.ProductID)
	}

	s.publisher.Publish(ctx, sale)
	s.metrics.RecordSale(sale.TotalMinor, s.now().Sub(start))

	s.log.Info("sale completed",
		zap.String("receipt", sale.ReceiptNumber),
		zap.Int64("total_minor", sale.TotalMinor),
		zap.Int("lines", len(sale.Items)),
		zap.String("payment", string(sale.Payment)))

	return sale, nil
}

func (s *CheckoutService) lookupByBarcode(ctx context.Context, barcode string) (domain.Product, error) {
	if p, ok := s.cache.GetByBarcode(ctx, barcode); ok {
		s.metrics.RecordCacheHit()
		return p, nil
	}
	s.metrics.RecordCacheMiss()

	p, err := s.products.GetByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Product{}, domain.ErrNotFound
		}
		return domain.Product{}, fmt.Errorf("db get product: %w", err)
	}
	s.cache.Set(ctx, p)
	return p, nil
}

var _ inbound.CheckoutUseCase = (*CheckoutService)(nil)
