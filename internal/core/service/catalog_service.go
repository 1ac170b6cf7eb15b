package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kelvrith2-lang/safiri-sales/internal/core/domain"
	"github.com/kelvrith2-lang/safiri-sales/internal/metrics"
	"github.com/kelvrith2-lang/safiri-sales/internal/ports/inbound"
	"github.com/kelvrith2-lang/safiri-sales/internal/ports/outbound"
)

type CatalogService struct {
	products outbound.ProductRepository
	cache    outbound.ProductCache
	metrics  *metrics.Metrics
	log      *zap.Logger
}

func NewCatalogService(products outbound.ProductRepository, cache outbound.ProductCache, m *metrics.Metrics, log *zap.Logger) *CatalogService {
	return &CatalogService{products: products, cache: cache, metrics: m, log: log}
}

func (s *CatalogService) ListProducts(ctx context.Context, q domain.ProductQuery) ([]domain.Product, error) {
	if q.Limit <= 0 || q.Limit > 500 {
		q.Limit = 200
	}

	ps, err := s.products.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("db list products: %w", err)
	}
	return ps, nil
}

func (s *CatalogService) ProductByID(ctx context.Context, id string) (domain.Product, error) {
	if id == "" {
		return domain.Product{}, domain.ErrNotFound
	}

	if p, ok := s.cache.GetByID(ctx, id); ok {
		s.metrics.RecordCacheHit()
		return p, nil
	}
	s.metrics.RecordCacheMiss()

	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Product{}, domain.ErrNotFound
		}
		return domain.Product{}, fmt.Errorf("db get product: %w", err)
	}

	s.cache.Set(ctx, p)
	return p, nil
}

func (s *CatalogService) ProductByBarcode(ctx context.Context, barcode string) (domain.Product, error) {
	if barcode == "" {
		return domain.Product{}, domain.ErrNotFound
	}

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

func (s *CatalogService) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	if err := p.Validate(); err != nil {
		return domain.Product{}, fmt.Errorf("validate: %w", err)
	}

	created, err := s.products.Insert(ctx, p)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateBarcode) {
			return domain.Product{}, domain.ErrDuplicateBarcode
		}
		return domain.Product{}, fmt.Errorf("db insert product: %w", err)
	}
	s.cache.Set(ctx, created)

	s.log.Info("product created",
		zap.String("product_id", created.ID),
		zap.String("barcode", created.Barcode))
	return created, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	if err := p.Validate(); err != nil {
		return domain.Product{}, fmt.Errorf("validate: %w", err)
	}
	if p.ID == "" {
		return domain.Product{}, domain.ErrNotFound
	}

	if err := s.products.Update(ctx, p); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrDuplicateBarcode) {
			return domain.Product{}, err
		}
		return domain.Product{}, fmt.Errorf("db update product: %w", err)
	}

	fresh, err := s.products.GetByID(ctx, p.ID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("db reload product: %w", err)
	}
	s.cache.Set(ctx, fresh)
	return fresh, nil
}

func (s *CatalogService) SetStock(ctx context.Context, id string, stock int32) error {
	if id == "" {
		return domain.ErrNotFound
	}

	if err := s.products.SetStock(ctx, id, stock); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("db set stock: %w", err)
	}

	s.cache.Invalidate(ctx, id)
	return nil
}

func (s *CatalogService) DeactivateProduct(ctx context.Context, id string) error {
	p, err := s.ProductByID(ctx, id)
	if err != nil {
		return err
	}
	if !p.Active {
		return nil
	}

	p.Active = false
	if err := s.products.Update(ctx, p); err != nil {
		return fmt.Errorf("db deactivate product: %w", err)
	}
	s.cache.Invalidate(ctx, id)

	s.log.Info("product deactivated",
		zap.String("product_id", id),
		zap.String("barcode", p.Barcode))
	return nil
}

// ApplyCatalogUpdate upserts one feed message. Delivery is at-least-once:
// a redelivered message applies its stock delta again.
func (s *CatalogService) ApplyCatalogUpdate(ctx context.Context, u domain.CatalogUpdate) error {
	if err := u.Validate(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	p, err := s.products.UpsertByBarcode(ctx, u)
	if err != nil {
		return fmt.Errorf("db upsert product: %w", err)
	}
	s.cache.Set(ctx, p)

	s.log.Info("catalog update applied",
		zap.String("barcode", u.Barcode),
		zap.Int32("stock_delta", u.StockDelta),
		zap.Int32("stock", p.Stock))
	return nil
}

func (s *CatalogService) WarmCache(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		return 0, nil
	}

	ps, err := s.products.ListActive(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("db list active: %w", err)
	}

	s.cache.BulkSet(ctx, ps)
	return len(ps), nil
}

var _ inbound.CatalogUseCase = (*CatalogService)(nil)
