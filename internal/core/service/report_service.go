package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kelvrith2-lang/safiri-sales/internal/core/domain"
	"github.com/kelvrith2-lang/safiri-sales/internal/ports/inbound"
	"github.com/kelvrith2-lang/safiri-sales/internal/ports/outbound"
)

type ReportService struct {
	sales    outbound.SaleRepository
	products outbound.ProductRepository
}

func NewReportService(sales outbound.SaleRepository, products outbound.ProductRepository) *ReportService {
	return &ReportService{sales: sales, products: products}
}

func (s *ReportService) DailySummary(ctx context.Context, day time.Time) (domain.DailySummary, error) {
	from, to := dayRange(day)

	sum, err := s.sales.SummarizeRange(ctx, from, to)
	if err != nil {
		return domain.DailySummary{}, fmt.Errorf("db summarize: %w", err)
	}
	return sum, nil
}

func (s *ReportService) TopProducts(ctx context.Context, day time.Time, limit int) ([]domain.TopProduct, error) {
	if limit <= 0 {
		limit = 5
	}
	if limit > 50 {
		limit = 50
	}
	from, to := dayRange(day)

	top, err := s.sales.TopProducts(ctx, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("db top products: %w", err)
	}
	return top, nil
}

func (s *ReportService) InventoryHealth(ctx context.Context) (domain.InventoryHealth, error) {
	h, err := s.products.InventoryHealth(ctx)
	if err != nil {
		return domain.InventoryHealth{}, fmt.Errorf("db inventory health: %w", err)
	}
	return h, nil
}

func (s *ReportService) RecentSales(ctx context.Context, limit int) ([]domain.Sale, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	sales, err := s.sales.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("db recent sales: %w", err)
	}
	return sales, nil
}

func (s *ReportService) SalesPage(ctx context.Context, page, pageSize int) ([]domain.Sale, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := s.sales.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("db count sales: %w", err)
	}
	if total == 0 {
		return []domain.Sale{}, 0, nil
	}

	sales, err := s.sales.ListPage(ctx, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("db list sales: %w", err)
	}
	return sales, total, nil
}

func (s *ReportService) SaleByReceipt(ctx context.Context, receiptNumber string) (domain.Sale, error) {
	if receiptNumber == "" {
		return domain.Sale{}, domain.ErrNotFound
	}

	sale, err := s.sales.GetByReceipt(ctx, receiptNumber)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Sale{}, domain.ErrNotFound
		}
		return domain.Sale{}, fmt.Errorf("db get sale: %w", err)
	}
	return sale, nil
}

// dayRange is the store-local day [midnight, next midnight).
func dayRange(day time.Time) (time.Time, time.Time) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return from, from.AddDate(0, 0, 1)
}

var _ inbound.ReportUseCase = (*ReportService)(nil)
