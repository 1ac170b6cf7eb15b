package inbound

import (
	"context"
	"time"

	"github.com/kelvrith2-lang/safiri-sales/internal/core/domain"
)

type ReportUseCase interface {
	DailySummary(ctx context.Context, day time.Time) (domain.DailySummary, error)
	TopProducts(ctx context.Context, day time.Time, limit int) ([]domain.TopProduct, error)
	InventoryHealth(ctx context.Context) (domain.InventoryHealth, error)
	RecentSales(ctx context.Context, limit int) ([]domain.Sale, error)
	SalesPage(ctx context.Context, page, pageSize int) (sales []domain.Sale, total int, err error)
	SaleByReceipt(ctx context.Context, receiptNumber string) (domain.Sale, error)
}
