package outbound

import (
	"context"
	"time"

	"github.com/kelvrith2-lang/safiri-sales/internal/core/domain"
)

type ProductRepository interface {
	List(ctx context.Context, q domain.ProductQuery) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (domain.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (domain.Product, error)
	Insert(ctx context.Context, p domain.Product) (domain.Product, error)
	Update(ctx context.Context, p domain.Product) error
	SetStock(ctx context.Context, id string, stock int32) error
	// DecrementStock is a single unguarded UPDATE; stock may go negative.
	DecrementStock(ctx context.Context, id string, qty int32) error
	UpsertByBarcode(ctx context.Context, u domain.CatalogUpdate) (domain.Product, error)
	ListActive(ctx context.Context, limit int) ([]domain.Product, error)
	InventoryHealth(ctx context.Context) (domain.InventoryHealth, error)
}

type SaleRepository interface {
	// Record inserts the sale and all its items in one transaction, with the
	// cashier identity bound to the transaction for row-level security.
	Record(ctx context.Context, sale domain.Sale) error
	GetByReceipt(ctx context.Context, receiptNumber string) (domain.Sale, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Sale, error)
	ListPage(ctx context.Context, limit, offset int) ([]domain.Sale, error)
	Count(ctx context.Context) (int, error)
	SummarizeRange(ctx context.Context, from, to time.Time) (domain.DailySummary, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]domain.TopProduct, error)
}

type CashierRepository interface {
	// Authenticate delegates password verification to the database; the
	// application never sees a hash.
	Authenticate(ctx context.Context, email, password string) (domain.Cashier, error)
}
