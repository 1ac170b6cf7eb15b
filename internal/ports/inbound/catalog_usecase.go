package inbound

import (
	"context"

	"github.com/kelvrith2-lang/safiri-sales/internal/core/domain"
)

type CatalogUseCase interface {
	ListProducts(ctx context.Context, q domain.ProductQuery) ([]domain.Product, error)
	ProductByID(ctx context.Context, id string) (domain.Product, error)
	ProductByBarcode(ctx context.Context, barcode string) (domain.Product, error)
	CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	SetStock(ctx context.Context, id string, stock int32) error
	DeactivateProduct(ctx context.Context, id string) error
	// ApplyCatalogUpdate upserts a product from the head-office feed.
	ApplyCatalogUpdate(ctx context.Context, u domain.CatalogUpdate) error
	WarmCache(ctx context.Context, limit int) (int, error)
}
