package outbound

import (
	"context"

	"github.com/kelvrith2-lang/safiri-sales/internal/core/domain"
)

type ProductCache interface {
	GetByID(ctx context.Context, id string) (domain.Product, bool)
	GetByBarcode(ctx context.Context, barcode string) (domain.Product, bool)
	Set(ctx context.Context, p domain.Product)
	BulkSet(ctx context.Context, ps []domain.Product)
	Invalidate(ctx context.Context, id string)
	Len(ctx context.Context) int
}
