package inbound

import (
	"context"

	"github.com/kelvrith2-lang/safiri-sales/internal/core/domain"
)

type CheckoutUseCase interface {
	// Scan resolves a barcode and adds one unit to the session's cart. The
	// scanned product comes back so the UI can toast name and stock warnings.
	Scan(ctx context.Context, sessionToken, barcode string) (domain.Cart, domain.Product, error)
	SetQuantity(ctx context.Context, sessionToken, productID string, qty int32) (domain.Cart, error)
	ClearCart(ctx context.Context, sessionToken string) error
	Cart(ctx context.Context, sessionToken string) (domain.Cart, error)
	// Checkout records the sale (one transaction), then decrements stock with
	// independent writes and publishes the sale event best-effort.
	Checkout(ctx context.Context, sessionToken, cashierID string, payment domain.PaymentMethod) (domain.Sale, error)
}
