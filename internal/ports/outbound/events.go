package outbound

import (
	"context"

	"github.com/kelvrith2-lang/safiri-sales/internal/core/domain"
)

// SalePublisher pushes completed sales to the store's event feed. Publishing
// is fire-and-forget: implementations must never block or fail a checkout.
type SalePublisher interface {
	Publish(ctx context.Context, sale domain.Sale)
	Close() error
}
