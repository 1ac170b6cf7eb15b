package kafkaout

import (
	"context"

	"github.com/kelvrith2-lang/safiri-sales/internal/core/domain"
)

// Nop satisfies the sale publisher port when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, domain.Sale) {}

func (Nop) Close() error { return nil }
