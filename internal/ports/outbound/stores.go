package outbound

import (
	"context"
	"time"

	"github.com/kelvrith2-lang/safiri-sales/internal/core/domain"
)

// SessionStore holds live cashier sessions. Sessions are in-memory only:
// a restart logs everyone out, which is acceptable for a till.
type SessionStore interface {
	Put(ctx context.Context, s domain.Session)
	Get(ctx context.Context, token string) (domain.Session, bool)
	Delete(ctx context.Context, token string)
	// Sweep drops expired sessions and returns how many were removed.
	Sweep(ctx context.Context, now time.Time) int
	Len(ctx context.Context) int
}

// CartStore keys open carts by session token. A cart dies with its session.
type CartStore interface {
	Get(ctx context.Context, sessionToken string) domain.Cart
	Put(ctx context.Context, sessionToken string, cart domain.Cart)
	Delete(ctx context.Context, sessionToken string)
}
