package inbound

import (
	"context"

	"github.com/kelvrith2-lang/safiri-sales/internal/core/domain"
)

type AuthUseCase interface {
	// Login verifies credentials against the database and mints a session.
	Login(ctx context.Context, email, password string) (domain.Session, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (domain.Session, error)
}
