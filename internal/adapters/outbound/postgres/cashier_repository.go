package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kelvrith2-lang/safiri-sales/internal/core/domain"
)

type CashierRepository struct {
	pool *pgxpool.Pool
}

func NewCashierRepository(pool *pgxpool.Pool) *CashierRepository {
	return &CashierRepository{pool: pool}
}

// Authenticate matches the password inside the query with pgcrypto's crypt,
// so hashes never leave the database. A wrong password and an unknown email
// are indistinguishable to the caller.
func (r *CashierRepository) Authenticate(ctx context.Context, email, password string) (domain.Cashier, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, name, role, active, created_at
		FROM cashiers
		WHERE lower(email) = lower($1)
		  AND active
		  AND password_hash = crypt($2, password_hash)
	`, email, password)

	var c domain.Cashier
	err := row.Scan(&c.ID, &c.Email, &c.Name, &c.Role, &c.Active, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Cashier{}, domain.ErrInvalidCredentials
		}
		return domain.Cashier{}, fmt.Errorf("authenticate cashier: %w", err)
	}
	return c, nil
}
