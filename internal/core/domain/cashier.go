package domain

import "time"

type Role string

const (
	RoleCashier Role = "cashier"
	RoleManager Role = "manager"
)

// Cashier carries no credentials: password hashes live in the database and
// verification happens there too (pgcrypto crypt in the repository query).
type Cashier struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func (c Cashier) CanManageCatalog() bool { return c.Role == RoleManager }

type Session struct {
	Token     string    `json:"-"`
	Cashier   Cashier   `json:"cashier"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
