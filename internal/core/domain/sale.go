package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(strings.ToLower(strings.TrimSpace(s))) {
	case PaymentCash:
		return PaymentCash, nil
	case PaymentCard:
		return PaymentCard, nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

// SaleItem is a ledger row: name, price and rate are copied from the cart
// line so later catalog edits cannot rewrite history.
type SaleItem struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	Quantity       int32  `json:"quantity"`
	UnitPriceMinor int64  `json:"unit_price_minor"`
	VATRateBP      int32  `json:"vat_rate_bp"`
	LineTotalMinor int64  `json:"line_total_minor"`
	VATMinor       int64  `json:"vat_minor"`
}

type Sale struct {
	ID            string        `json:"id"`
	ReceiptNumber string        `json:"receipt_number"`
	CashierID     string        `json:"cashier_id"`
	TotalMinor    int64         `json:"total_minor"`
	VATMinor      int64         `json:"vat_minor"`
	Payment       PaymentMethod `json:"payment"`
	CreatedAt     time.Time     `json:"created_at"`
	Items         []SaleItem    `json:"items,omitempty"`
}

// NewSale freezes a cart into a sale. The cart itself is left untouched;
// clearing it is the caller's business and only happens after the insert
// committed.
func NewSale(cart Cart, cashierID string, payment PaymentMethod, now time.Time) (Sale, error) {
	if cart.Empty() {
		return Sale{}, ErrEmptyCart
	}
	if cashierID == "" {
		return Sale{}, errors.New("cashier id is required")
	}
	if payment != PaymentCash && payment != PaymentCard {
		return Sale{}, fmt.Errorf("unknown payment method %q", payment)
	}

	s := Sale{
		ID:            uuid.NewString(),
		ReceiptNumber: NewReceiptNumber(now),
		CashierID:     cashierID,
		Payment:       payment,
		CreatedAt:     now.UTC(),
		Items:         make([]SaleItem, 0, len(cart.Lines)),
	}
	for _, l := range cart.Lines {
		if l.Quantity <= 0 {
			return Sale{}, ErrInvalidQuantity
		}
		item := SaleItem{
			ProductID:      l.ProductID,
			Name:           l.Name,
			Quantity:       l.Quantity,
			UnitPriceMinor: l.UnitPriceMinor,
			VATRateBP:      l.VATRateBP,
			LineTotalMinor: l.GrossMinor(),
			VATMinor:       l.VATMinor(),
		}
		s.TotalMinor += item.LineTotalMinor
		s.VATMinor += item.VATMinor
		s.Items = append(s.Items, item)
	}
	return s, nil
}

// NewReceiptNumber mints an "R-YYYYMMDD-XXXXXXXX" identifier. Uniqueness is
// ultimately the sales table's unique index; callers retry once with a fresh
// number when the insert collides.
func NewReceiptNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("R-%s-%s", now.UTC().Format("20060102"), suffix)
}
