package domain

import (
	"errors"
	"strings"
	"time"
)

type Product struct {
	ID         string    `json:"id"`
	Barcode    string    `json:"barcode"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	PriceMinor int64     `json:"price_minor"`
	VATRateBP  int32     `json:"vat_rate_bp"`
	Stock      int32     `json:"stock"`
	MinStock   int32     `json:"min_stock"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (p Product) Validate() error {
	if strings.TrimSpace(p.Barcode) == "" {
		return errors.New("product barcode is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("product name is required")
	}
	if p.PriceMinor < 0 {
		return errors.New("product price must not be negative")
	}
	if p.VATRateBP < 0 || p.VATRateBP > MaxVATRateBP {
		return errors.New("product vat rate out of range")
	}
	if p.MinStock < 0 {
		return errors.New("product min stock must not be negative")
	}
	return nil
}

// Stock may legitimately be negative: checkout decrements are independent
// writes with no guard, so overselling shows up as stock below zero.
func (p Product) OutOfStock() bool { return p.Stock <= 0 }

func (p Product) LowStock() bool { return p.Stock > 0 && p.Stock <= p.MinStock }

// ProductQuery narrows catalog listings. Zero value lists all active products.
type ProductQuery struct {
	Search          string // matches name or barcode, case-insensitive
	Category        string
	IncludeInactive bool
	Limit           int
}

// CatalogUpdate is one message on the head-office catalog feed. Price, rate,
// name and category replace the stored values; StockDelta adjusts the count
// (deliveries are positive, corrections may be negative).
type CatalogUpdate struct {
	Barcode    string `json:"barcode"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	PriceMinor int64  `json:"price_minor"`
	VATRateBP  int32  `json:"vat_rate_bp"`
	StockDelta int32  `json:"stock_delta"`
	MinStock   *int32 `json:"min_stock,omitempty"`
}

func (u CatalogUpdate) Validate() error {
	if strings.TrimSpace(u.Barcode) == "" {
		return errors.New("catalog update barcode is required")
	}
	if strings.TrimSpace(u.Name) == "" {
		return errors.New("catalog update name is required")
	}
	if u.PriceMinor < 0 {
		return errors.New("catalog update price must not be negative")
	}
	if u.VATRateBP < 0 || u.VATRateBP > MaxVATRateBP {
		return errors.New("catalog update vat rate out of range")
	}
	if u.MinStock != nil && *u.MinStock < 0 {
		return errors.New("catalog update min stock must not be negative")
	}
	return nil
}
