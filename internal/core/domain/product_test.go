package domain_test

import (
	"testing"

	"github.com/kelvrith2-lang/safiri-sales/internal/core/domain"
)

func TestProductValidate(t *testing.T) {
	cases := []struct {
		name    string
		mut     func(p *domain.Product)
		wantErr bool
	}{
		{name: "valid", mut: func(p *domain.Product) {}},
		{name: "missing barcode", mut: func(p *domain.Product) { p.Barcode = "  " }, wantErr: true},
		{name: "missing name", mut: func(p *domain.Product) { p.Name = "" }, wantErr: true},
		{name: "negative price", mut: func(p *domain.Product) { p.PriceMinor = -1 }, wantErr: true},
		{name: "rate above cap", mut: func(p *domain.Product) { p.VATRateBP = 10001 }, wantErr: true},
		{name: "negative rate", mut: func(p *domain.Product) { p.VATRateBP = -1 }, wantErr: true},
		{name: "negative min stock", mut: func(p *domain.Product) { p.MinStock = -2 }, wantErr: true},
		{name: "zero price allowed", mut: func(p *domain.Product) { p.PriceMinor = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := espresso()
			tc.mut(&p)
			err := p.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestProductStockFlags(t *testing.T) {
	p := espresso()

	p.Stock, p.MinStock = 10, 5
	if p.LowStock() || p.OutOfStock() {
		t.Fatal("healthy stock flagged")
	}

	p.Stock = 5
	if !p.LowStock() {
		t.Fatal("stock at min level should be low")
	}

	p.Stock = 0
	if !p.OutOfStock() || p.LowStock() {
		t.Fatal("zero stock should be out, not low")
	}

	// negative stock: oversold by unguarded decrements
	p.Stock = -3
	if !p.OutOfStock() {
		t.Fatal("negative stock should count as out of stock")
	}
}

func TestCatalogUpdateValidate(t *testing.T) {
	valid := domain.CatalogUpdate{
		Barcode:    "4000000000031",
		Name:       "Rooibos Tea 20ct",
		Category:   "tea",
		PriceMinor: 289,
		VATRateBP:  700,
		StockDelta: 24,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid update rejected: %v", err)
	}

	cases := []struct {
		name string
		mut  func(u *domain.CatalogUpdate)
	}{
		{name: "missing barcode", mut: func(u *domain.CatalogUpdate) { u.Barcode = "" }},
		{name: "missing name", mut: func(u *domain.CatalogUpdate) { u.Name = " " }},
		{name: "negative price", mut: func(u *domain.CatalogUpdate) { u.PriceMinor = -10 }},
		{name: "rate out of range", mut: func(u *domain.CatalogUpdate) { u.VATRateBP = 20000 }},
		{name: "negative min stock", mut: func(u *domain.CatalogUpdate) { m := int32(-1); u.MinStock = &m }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := valid
			tc.mut(&u)
			if err := u.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
