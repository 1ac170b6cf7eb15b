package domain_test

import (
	"errors"
	"testing"

	"github.com/kelvrith2-lang/safiri-sales/internal/core/domain"
)

func espresso() domain.Product {
	return domain.Product{
		ID:         "prod-espresso",
		Barcode:    "4000000000017",
		Name:       "Espresso Beans 500g",
		Category:   "coffee",
		PriceMinor: 350,
		VATRateBP:  1900,
		Stock:      40,
		MinStock:   5,
		Active:     true,
	}
}

func oatMilk() domain.Product {
	return domain.Product{
		ID:         "prod-oat",
		Barcode:    "4000000000024",
		Name:       "Oat Milk 1l",
		Category:   "dairy",
		PriceMinor: 199,
		VATRateBP:  700,
		Stock:      12,
		MinStock:   6,
		Active:     true,
	}
}

func TestCartAddMergesLines(t *testing.T) {
	var cart domain.Cart

	if err := cart.Add(espresso(), 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := cart.Add(espresso(), 1); err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if err := cart.Add(oatMilk(), 1); err != nil {
		t.Fatalf("add oat milk failed: %v", err)
	}

	if len(cart.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(cart.Lines))
	}
	if cart.Lines[0].Quantity != 2 {
		t.Fatalf("expected merged quantity 2, got %d", cart.Lines[0].Quantity)
	}
}

func TestCartAddRejectsNonPositiveQuantity(t *testing.T) {
	var cart domain.Cart
	if err := cart.Add(espresso(), 0); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if err := cart.Add(espresso(), -3); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestCartSetQuantity(t *testing.T) {
	var cart domain.Cart
	if err := cart.Add(espresso(), 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := cart.SetQuantity("prod-espresso", 5); err != nil {
		t.Fatalf("set quantity failed: %v", err)
	}
	if cart.Lines[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", cart.Lines[0].Quantity)
	}

	// zero removes the line
	if err := cart.SetQuantity("prod-espresso", 0); err != nil {
		t.Fatalf("set zero failed: %v", err)
	}
	if !cart.Empty() {
		t.Fatal("expected empty cart after removing the only line")
	}

	if err := cart.SetQuantity("prod-espresso", 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing line, got %v", err)
	}

	if err := cart.SetQuantity("prod-espresso", -1); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestCartTotals(t *testing.T) {
	var cart domain.Cart
	if err := cart.Add(espresso(), 2); err != nil { // 700 gross, 112 VAT at 19%
		t.Fatalf("add failed: %v", err)
	}
	if err := cart.Add(oatMilk(), 1); err != nil { // 199 gross, 13 VAT at 7%
		t.Fatalf("add failed: %v", err)
	}

	totals := cart.Totals()
	if totals.GrossMinor != 899 {
		t.Fatalf("expected gross 899, got %d", totals.GrossMinor)
	}
	if totals.VATMinor != 125 {
		t.Fatalf("expected vat 125, got %d", totals.VATMinor)
	}
	if totals.NetMinor != 774 {
		t.Fatalf("expected net 774, got %d", totals.NetMinor)
	}
	if totals.Items != 3 {
		t.Fatalf("expected 3 items, got %d", totals.Items)
	}
}

func TestCartCloneIsIndependent(t *testing.T) {
	var cart domain.Cart
	if err := cart.Add(espresso(), 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	clone := cart.Clone()
	clone.Lines[0].Quantity = 99

	if cart.Lines[0].Quantity != 1 {
		t.Fatalf("clone mutation leaked into original: %d", cart.Lines[0].Quantity)
	}
}
