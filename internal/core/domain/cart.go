package domain

// CartLine snapshots the product at scan time. Price or VAT changes landing
// after the scan do not retroactively change an open cart.
type CartLine struct {
	ProductID      string `json:"product_id"`
	Barcode        string `json:"barcode"`
	Name           string `json:"name"`
	UnitPriceMinor int64  `json:"unit_price_minor"`
	VATRateBP      int32  `json:"vat_rate_bp"`
	Quantity       int32  `json:"quantity"`
}

func (l CartLine) GrossMinor() int64 { return l.UnitPriceMinor * int64(l.Quantity) }

func (l CartLine) VATMinor() int64 { return VATFromGross(l.GrossMinor(), l.VATRateBP) }

type CartTotals struct {
	GrossMinor int64 `json:"gross_minor"`
	VATMinor   int64 `json:"vat_minor"`
	NetMinor   int64 `json:"net_minor"`
	Items      int32 `json:"items"`
}

// Cart accumulates scanned lines for one session. Methods mutate in place;
// the cart store hands out copies, so callers never share a Cart.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// Add merges qty units of p into the cart, appending a new line for products
// not seen yet.
func (c *Cart) Add(p Product, qty int32) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == p.ID {
			c.Lines[i].Quantity += qty
			return nil
		}
	}
	c.Lines = append(c.Lines, CartLine{
		ProductID:      p.ID,
		Barcode:        p.Barcode,
		Name:           p.Name,
		UnitPriceMinor: p.PriceMinor,
		VATRateBP:      p.VATRateBP,
		Quantity:       qty,
	})
	return nil
}

// SetQuantity replaces a line's quantity; zero removes the line.
func (c *Cart) SetQuantity(productID string, qty int32) error {
	if qty < 0 {
		return ErrInvalidQuantity
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID != productID {
			continue
		}
		if qty == 0 {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return nil
		}
		c.Lines[i].Quantity = qty
		return nil
	}
	return ErrNotFound
}

func (c *Cart) Clear() { c.Lines = nil }

func (c Cart) Empty() bool { return len(c.Lines) == 0 }

func (c Cart) Totals() CartTotals {
	var t CartTotals
	for _, l := range c.Lines {
		t.GrossMinor += l.GrossMinor()
		t.VATMinor += l.VATMinor()
		t.Items += l.Quantity
	}
	t.NetMinor = t.GrossMinor - t.VATMinor
	return t
}

// Clone returns an independent copy, so stored carts are never aliased.
func (c Cart) Clone() Cart {
	if len(c.Lines) == 0 {
		return Cart{}
	}
	lines := make([]CartLine, len(c.Lines))
	copy(lines, c.Lines)
	return Cart{Lines: lines}
}
