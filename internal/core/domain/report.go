package domain

import "time"

// DailySummary aggregates one store day, [00:00, 00:00+24h) in store-local time.
type DailySummary struct {
	Day        time.Time `json:"day"`
	SaleCount  int64     `json:"sale_count"`
	ItemsSold  int64     `json:"items_sold"`
	GrossMinor int64     `json:"gross_minor"`
	VATMinor   int64     `json:"vat_minor"`
}

// AverageSaleMinor is zero for a day without sales.
func (s DailySummary) AverageSaleMinor() int64 {
	if s.SaleCount == 0 {
		return 0
	}
	return s.GrossMinor / s.SaleCount
}

type TopProduct struct {
	ProductID    string `json:"product_id"`
	Name         string `json:"name"`
	QuantitySold int64  `json:"quantity_sold"`
	GrossMinor   int64  `json:"gross_minor"`
}

// InventoryHealth is the dashboard's stock panel. Oversold counts products
// whose stock went negative thanks to unguarded checkout decrements.
type InventoryHealth struct {
	ActiveProducts int       `json:"active_products"`
	OutOfStock     int       `json:"out_of_stock"`
	Oversold       int       `json:"oversold"`
	LowStock       []Product `json:"low_stock"`
}
