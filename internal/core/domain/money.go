package domain

import "fmt"

// Prices are VAT-inclusive and carried in minor units (cents). VAT rates are
// carried in basis points so fractional percentages (5.5%) survive integer math.

// MaxVATRateBP caps a per-product rate at 100%.
const MaxVATRateBP = 10000

// VATFromGross extracts the tax portion of a VAT-inclusive amount, rounded
// half-up. Receipts show VAT per line, so rounding happens per line too.
func VATFromGross(grossMinor int64, rateBP int32) int64 {
	if grossMinor <= 0 || rateBP <= 0 {
		return 0
	}
	div := int64(10000) + int64(rateBP)
	return (grossMinor*int64(rateBP) + div/2) / div
}

// FormatMinor renders a minor-unit amount as a decimal string ("12.30").
// Display-only; money never leaves integer form in computations.
func FormatMinor(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}
