package models

import "github.com/shopspring/decimal"

// SumPrices adds prices in decimal so rollups do not drift.
func SumPrices(prices ...float64) float64 {
	total := decimal.Zero
	for _, p := range prices {
		total = total.Add(decimal.NewFromFloat(p))
	}
	return total.InexactFloat64()
}

// LineTotal returns unitPrice × quantity.
func LineTotal(unitPrice float64, quantity int) float64 {
	return decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(quantity))).InexactFloat64()
}
