package utils

import "math"

const (
	TaxRate               = 0.08
	FlatShippingFee       = 10.0
	FreeShippingThreshold = 100.0
)

type OrderSummary struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// Round2 rounds a dollar amount to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Summarize derives tax, shipping and total from a subtotal. Orders at or
// above the free-shipping threshold ship free, everything else pays the flat
// fee.
func Summarize(subtotal float64) OrderSummary {
	subtotal = Round2(subtotal)
	tax := Round2(subtotal * TaxRate)
	shipping := FlatShippingFee
	if subtotal >= FreeShippingThreshold {
		shipping = 0
	}
	return OrderSummary{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    Round2(subtotal + tax + shipping),
	}
}
