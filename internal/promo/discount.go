package promo

import (
	"math"

	"promo-service/internal/model"
)

// Quote is the monetary outcome of applying a promo code to an order.
type Quote struct {
	DiscountAmount float64 `json:"discountAmount"`
	FinalAmount    float64 `json:"finalAmount"`
}

// ComputeDiscount converts a validated promo code and an order amount
// into a concrete discount and final price.
//
// Percentage discounts are taken from the order amount and clamped to
// the code's MaxDiscount when one is set. Fixed discounts are flat and
// independent of the order amount. The final amount never goes below
// zero. Both outputs are rounded to two decimal places.
func ComputeDiscount(p *model.PromoCode, orderAmount float64) Quote {
	var discount float64

	switch p.DiscountType {
	case model.DiscountPercentage:
		discount = orderAmount * p.Discount / 100
		if p.MaxDiscount != nil && discount > *p.MaxDiscount {
			discount = *p.MaxDiscount
		}
	case model.DiscountFixed:
		discount = p.Discount
	}

	discount = round2(discount)

	final := round2(orderAmount - discount)
	if final < 0 {
		final = 0
	}

	return Quote{
		DiscountAmount: discount,
		FinalAmount:    final,
	}
}

// round2 rounds to two decimal places for currency-safe output.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
