package promo

import (
	"testing"

	"promo-service/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestComputeDiscount_Percentage(t *testing.T) {
	tests := []struct {
		name             string
		discount         float64
		maxDiscount      *float64
		orderAmount      float64
		expectedDiscount float64
		expectedFinal    float64
	}{
		{
			name:             "Ten percent of 1000",
			discount:         10,
			orderAmount:      1000,
			expectedDiscount: 100,
			expectedFinal:    900,
		},
		{
			name:             "Percentage of zero amount is zero",
			discount:         10,
			orderAmount:      0,
			expectedDiscount: 0,
			expectedFinal:    0,
		},
		{
			name:             "Cap clamps the discount",
			discount:         20,
			maxDiscount:      floatPtr(150),
			orderAmount:      1000,
			expectedDiscount: 150,
			expectedFinal:    850,
		},
		{
			name:             "Cap above computed discount has no effect",
			discount:         20,
			maxDiscount:      floatPtr(500),
			orderAmount:      1000,
			expectedDiscount: 200,
			expectedFinal:    800,
		},
		{
			name:             "Result is rounded to two decimals",
			discount:         15,
			orderAmount:      99.99,
			expectedDiscount: 15,
			expectedFinal:    84.99,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &model.PromoCode{
				Discount:     tt.discount,
				DiscountType: model.DiscountPercentage,
				MaxDiscount:  tt.maxDiscount,
			}

			quote := ComputeDiscount(p, tt.orderAmount)

			assert.Equal(t, tt.expectedDiscount, quote.DiscountAmount)
			assert.Equal(t, tt.expectedFinal, quote.FinalAmount)
		})
	}
}

func TestComputeDiscount_Fixed(t *testing.T) {
	tests := []struct {
		name             string
		discount         float64
		orderAmount      float64
		expectedDiscount float64
		expectedFinal    float64
	}{
		{
			name:             "Flat discount independent of amount",
			discount:         500,
			orderAmount:      3500,
			expectedDiscount: 500,
			expectedFinal:    3000,
		},
		{
			name:             "Discount above amount clamps final to zero",
			discount:         500,
			orderAmount:      200,
			expectedDiscount: 500,
			expectedFinal:    0,
		},
		{
			name:             "Discount equal to amount",
			discount:         200,
			orderAmount:      200,
			expectedDiscount: 200,
			expectedFinal:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &model.PromoCode{
				Discount:     tt.discount,
				DiscountType: model.DiscountFixed,
			}

			quote := ComputeDiscount(p, tt.orderAmount)

			assert.Equal(t, tt.expectedDiscount, quote.DiscountAmount)
			assert.Equal(t, tt.expectedFinal, quote.FinalAmount)
		})
	}
}

func TestComputeDiscount_CapNeverExceeded(t *testing.T) {
	maxDiscount := 75.0
	p := &model.PromoCode{
		Discount:     25,
		DiscountType: model.DiscountPercentage,
		MaxDiscount:  &maxDiscount,
	}

	for _, amount := range []float64{0, 1, 100, 299.99, 300, 301, 10_000, 1_000_000} {
		quote := ComputeDiscount(p, amount)
		assert.LessOrEqual(t, quote.DiscountAmount, maxDiscount, "amount %v", amount)
		assert.GreaterOrEqual(t, quote.FinalAmount, 0.0, "amount %v", amount)
	}
}
