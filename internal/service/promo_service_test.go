package service

import (
	"context"
	"testing"
	"time"

	"promo-service/internal/model"
	"promo-service/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func timePtr(v time.Time) *time.Time { return &v }

func newTestService(t *testing.T, promos ...*model.PromoCode) (PromoService, store.Store) {
	t.Helper()

	st := store.NewMemoryStore(zerolog.Nop())
	for _, p := range promos {
		require.NoError(t, st.Put(context.Background(), p))
	}

	return NewPromoService(st, "EUR", zerolog.Nop()), st
}

func TestPromoService_Validate_MissingCode(t *testing.T) {
	svc, _ := newTestService(t)

	for _, code := range []string{"", "   ", "\t"} {
		result, err := svc.Validate(context.Background(), code, 100)
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Equal(t, model.ErrMissingCode.Message, result.Message)
	}
}

func TestPromoService_Validate_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	for _, amount := range []float64{0, 100, 1_000_000} {
		result, err := svc.Validate(context.Background(), "NOSUCHCODE", amount)
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Equal(t, model.ErrPromoNotFound.Message, result.Message)
	}
}

func TestPromoService_Validate_CaseInsensitive(t *testing.T) {
	svc, _ := newTestService(t, &model.PromoCode{
		Code:         "START2024",
		Discount:     10,
		DiscountType: model.DiscountPercentage,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	})

	for _, code := range []string{"START2024", "start2024", " Start2024 "} {
		result, err := svc.Validate(context.Background(), code, 1000)
		require.NoError(t, err)
		assert.True(t, result.Valid, "code %q", code)
	}
}

func TestPromoService_Validate_PercentageQuote(t *testing.T) {
	svc, _ := newTestService(t, &model.PromoCode{
		Code:         "START2024",
		Description:  "New year kickoff discount",
		Discount:     10,
		DiscountType: model.DiscountPercentage,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	})

	result, err := svc.Validate(context.Background(), "start2024", 1000)
	require.NoError(t, err)

	assert.True(t, result.Valid)
	assert.Equal(t, "New year kickoff discount", result.Message)
	assert.Equal(t, 10.0, result.Discount)
	assert.Equal(t, model.DiscountPercentage, result.DiscountType)
	assert.Equal(t, "-10%", result.FormattedDiscount)
	assert.Equal(t, 100.0, result.DiscountAmount)
	assert.Equal(t, 900.0, result.FinalAmount)
}

func TestPromoService_Validate_FixedWithMinPurchase(t *testing.T) {
	svc, _ := newTestService(t, &model.PromoCode{
		Code:              "ECOM_BOOST",
		Discount:          500,
		DiscountType:      model.DiscountFixed,
		IsActive:          true,
		CreatedAt:         time.Now().UTC(),
		MinPurchaseAmount: floatPtr(3000),
	})

	t.Run("Below minimum is rejected with the required amount", func(t *testing.T) {
		result, err := svc.Validate(context.Background(), "ecom_boost", 2000)
		require.NoError(t, err)

		assert.False(t, result.Valid)
		assert.Contains(t, result.Message, "3000")
	})

	t.Run("Above minimum yields the flat discount", func(t *testing.T) {
		result, err := svc.Validate(context.Background(), "ecom_boost", 3500)
		require.NoError(t, err)

		assert.True(t, result.Valid)
		assert.Equal(t, 500.0, result.DiscountAmount)
		assert.Equal(t, 3000.0, result.FinalAmount)
		assert.Equal(t, "-500 EUR", result.FormattedDiscount)
	})
}

func TestPromoService_Validate_DoesNotConsumeUsage(t *testing.T) {
	svc, st := newTestService(t, &model.PromoCode{
		Code:         "START2024",
		Discount:     10,
		DiscountType: model.DiscountPercentage,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
		UsageLimit:   intPtr(3),
	})

	for i := 0; i < 10; i++ {
		result, err := svc.Validate(context.Background(), "START2024", 100)
		require.NoError(t, err)
		require.True(t, result.Valid)
	}

	p, err := st.Get(context.Background(), "START2024")
	require.NoError(t, err)
	assert.Equal(t, 0, p.UsedCount)
}

func TestPromoService_Redeem(t *testing.T) {
	t.Run("Success increments usage", func(t *testing.T) {
		svc, st := newTestService(t, &model.PromoCode{
			Code:         "START2024",
			Discount:     10,
			DiscountType: model.DiscountPercentage,
			IsActive:     true,
			CreatedAt:    time.Now().UTC(),
		})

		result, err := svc.Redeem(context.Background(), "start2024", 1000)
		require.NoError(t, err)

		assert.True(t, result.Valid)
		assert.Equal(t, 1, result.UsedCount)
		assert.Equal(t, 100.0, result.DiscountAmount)
		assert.Equal(t, 900.0, result.FinalAmount)

		p, err := st.Get(context.Background(), "START2024")
		require.NoError(t, err)
		assert.Equal(t, 1, p.UsedCount)
	})

	t.Run("Usage limit boundary", func(t *testing.T) {
		svc, st := newTestService(t, &model.PromoCode{
			Code:         "LIMITED3",
			Discount:     10,
			DiscountType: model.DiscountPercentage,
			IsActive:     true,
			CreatedAt:    time.Now().UTC(),
			UsageLimit:   intPtr(3),
			UsedCount:    2,
		})

		result, err := svc.Redeem(context.Background(), "LIMITED3", 100)
		require.NoError(t, err)
		assert.True(t, result.Valid)
		assert.Equal(t, 3, result.UsedCount)

		// The counter is now at the limit; validation must reject.
		validation, err := svc.Validate(context.Background(), "LIMITED3", 100)
		require.NoError(t, err)
		assert.False(t, validation.Valid)
		assert.Equal(t, model.ErrPromoLimitReached.Message, validation.Message)

		p, err := st.Get(context.Background(), "LIMITED3")
		require.NoError(t, err)
		assert.Equal(t, 3, p.UsedCount)
	})

	t.Run("Below minimum purchase does not consume usage", func(t *testing.T) {
		svc, st := newTestService(t, &model.PromoCode{
			Code:              "ECOM_BOOST",
			Discount:          500,
			DiscountType:      model.DiscountFixed,
			IsActive:          true,
			CreatedAt:         time.Now().UTC(),
			MinPurchaseAmount: floatPtr(3000),
		})

		result, err := svc.Redeem(context.Background(), "ECOM_BOOST", 2000)
		require.NoError(t, err)
		assert.False(t, result.Valid)

		p, err := st.Get(context.Background(), "ECOM_BOOST")
		require.NoError(t, err)
		assert.Equal(t, 0, p.UsedCount)
	})

	t.Run("Missing code never reaches the store", func(t *testing.T) {
		svc, _ := newTestService(t)

		result, err := svc.Redeem(context.Background(), "  ", 100)
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Equal(t, model.ErrMissingCode.Message, result.Message)
	})

	t.Run("Unknown code", func(t *testing.T) {
		svc, _ := newTestService(t)

		result, err := svc.Redeem(context.Background(), "NOSUCHCODE", 100)
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Equal(t, model.ErrPromoNotFound.Message, result.Message)
	})
}

func TestPromoService_Add(t *testing.T) {
	t.Run("Normalises code and defaults", func(t *testing.T) {
		svc, st := newTestService(t)

		created, err := svc.Add(context.Background(), &model.PromoCode{
			Code:         "  summer10 ",
			Discount:     10,
			DiscountType: model.DiscountPercentage,
			IsActive:     true,
			UsedCount:    7, // must be reset
		})
		require.NoError(t, err)

		assert.Equal(t, "SUMMER10", created.Code)
		assert.Equal(t, 0, created.UsedCount)
		assert.False(t, created.CreatedAt.IsZero())

		p, err := st.Get(context.Background(), "SUMMER10")
		require.NoError(t, err)
		assert.Equal(t, "SUMMER10", p.Code)
	})

	t.Run("Rejects case-insensitive collision", func(t *testing.T) {
		svc, _ := newTestService(t, &model.PromoCode{
			Code:         "SUMMER10",
			Discount:     10,
			DiscountType: model.DiscountPercentage,
			IsActive:     true,
			CreatedAt:    time.Now().UTC(),
		})

		_, err := svc.Add(context.Background(), &model.PromoCode{
			Code:         "summer10",
			Discount:     20,
			DiscountType: model.DiscountFixed,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrPromoExists)
	})

	t.Run("Rejects invalid records", func(t *testing.T) {
		svc, _ := newTestService(t)

		tests := []struct {
			name  string
			promo model.PromoCode
		}{
			{
				name:  "Zero discount",
				promo: model.PromoCode{Code: "BAD1", Discount: 0, DiscountType: model.DiscountFixed},
			},
			{
				name:  "Unknown discount type",
				promo: model.PromoCode{Code: "BAD2", Discount: 10, DiscountType: "half-off"},
			},
			{
				name:  "Percentage above 100",
				promo: model.PromoCode{Code: "BAD3", Discount: 150, DiscountType: model.DiscountPercentage},
			},
			{
				name:  "Non-positive usage limit",
				promo: model.PromoCode{Code: "BAD4", Discount: 10, DiscountType: model.DiscountFixed, UsageLimit: intPtr(0)},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.Add(context.Background(), &tt.promo)
				require.Error(t, err)

				var domainErr *model.DomainError
				require.ErrorAs(t, err, &domainErr)
				assert.Equal(t, model.ErrCodeInvalidPromo, domainErr.Code)
			})
		}
	})
}

func TestPromoService_Remove(t *testing.T) {
	svc, st := newTestService(t, &model.PromoCode{
		Code:         "SUMMER10",
		Discount:     10,
		DiscountType: model.DiscountPercentage,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	})

	require.NoError(t, svc.Remove(context.Background(), "summer10"))

	_, err := st.Get(context.Background(), "SUMMER10")
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Removing a non-existent code is not an error.
	require.NoError(t, svc.Remove(context.Background(), "summer10"))
}

func TestPromoService_ToggleActive(t *testing.T) {
	svc, _ := newTestService(t, &model.PromoCode{
		Code:         "SUMMER10",
		Discount:     10,
		DiscountType: model.DiscountPercentage,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	})

	updated, err := svc.ToggleActive(context.Background(), "summer10")
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	// Inactive codes are rejected by validation regardless of other rules.
	result, err := svc.Validate(context.Background(), "SUMMER10", 100)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, model.ErrPromoInactive.Message, result.Message)

	updated, err = svc.ToggleActive(context.Background(), "summer10")
	require.NoError(t, err)
	assert.True(t, updated.IsActive)

	_, err = svc.ToggleActive(context.Background(), "NOSUCHCODE")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrPromoNotFound)
}

func TestPromoService_Stats(t *testing.T) {
	svc, _ := newTestService(t,
		&model.PromoCode{
			Code: "A1", Discount: 10, DiscountType: model.DiscountPercentage,
			IsActive: true, CreatedAt: time.Now().UTC(), UsedCount: 3,
		},
		&model.PromoCode{
			Code: "B2", Discount: 20, DiscountType: model.DiscountFixed,
			IsActive: false, CreatedAt: time.Now().UTC(), UsedCount: 2,
		},
		&model.PromoCode{
			Code: "C3", Discount: 30, DiscountType: model.DiscountFixed,
			IsActive: true, CreatedAt: time.Now().UTC(),
		},
	)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Active)
	assert.Equal(t, 1, stats.Inactive)
	assert.Equal(t, 5, stats.TotalRedemptions)
}

func TestPromoService_Validate_ExpiredCode(t *testing.T) {
	svc, _ := newTestService(t, &model.PromoCode{
		Code:         "BYGONE",
		Discount:     10,
		DiscountType: model.DiscountPercentage,
		IsActive:     true,
		CreatedAt:    time.Now().UTC().Add(-48 * time.Hour),
		ExpiresAt:    timePtr(time.Now().UTC().Add(-time.Hour)),
	})

	result, err := svc.Validate(context.Background(), "BYGONE", 100)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, model.ErrPromoExpired.Message, result.Message)
}
