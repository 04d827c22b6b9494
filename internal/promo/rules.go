package promo

import (
	"strconv"
	"strings"
	"time"

	"promo-service/internal/model"
)

// Normalize converts a raw promo code into its canonical catalog form:
// trimmed and uppercased. Lookups are case-insensitive because every
// inbound code passes through here before touching the catalog.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CheckRules evaluates the business rules for a promo code against the
// given order amount. Rules are checked in a fixed order and the first
// failure wins:
//  1. the code must be active
//  2. the code must not be expired
//  3. the usage limit must not be exhausted
//  4. the order amount must meet the minimum purchase requirement
//
// A code whose expiry equals now is treated as expired.
// CheckRules is pure: it never mutates the record.
func CheckRules(p *model.PromoCode, now time.Time, orderAmount float64) error {
	if err := CheckRedeemable(p, now); err != nil {
		return err
	}

	if p.MinPurchaseAmount != nil && orderAmount < *p.MinPurchaseAmount {
		return model.NewMinPurchaseError(*p.MinPurchaseAmount)
	}

	return nil
}

// CheckRedeemable evaluates only the rules that must hold again at
// commit time: active, not expired, usage limit not exhausted. Stores
// re-run this check inside their atomic increment so that two
// concurrent redemptions cannot push UsedCount past the limit.
func CheckRedeemable(p *model.PromoCode, now time.Time) error {
	if !p.IsActive {
		return model.ErrPromoInactive
	}

	if p.ExpiresAt != nil && !now.Before(*p.ExpiresAt) {
		return model.ErrPromoExpired
	}

	if p.UsageLimit != nil && p.UsedCount >= *p.UsageLimit {
		return model.ErrPromoLimitReached
	}

	return nil
}

// FormatDiscount renders a display string for a promo code's discount:
// "-10%" for percentage discounts, "-500 EUR" for fixed ones.
func FormatDiscount(p *model.PromoCode, currency string) string {
	value := strconv.FormatFloat(p.Discount, 'f', -1, 64)

	if p.DiscountType == model.DiscountPercentage {
		return "-" + value + "%"
	}
	return "-" + value + " " + currency
}
