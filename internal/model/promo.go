package model

import (
	"fmt"
	"time"
)

// DiscountType describes how a promo code's discount value is interpreted.
type DiscountType string

const (
	// DiscountPercentage applies the discount as a percentage of the order amount.
	DiscountPercentage DiscountType = "percentage"
	// DiscountFixed applies the discount as a flat currency amount.
	DiscountFixed DiscountType = "fixed"
)

// Valid reports whether the discount type is a known value.
func (t DiscountType) Valid() bool {
	return t == DiscountPercentage || t == DiscountFixed
}

// PromoCode represents a single promotional offer in the catalog.
// The Code field is stored in canonical uppercase form and is unique
// within the catalog.
type PromoCode struct {
	Code              string       `json:"code" db:"code"`
	Description       string       `json:"description,omitempty" db:"description"`
	Discount          float64      `json:"discount" db:"discount"`
	DiscountType      DiscountType `json:"discountType" db:"discount_type"`
	IsActive          bool         `json:"isActive" db:"is_active"`
	CreatedAt         time.Time    `json:"createdAt" db:"created_at"`
	ExpiresAt         *time.Time   `json:"expiresAt,omitempty" db:"expires_at"`
	UsageLimit        *int         `json:"usageLimit,omitempty" db:"usage_limit"`
	UsedCount         int          `json:"usedCount" db:"used_count"`
	MinPurchaseAmount *float64     `json:"minPurchaseAmount,omitempty" db:"min_purchase_amount"`
	MaxDiscount       *float64     `json:"maxDiscount,omitempty" db:"max_discount"`
}

// Validate checks structural invariants of a promo code record.
// It is called at add and seed-load time so that malformed records
// never enter the catalog.
func (p *PromoCode) Validate() error {
	if p.Code == "" {
		return fmt.Errorf("promo code is required")
	}

	if p.Discount <= 0 {
		return fmt.Errorf("discount must be greater than zero")
	}

	if !p.DiscountType.Valid() {
		return fmt.Errorf("invalid discount type: %q (must be percentage or fixed)", p.DiscountType)
	}

	if p.DiscountType == DiscountPercentage && p.Discount > 100 {
		return fmt.Errorf("percentage discount cannot exceed 100, got %v", p.Discount)
	}

	if p.UsageLimit != nil && *p.UsageLimit <= 0 {
		return fmt.Errorf("usage limit must be greater than zero")
	}

	if p.UsedCount < 0 {
		return fmt.Errorf("used count cannot be negative")
	}

	if p.MinPurchaseAmount != nil && *p.MinPurchaseAmount <= 0 {
		return fmt.Errorf("minimum purchase amount must be greater than zero")
	}

	if p.MaxDiscount != nil && *p.MaxDiscount <= 0 {
		return fmt.Errorf("max discount must be greater than zero")
	}

	return nil
}

// ValidationResult is the outcome of checking a promo code against the
// catalog and business rules. Business-rule rejections are reported here
// with Valid=false rather than as errors.
type ValidationResult struct {
	Valid             bool         `json:"valid"`
	Message           string       `json:"message"`
	Discount          float64      `json:"discount,omitempty"`
	DiscountType      DiscountType `json:"discountType,omitempty"`
	FormattedDiscount string       `json:"formattedDiscount,omitempty"`
	DiscountAmount    float64      `json:"discountAmount"`
	FinalAmount       float64      `json:"finalAmount"`
}

// RedeemResult is the outcome of a usage commit. On success UsedCount
// reflects the counter after the increment.
type RedeemResult struct {
	ValidationResult
	UsedCount int `json:"usedCount,omitempty"`
}

// CatalogStats holds derived aggregate counts over the promo catalog.
type CatalogStats struct {
	Total            int `json:"total"`
	Active           int `json:"active"`
	Inactive         int `json:"inactive"`
	TotalRedemptions int `json:"totalRedemptions"`
}
