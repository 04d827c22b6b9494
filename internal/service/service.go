package service

import (
	"context"

	"promo-service/internal/model"
)

// PromoService defines the operations of the promotion and discount
// engine.
type PromoService interface {
	// Validate checks a raw promo code against the catalog and business
	// rules without consuming a usage. Business-rule rejections come
	// back as a result with Valid=false; only storage failures return
	// an error.
	Validate(ctx context.Context, code string, orderAmount float64) (*model.ValidationResult, error)

	// Redeem validates a promo code and, if it qualifies, atomically
	// increments its usage counter.
	Redeem(ctx context.Context, code string, orderAmount float64) (*model.RedeemResult, error)

	// List returns all promo codes in the catalog.
	List(ctx context.Context) ([]model.PromoCode, error)

	// Add inserts a new promo code. Fails with model.ErrPromoExists on
	// a case-insensitive code collision.
	Add(ctx context.Context, p *model.PromoCode) (*model.PromoCode, error)

	// Remove deletes a promo code. Removing a non-existent code is not
	// an error.
	Remove(ctx context.Context, code string) error

	// ToggleActive flips a promo code's active flag. Fails with
	// model.ErrPromoNotFound if the code does not exist.
	ToggleActive(ctx context.Context, code string) (*model.PromoCode, error)

	// Stats returns derived aggregate counts over the catalog.
	Stats(ctx context.Context) (*model.CatalogStats, error)
}
