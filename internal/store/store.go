package store

import (
	"context"
	"errors"
	"time"

	"promo-service/internal/model"
)

// ErrNotFound is returned when a promo code does not exist in the store.
var ErrNotFound = errors.New("promo code not found")

// Store is the key-value persistence boundary for the promo catalog.
// Codes passed in are expected to be in canonical uppercase form.
type Store interface {
	// Get retrieves a promo code. Returns ErrNotFound on a miss.
	Get(ctx context.Context, code string) (*model.PromoCode, error)

	// Put inserts or replaces a promo code record.
	Put(ctx context.Context, promo *model.PromoCode) error

	// Delete removes a promo code. Deleting a non-existent code is not
	// an error.
	Delete(ctx context.Context, code string) error

	// List returns all promo codes. Order is unspecified.
	List(ctx context.Context) ([]model.PromoCode, error)

	// Redeem atomically re-checks that the code is active, unexpired
	// and under its usage limit, then increments the usage counter by
	// exactly one. The check and increment are a single atomic unit so
	// concurrent redemptions can never exceed the limit.
	//
	// Returns the updated record on success, ErrNotFound if the code
	// no longer exists, or a *model.DomainError describing the first
	// failed rule.
	Redeem(ctx context.Context, code string, now time.Time) (*model.PromoCode, error)
}
