package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeMissingCode       = "MISSING_CODE"
	ErrCodePromoNotFound     = "PROMO_NOT_FOUND"
	ErrCodePromoInactive     = "PROMO_INACTIVE"
	ErrCodePromoExpired      = "PROMO_EXPIRED"
	ErrCodePromoLimitReached = "PROMO_LIMIT_REACHED"
	ErrCodeMinPurchaseNotMet = "PROMO_MIN_PURCHASE"
	ErrCodePromoExists       = "PROMO_ALREADY_EXISTS"
	ErrCodeInvalidPromo      = "INVALID_PROMO"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError is an expected, user-facing business-rule outcome.
// It is recovered into a ValidationResult at the service boundary and
// never propagated as an infrastructure failure.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors. Each rejection reason carries a distinct,
// human-readable message.
var (
	ErrMissingCode       = NewDomainError(ErrCodeMissingCode, "Promo code is required")
	ErrPromoNotFound     = NewDomainError(ErrCodePromoNotFound, "Promo code does not exist")
	ErrPromoInactive     = NewDomainError(ErrCodePromoInactive, "Promo code is no longer active")
	ErrPromoExpired      = NewDomainError(ErrCodePromoExpired, "Promo code has expired")
	ErrPromoLimitReached = NewDomainError(ErrCodePromoLimitReached, "Promo code usage limit has been reached")
	ErrPromoExists       = NewDomainError(ErrCodePromoExists, "Promo code already exists")
)

// NewMinPurchaseError builds the minimum-order rejection with the
// required amount included in the message.
func NewMinPurchaseError(minAmount float64) *DomainError {
	return NewDomainError(
		ErrCodeMinPurchaseNotMet,
		fmt.Sprintf("Order must be at least %.2f to use this promo code", minAmount),
	)
}
