package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"promo-service/internal/model"
	"promo-service/internal/promo"
	"promo-service/internal/store"

	"github.com/rs/zerolog"
)

// promoService implements PromoService over a key-value store.
type promoService struct {
	store    store.Store
	currency string
	logger   zerolog.Logger
}

// NewPromoService creates a new promotion service. The currency is used
// only for display strings on fixed discounts.
func NewPromoService(st store.Store, currency string, logger zerolog.Logger) PromoService {
	return &promoService{
		store:    st,
		currency: currency,
		logger:   logger.With().Str("service", "promo").Logger(),
	}
}

// invalidResult recovers a business-rule rejection into a result value.
func invalidResult(err error) *model.ValidationResult {
	return &model.ValidationResult{
		Valid:   false,
		Message: err.Error(),
	}
}

// Validate checks a raw promo code against the catalog without
// consuming a usage.
func (s *promoService) Validate(ctx context.Context, code string, orderAmount float64) (*model.ValidationResult, error) {
	normalized := promo.Normalize(code)
	if normalized == "" {
		return invalidResult(model.ErrMissingCode), nil
	}

	p, err := s.store.Get(ctx, normalized)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.logger.Debug().Str("code", normalized).Msg("promo code not found")
			return invalidResult(model.ErrPromoNotFound), nil
		}
		return nil, fmt.Errorf("failed to look up promo code: %w", err)
	}

	now := time.Now().UTC()
	if ruleErr := promo.CheckRules(p, now, orderAmount); ruleErr != nil {
		s.logger.Debug().
			Str("code", normalized).
			Str("reason", ruleErr.Error()).
			Msg("promo code rejected")
		return invalidResult(ruleErr), nil
	}

	return s.successResult(p, orderAmount), nil
}

// Redeem validates a promo code and atomically consumes one usage.
// The minimum purchase rule is checked up front; the active, expiry and
// limit rules are re-checked inside the store's atomic commit.
func (s *promoService) Redeem(ctx context.Context, code string, orderAmount float64) (*model.RedeemResult, error) {
	normalized := promo.Normalize(code)
	if normalized == "" {
		return &model.RedeemResult{ValidationResult: *invalidResult(model.ErrMissingCode)}, nil
	}

	p, err := s.store.Get(ctx, normalized)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &model.RedeemResult{ValidationResult: *invalidResult(model.ErrPromoNotFound)}, nil
		}
		return nil, fmt.Errorf("failed to look up promo code: %w", err)
	}

	now := time.Now().UTC()
	if ruleErr := promo.CheckRules(p, now, orderAmount); ruleErr != nil {
		return &model.RedeemResult{ValidationResult: *invalidResult(ruleErr)}, nil
	}

	updated, err := s.store.Redeem(ctx, normalized, now)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Deleted between preview and commit.
			return &model.RedeemResult{ValidationResult: *invalidResult(model.ErrPromoNotFound)}, nil
		}

		var domainErr *model.DomainError
		if errors.As(err, &domainErr) {
			s.logger.Debug().
				Str("code", normalized).
				Str("reason", domainErr.Message).
				Msg("promo code redemption rejected at commit")
			return &model.RedeemResult{ValidationResult: *invalidResult(domainErr)}, nil
		}

		return nil, fmt.Errorf("failed to redeem promo code: %w", err)
	}

	s.logger.Info().
		Str("code", normalized).
		Int("used_count", updated.UsedCount).
		Msg("promo code redeemed")

	return &model.RedeemResult{
		ValidationResult: *s.successResult(updated, orderAmount),
		UsedCount:        updated.UsedCount,
	}, nil
}

// successResult builds the valid outcome with the computed quote.
func (s *promoService) successResult(p *model.PromoCode, orderAmount float64) *model.ValidationResult {
	quote := promo.ComputeDiscount(p, orderAmount)

	message := p.Description
	if message == "" {
		message = "Promo code applied"
	}

	return &model.ValidationResult{
		Valid:             true,
		Message:           message,
		Discount:          p.Discount,
		DiscountType:      p.DiscountType,
		FormattedDiscount: promo.FormatDiscount(p, s.currency),
		DiscountAmount:    quote.DiscountAmount,
		FinalAmount:       quote.FinalAmount,
	}
}

// List returns all promo codes in the catalog.
func (s *promoService) List(ctx context.Context) ([]model.PromoCode, error) {
	promos, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list promo codes: %w", err)
	}
	return promos, nil
}

// Add inserts a new promo code after normalising and validating it.
func (s *promoService) Add(ctx context.Context, p *model.PromoCode) (*model.PromoCode, error) {
	record := *p
	record.Code = promo.Normalize(record.Code)
	record.UsedCount = 0
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	if err := record.Validate(); err != nil {
		return nil, model.NewDomainError(model.ErrCodeInvalidPromo, err.Error())
	}

	_, err := s.store.Get(ctx, record.Code)
	if err == nil {
		return nil, model.ErrPromoExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing promo code: %w", err)
	}

	if err := s.store.Put(ctx, &record); err != nil {
		return nil, fmt.Errorf("failed to store promo code: %w", err)
	}

	s.logger.Info().
		Str("code", record.Code).
		Str("discount_type", string(record.DiscountType)).
		Float64("discount", record.Discount).
		Msg("promo code created")

	return &record, nil
}

// Remove deletes a promo code. Idempotent.
func (s *promoService) Remove(ctx context.Context, code string) error {
	normalized := promo.Normalize(code)
	if err := s.store.Delete(ctx, normalized); err != nil {
		return fmt.Errorf("failed to delete promo code: %w", err)
	}

	s.logger.Info().Str("code", normalized).Msg("promo code removed")
	return nil
}

// ToggleActive flips the active flag of a promo code.
func (s *promoService) ToggleActive(ctx context.Context, code string) (*model.PromoCode, error) {
	normalized := promo.Normalize(code)

	p, err := s.store.Get(ctx, normalized)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, model.ErrPromoNotFound
		}
		return nil, fmt.Errorf("failed to look up promo code: %w", err)
	}

	p.IsActive = !p.IsActive
	if err := s.store.Put(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update promo code: %w", err)
	}

	s.logger.Info().
		Str("code", normalized).
		Bool("is_active", p.IsActive).
		Msg("promo code toggled")

	return p, nil
}

// Stats derives aggregate counts from the catalog.
func (s *promoService) Stats(ctx context.Context) (*model.CatalogStats, error) {
	promos, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list promo codes: %w", err)
	}

	stats := &model.CatalogStats{Total: len(promos)}
	for _, p := range promos {
		if p.IsActive {
			stats.Active++
		}
		stats.TotalRedemptions += p.UsedCount
	}
	stats.Inactive = stats.Total - stats.Active

	return stats, nil
}
