package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"promo-service/internal/promo"
	"promo-service/internal/store"

	"github.com/rs/zerolog"
)

// Seeder populates the promo store from a seed file at startup.
type Seeder struct {
	store  store.Store
	logger zerolog.Logger
}

// NewSeeder creates a new catalog seeder.
func NewSeeder(st store.Store, logger zerolog.Logger) *Seeder {
	return &Seeder{
		store:  st,
		logger: logger.With().Str("component", "catalog-seeder").Logger(),
	}
}

// Seed loads promo records through the given loader and inserts the
// ones missing from the store. Records are normalised and validated
// before insert; existing codes are never overwritten, so redeploys do
// not reset usage counters. Invalid records are skipped with a warning
// rather than failing the whole seed.
func (s *Seeder) Seed(ctx context.Context, loader Loader, path string) error {
	promos, err := loader.Load(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to load promo seed: %w", err)
	}

	inserted := 0
	skipped := 0

	for i := range promos {
		p := promos[i]
		p.Code = promo.Normalize(p.Code)
		if p.CreatedAt.IsZero() {
			p.CreatedAt = time.Now().UTC()
		}

		if err := p.Validate(); err != nil {
			s.logger.Warn().
				Err(err).
				Str("code", p.Code).
				Msg("skipping invalid seed record")
			skipped++
			continue
		}

		_, err := s.store.Get(ctx, p.Code)
		if err == nil {
			skipped++
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("failed to check for existing promo code %s: %w", p.Code, err)
		}

		if err := s.store.Put(ctx, &p); err != nil {
			return fmt.Errorf("failed to seed promo code %s: %w", p.Code, err)
		}
		inserted++
	}

	s.logger.Info().
		Int("inserted", inserted).
		Int("skipped", skipped).
		Msg("promo catalog seeded")

	return nil
}
