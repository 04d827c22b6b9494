package store

import (
	"context"
	"sync"
	"time"

	"promo-service/internal/model"
	"promo-service/internal/promo"

	"github.com/rs/zerolog"
)

// memoryStore implements Store with an in-process map. It is the
// default backend for development and tests.
type memoryStore struct {
	mu     sync.RWMutex
	promos map[string]*model.PromoCode
	logger zerolog.Logger
}

// NewMemoryStore creates an empty in-memory promo store.
func NewMemoryStore(logger zerolog.Logger) Store {
	return &memoryStore{
		promos: make(map[string]*model.PromoCode),
		logger: logger.With().Str("store", "memory").Logger(),
	}
}

// Get retrieves a promo code. Returns ErrNotFound on a miss.
func (s *memoryStore) Get(ctx context.Context, code string) (*model.PromoCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.promos[code]
	if !ok {
		return nil, ErrNotFound
	}

	cp := *p
	return &cp, nil
}

// Put inserts or replaces a promo code record.
func (s *memoryStore) Put(ctx context.Context, p *model.PromoCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *p
	s.promos[cp.Code] = &cp

	s.logger.Debug().Str("code", cp.Code).Msg("promo code stored")
	return nil
}

// Delete removes a promo code. Idempotent.
func (s *memoryStore) Delete(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.promos, code)
	return nil
}

// List returns all promo codes.
func (s *memoryStore) List(ctx context.Context) ([]model.PromoCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	promos := make([]model.PromoCode, 0, len(s.promos))
	for _, p := range s.promos {
		promos = append(promos, *p)
	}
	return promos, nil
}

// Redeem performs the read-check-increment under the store lock so the
// usage limit can never be exceeded by concurrent redemptions.
func (s *memoryStore) Redeem(ctx context.Context, code string, now time.Time) (*model.PromoCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.promos[code]
	if !ok {
		return nil, ErrNotFound
	}

	if err := promo.CheckRedeemable(p, now); err != nil {
		return nil, err
	}

	p.UsedCount++

	s.logger.Debug().
		Str("code", code).
		Int("used_count", p.UsedCount).
		Msg("promo code redeemed")

	cp := *p
	return &cp, nil
}
