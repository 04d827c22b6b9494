package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"promo-service/internal/model"
	"promo-service/internal/promo"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	redisKeyPrefix = "promo:"
	redisIndexKey  = "promo:index"

	// redeemMaxRetries bounds the optimistic WATCH retry loop.
	redeemMaxRetries = 10
)

// redisStore implements Store on top of a Redis client. Each promo
// code is a JSON value under "promo:<CODE>", with the set of known
// codes kept in "promo:index" for listing.
type redisStore struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedisStore creates a Redis-backed promo store.
func NewRedisStore(client *redis.Client, logger zerolog.Logger) Store {
	return &redisStore{
		client: client,
		logger: logger.With().Str("store", "redis").Logger(),
	}
}

func redisKey(code string) string {
	return redisKeyPrefix + code
}

// Get retrieves a promo code. Returns ErrNotFound on a miss.
func (s *redisStore) Get(ctx context.Context, code string) (*model.PromoCode, error) {
	data, err := s.client.Get(ctx, redisKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		s.logger.Error().Err(err).Str("code", code).Msg("failed to get promo code")
		return nil, fmt.Errorf("failed to get promo code: %w", err)
	}

	var p model.PromoCode
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode promo code %s: %w", code, err)
	}

	return &p, nil
}

// Put inserts or replaces a promo code record.
func (s *redisStore) Put(ctx context.Context, p *model.PromoCode) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode promo code %s: %w", p.Code, err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisKey(p.Code), data, 0)
		pipe.SAdd(ctx, redisIndexKey, p.Code)
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("code", p.Code).Msg("failed to store promo code")
		return fmt.Errorf("failed to store promo code: %w", err)
	}

	s.logger.Debug().Str("code", p.Code).Msg("promo code stored")
	return nil
}

// Delete removes a promo code. Idempotent.
func (s *redisStore) Delete(ctx context.Context, code string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, redisKey(code))
		pipe.SRem(ctx, redisIndexKey, code)
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("code", code).Msg("failed to delete promo code")
		return fmt.Errorf("failed to delete promo code: %w", err)
	}
	return nil
}

// List returns all promo codes recorded in the index set.
func (s *redisStore) List(ctx context.Context) ([]model.PromoCode, error) {
	codes, err := s.client.SMembers(ctx, redisIndexKey).Result()
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list promo codes")
		return nil, fmt.Errorf("failed to list promo codes: %w", err)
	}

	promos := make([]model.PromoCode, 0, len(codes))
	for _, code := range codes {
		p, err := s.Get(ctx, code)
		if err != nil {
			// Index and value can briefly disagree while a delete is
			// in flight; skip the missing entry.
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		promos = append(promos, *p)
	}

	return promos, nil
}

// Redeem performs the read-check-increment as an optimistic WATCH
// transaction, retrying on conflicting concurrent updates. After
// redeemMaxRetries conflicts the commit fails rather than risking an
// overshoot of the usage limit.
func (s *redisStore) Redeem(ctx context.Context, code string, now time.Time) (*model.PromoCode, error) {
	key := redisKey(code)
	var updated *model.PromoCode

	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to get promo code: %w", err)
		}

		var p model.PromoCode
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("failed to decode promo code %s: %w", code, err)
		}

		if err := promo.CheckRedeemable(&p, now); err != nil {
			return err
		}

		p.UsedCount++

		encoded, err := json.Marshal(&p)
		if err != nil {
			return fmt.Errorf("failed to encode promo code %s: %w", code, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, 0)
			return nil
		})
		if err != nil {
			return err
		}

		updated = &p
		return nil
	}

	for attempt := 0; attempt < redeemMaxRetries; attempt++ {
		err := s.client.Watch(ctx, txn, key)
		if err == nil {
			s.logger.Debug().
				Str("code", code).
				Int("used_count", updated.UsedCount).
				Msg("promo code redeemed")
			return updated, nil
		}

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}

		var domainErr *model.DomainError
		if errors.Is(err, ErrNotFound) || errors.As(err, &domainErr) {
			return nil, err
		}

		s.logger.Error().Err(err).Str("code", code).Msg("failed to redeem promo code")
		return nil, fmt.Errorf("failed to redeem promo code: %w", err)
	}

	return nil, fmt.Errorf("failed to redeem promo code %s: too many conflicting updates", code)
}
