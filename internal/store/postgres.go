package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"promo-service/internal/model"
	"promo-service/internal/promo"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// postgresStore implements Store on top of a pgx connection pool.
type postgresStore struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresStore creates a PostgreSQL-backed promo store.
func NewPostgresStore(pool *pgxpool.Pool, logger zerolog.Logger) Store {
	return &postgresStore{
		pool:   pool,
		logger: logger.With().Str("store", "postgres").Logger(),
	}
}

// EnsureSchema creates the promo_codes table if it does not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	schema := `
		CREATE TABLE IF NOT EXISTS promo_codes (
			code VARCHAR(64) PRIMARY KEY,
			description TEXT NOT NULL DEFAULT '',
			discount DECIMAL(12, 2) NOT NULL,
			discount_type VARCHAR(16) NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			expires_at TIMESTAMPTZ,
			usage_limit INTEGER,
			used_count INTEGER NOT NULL DEFAULT 0,
			min_purchase_amount DECIMAL(12, 2),
			max_discount DECIMAL(12, 2)
		)
	`

	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create promo_codes schema: %w", err)
	}
	return nil
}

const promoColumns = `code, description, discount, discount_type, is_active,
	created_at, expires_at, usage_limit, used_count, min_purchase_amount, max_discount`

func scanPromo(row pgx.Row) (*model.PromoCode, error) {
	var p model.PromoCode
	err := row.Scan(
		&p.Code,
		&p.Description,
		&p.Discount,
		&p.DiscountType,
		&p.IsActive,
		&p.CreatedAt,
		&p.ExpiresAt,
		&p.UsageLimit,
		&p.UsedCount,
		&p.MinPurchaseAmount,
		&p.MaxDiscount,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Get retrieves a promo code. Returns ErrNotFound on a miss.
func (s *postgresStore) Get(ctx context.Context, code string) (*model.PromoCode, error) {
	query := `
		SELECT ` + promoColumns + `
		FROM promo_codes
		WHERE code = $1
	`

	p, err := scanPromo(s.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		s.logger.Error().Err(err).Str("code", code).Msg("failed to query promo code")
		return nil, fmt.Errorf("failed to query promo code: %w", err)
	}

	return p, nil
}

// Put inserts or replaces a promo code record.
func (s *postgresStore) Put(ctx context.Context, p *model.PromoCode) error {
	query := `
		INSERT INTO promo_codes (` + promoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (code) DO UPDATE SET
			description = EXCLUDED.description,
			discount = EXCLUDED.discount,
			discount_type = EXCLUDED.discount_type,
			is_active = EXCLUDED.is_active,
			expires_at = EXCLUDED.expires_at,
			usage_limit = EXCLUDED.usage_limit,
			used_count = EXCLUDED.used_count,
			min_purchase_amount = EXCLUDED.min_purchase_amount,
			max_discount = EXCLUDED.max_discount
	`

	_, err := s.pool.Exec(ctx, query,
		p.Code,
		p.Description,
		p.Discount,
		p.DiscountType,
		p.IsActive,
		p.CreatedAt,
		p.ExpiresAt,
		p.UsageLimit,
		p.UsedCount,
		p.MinPurchaseAmount,
		p.MaxDiscount,
	)
	if err != nil {
		s.logger.Error().Err(err).Str("code", p.Code).Msg("failed to store promo code")
		return fmt.Errorf("failed to store promo code: %w", err)
	}

	s.logger.Debug().Str("code", p.Code).Msg("promo code stored")
	return nil
}

// Delete removes a promo code. Idempotent.
func (s *postgresStore) Delete(ctx context.Context, code string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM promo_codes WHERE code = $1`, code)
	if err != nil {
		s.logger.Error().Err(err).Str("code", code).Msg("failed to delete promo code")
		return fmt.Errorf("failed to delete promo code: %w", err)
	}
	return nil
}

// List returns all promo codes.
func (s *postgresStore) List(ctx context.Context) ([]model.PromoCode, error) {
	query := `
		SELECT ` + promoColumns + `
		FROM promo_codes
		ORDER BY code
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to query promo codes")
		return nil, fmt.Errorf("failed to query promo codes: %w", err)
	}
	defer rows.Close()

	var promos []model.PromoCode
	for rows.Next() {
		p, err := scanPromo(rows)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to scan promo code row")
			return nil, fmt.Errorf("failed to scan promo code: %w", err)
		}
		promos = append(promos, *p)
	}

	if err := rows.Err(); err != nil {
		s.logger.Error().Err(err).Msg("error iterating promo code rows")
		return nil, fmt.Errorf("error iterating promo codes: %w", err)
	}

	return promos, nil
}

// Redeem performs the read-check-increment as a single conditional
// UPDATE so the database serialises concurrent redemptions. When the
// UPDATE matches no row, the record is re-read to report the reason.
func (s *postgresStore) Redeem(ctx context.Context, code string, now time.Time) (*model.PromoCode, error) {
	query := `
		UPDATE promo_codes
		SET used_count = used_count + 1
		WHERE code = $1
		  AND is_active
		  AND (expires_at IS NULL OR expires_at > $2)
		  AND (usage_limit IS NULL OR used_count < usage_limit)
		RETURNING ` + promoColumns

	// The conditional update can lose a race against a concurrent
	// toggle or delete; the re-read then either maps the reason or
	// finds the code redeemable again, in which case we retry.
	for attempt := 0; attempt < 3; attempt++ {
		p, err := scanPromo(s.pool.QueryRow(ctx, query, code, now))
		if err == nil {
			s.logger.Debug().
				Str("code", code).
				Int("used_count", p.UsedCount).
				Msg("promo code redeemed")
			return p, nil
		}

		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().Err(err).Str("code", code).Msg("failed to redeem promo code")
			return nil, fmt.Errorf("failed to redeem promo code: %w", err)
		}

		current, getErr := s.Get(ctx, code)
		if getErr != nil {
			return nil, getErr
		}

		if ruleErr := promo.CheckRedeemable(current, now); ruleErr != nil {
			return nil, ruleErr
		}
	}

	return nil, fmt.Errorf("failed to redeem promo code %s: too many conflicting updates", code)
}
