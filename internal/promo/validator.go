package promo

import (
	"context"
	"fmt"

	"mercadito/internal/model"

	"github.com/rs/zerolog"
)

// validator implements Validator against a code set loaded once at startup.
// The set is read-only after initialization, so lookups need no locking.
type validator struct {
	codes           CodeSet
	discountPercent int
	logger          zerolog.Logger
}

// ValidatorConfig holds configuration for the promo validator.
type ValidatorConfig struct {
	// FilePath is the promo code file to load (local path or S3 key).
	FilePath string

	// DiscountPercent is the discount granted by any valid code.
	DiscountPercent int
}

// NewValidator creates a new promo validator, loading the code file at
// initialization time.
func NewValidator(ctx context.Context, cfg ValidatorConfig, loader Loader, logger zerolog.Logger) (Validator, error) {
	logger = logger.With().Str("component", "promo-validator").Logger()

	if cfg.DiscountPercent < 0 || cfg.DiscountPercent > 100 {
		return nil, fmt.Errorf("invalid discount percent: %d", cfg.DiscountPercent)
	}

	set, err := loader.Load(ctx, cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load promo codes: %w", err)
	}

	logger.Info().
		Int("code_count", set.Size()).
		Int("discount_percent", cfg.DiscountPercent).
		Msg("promo validator initialised")

	return &validator{
		codes:           set,
		discountPercent: cfg.DiscountPercent,
		logger:          logger,
	}, nil
}

// Validate checks a promo code and returns the discount percent it grants.
// Codes are 8 to 10 characters; anything else is rejected before the lookup.
func (v *validator) Validate(ctx context.Context, code string) (int, error) {
	if len(code) < 8 || len(code) > 10 {
		v.logger.Debug().
			Str("promo_code", code).
			Int("length", len(code)).
			Msg("promo code length invalid")
		return 0, model.ErrInvalidPromoCode
	}

	if !v.codes.Contains(code) {
		v.logger.Debug().Str("promo_code", code).Msg("promo code not found")
		return 0, model.ErrInvalidPromoCode
	}

	v.logger.Debug().Str("promo_code", code).Msg("promo code validated")

	return v.discountPercent, nil
}

// Close releases the code set so its memory can be reclaimed.
func (v *validator) Close() error {
	v.codes = nil
	v.logger.Info().Msg("promo validator closed")
	return nil
}

// disabledValidator rejects every code. Used when the promo feature is off,
// so an order carrying a code gets an explicit rejection instead of a
// silently ignored discount.
type disabledValidator struct{}

// NewDisabledValidator creates a validator that rejects all codes.
func NewDisabledValidator() Validator {
	return disabledValidator{}
}

func (disabledValidator) Validate(context.Context, string) (int, error) {
	return 0, model.ErrInvalidPromoCode
}

func (disabledValidator) Close() error { return nil }
