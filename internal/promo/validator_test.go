package promo

import (
	"context"
	"testing"

	"mercadito/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidator_Success(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	filePath := createTestPromoFile(t, "promos.gz", []string{"VERANO2026", "PROMO12345"})

	validator, err := NewValidator(ctx, ValidatorConfig{
		FilePath:        filePath,
		DiscountPercent: 10,
	}, NewFileLoader(logger), logger)

	require.NoError(t, err)
	require.NotNil(t, validator)
	assert.NoError(t, validator.Close())
}

func TestNewValidator_FileLoadError(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	validator, err := NewValidator(ctx, ValidatorConfig{
		FilePath:        "/nonexistent/promos.gz",
		DiscountPercent: 10,
	}, NewFileLoader(logger), logger)

	require.Error(t, err)
	assert.Nil(t, validator)
	assert.Contains(t, err.Error(), "failed to load promo codes")
}

func TestNewValidator_InvalidDiscountPercent(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	filePath := createTestPromoFile(t, "promos.gz", []string{"VERANO2026"})

	for _, percent := range []int{-1, 101} {
		validator, err := NewValidator(ctx, ValidatorConfig{
			FilePath:        filePath,
			DiscountPercent: percent,
		}, NewFileLoader(logger), logger)

		require.Error(t, err)
		assert.Nil(t, validator)
	}
}

func TestValidator_Validate(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	filePath := createTestPromoFile(t, "promos.gz", []string{
		"VERANO2026",
		"PROMO12345",
		"OCHOCHAR8",
	})

	validator, err := NewValidator(ctx, ValidatorConfig{
		FilePath:        filePath,
		DiscountPercent: 15,
	}, NewFileLoader(logger), logger)
	require.NoError(t, err)
	defer validator.Close()

	tests := []struct {
		name      string
		promoCode string
		expectErr error
	}{
		{"known 10-char code", "VERANO2026", nil},
		{"known 9-char code", "OCHOCHAR8", nil},
		{"unknown code", "NOEXISTE99", model.ErrInvalidPromoCode},
		{"too short", "CORTO", model.ErrInvalidPromoCode},
		{"too long", "DEMASIADOLARGO1", model.ErrInvalidPromoCode},
		{"empty code", "", model.ErrInvalidPromoCode},
		{"wrong case", "verano2026", model.ErrInvalidPromoCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			percent, err := validator.Validate(ctx, tt.promoCode)

			if tt.expectErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectErr)
				assert.Equal(t, 0, percent)
			} else {
				require.NoError(t, err)
				assert.Equal(t, 15, percent)
			}
		})
	}
}

func TestDisabledValidator_RejectsEverything(t *testing.T) {
	ctx := context.Background()
	validator := NewDisabledValidator()

	percent, err := validator.Validate(ctx, "VERANO2026")

	assert.Equal(t, 0, percent)
	assert.ErrorIs(t, err, model.ErrInvalidPromoCode)
	assert.NoError(t, validator.Close())
}
