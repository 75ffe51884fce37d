package services

import (
	"fmt"
	"strings"

	"appnity/internal/apperr"

	"github.com/shopspring/decimal"
)

// patch копирует значение, если оно передано.
func patch[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// decimalRange: допустимые границы числового поля.
type decimalRange struct {
	min, max decimal.Decimal
	places   int32
}

var (
	ratingRange = decimalRange{min: decimal.Zero, max: decimal.NewFromInt(5), places: 1}
	// NUMERIC(10,2)
	priceRange = decimalRange{min: decimal.Zero, max: decimal.RequireFromString("99999999.99"), places: 2}
	// NUMERIC(12,2)
	salaryRange = decimalRange{min: decimal.Zero, max: decimal.RequireFromString("9999999999.99"), places: 2}
)

// parseDecimal разбирает строку в decimal; пустая строка: nil.
func parseDecimal(field string, raw *string, rng decimalRange) (*decimal.Decimal, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(*raw))
	if err != nil {
		return nil, apperr.Field(field, "A valid number is required.")
	}
	if d.LessThan(rng.min) {
		return nil, apperr.Field(field, fmt.Sprintf("Ensure this value is greater than or equal to %s.", rng.min))
	}
	if d.GreaterThan(rng.max) {
		return nil, apperr.Field(field, fmt.Sprintf("Ensure this value is less than or equal to %s.", rng.max))
	}
	if !d.Equal(d.Truncate(rng.places)) {
		return nil, apperr.Field(field, fmt.Sprintf("Ensure that there are no more than %d decimal places.", rng.places))
	}
	return &d, nil
}
