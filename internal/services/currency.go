package services

import (
	"context"

	"github.com/shopspring/decimal"
)

// Converter computes multiplicative exchange rates between currencies
// whose stored rates are each expressed against the same base currency.
type Converter struct {
	currencies CurrencyStore
}

// NewConverter creates a new currency converter
func NewConverter(currencies CurrencyStore) *Converter {
	return &Converter{currencies: currencies}
}

// Rate returns the per-unit multiplier from source to target, computed as
// sourceRate / targetRate. A rate of 0 means "do not convert" and is
// returned when either currency is unknown.
func (c *Converter) Rate(ctx context.Context, sourceCode, targetCode string) float64 {
	source, err := c.currencies.GetByCode(ctx, sourceCode)
	if err != nil {
		return 0
	}
	target, err := c.currencies.GetByCode(ctx, targetCode)
	if err != nil {
		return 0
	}
	if target.ExchangeRate == 0 {
		return 0
	}
	return source.ExchangeRate / target.ExchangeRate
}

// Convert multiplies an amount by the rate and rounds to the nearest
// whole unit. Fractional subunits are not preserved; this matches a
// zero-decimal target currency and loses precision for decimal ones.
// A rate of 0 leaves the amount unchanged.
func Convert(amount, rate float64) float64 {
	if rate <= 0 {
		return amount
	}
	converted, _ := decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(rate)).
		Round(0).
		Float64()
	return converted
}

// ConvertPtr converts an optional amount, preserving nil
func ConvertPtr(amount *float64, rate float64) *float64 {
	if amount == nil {
		return nil
	}
	converted := Convert(*amount, rate)
	return &converted
}
