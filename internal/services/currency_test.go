package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateComputesSourceOverTarget(t *testing.T) {
	converter := NewConverter(&fakeCurrencyStore{rates: map[string]float64{
		"USD": 1320.5,
		"KRW": 1,
	}})

	rate := converter.Rate(context.Background(), "USD", "KRW")
	assert.Equal(t, 1320.5, rate)
}

func TestRateUnknownCurrencyReturnsZero(t *testing.T) {
	converter := NewConverter(&fakeCurrencyStore{rates: map[string]float64{
		"USD": 1320.5,
	}})

	assert.Equal(t, float64(0), converter.Rate(context.Background(), "USD", "KRW"))
	assert.Equal(t, float64(0), converter.Rate(context.Background(), "EUR", "USD"))
}

func TestRateZeroTargetRateReturnsZero(t *testing.T) {
	converter := NewConverter(&fakeCurrencyStore{rates: map[string]float64{
		"USD": 1320.5,
		"XXX": 0,
	}})

	assert.Equal(t, float64(0), converter.Rate(context.Background(), "USD", "XXX"))
}

func TestConvertRoundsToWholeUnits(t *testing.T) {
	assert.Equal(t, float64(26396795), Convert(19990, 1320.5))
	assert.Equal(t, float64(13), Convert(10, 1.25))
	assert.Equal(t, float64(1), Convert(0.9, 1.0))
}

func TestConvertZeroRateLeavesAmountUnchanged(t *testing.T) {
	assert.Equal(t, 19990.0, Convert(19990, 0))
	assert.Equal(t, 19990.0, Convert(19990, -1))
}

func TestConvertPtr(t *testing.T) {
	assert.Nil(t, ConvertPtr(nil, 1320.5))

	amount := 10.0
	got := ConvertPtr(&amount, 1.25)
	if assert.NotNil(t, got) {
		assert.Equal(t, float64(13), *got)
	}
	assert.Equal(t, 10.0, amount)
}
