package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	assert.Nil(t, parsePrice(""))
	assert.Nil(t, parsePrice("not-a-number"))

	got := parsePrice("19990.50")
	require.NotNil(t, got)
	assert.Equal(t, 19990.50, *got)
}

func TestBuildPricingOnSale(t *testing.T) {
	p := buildPricing("7000", "9000", "7000", 0)

	assert.Equal(t, 7000.0, p.Price)
	require.NotNil(t, p.RegularPrice)
	assert.Equal(t, 9000.0, *p.RegularPrice)
	require.NotNil(t, p.SalePrice)
	assert.Equal(t, 7000.0, *p.SalePrice)
	assert.True(t, p.OnSale)
}

func TestBuildPricingNoSalePrice(t *testing.T) {
	p := buildPricing("9000", "9000", "", 0)

	assert.Equal(t, 9000.0, p.Price)
	assert.Nil(t, p.RegularPrice)
	assert.Nil(t, p.SalePrice)
	assert.False(t, p.OnSale)
}

func TestBuildPricingRegularBelowPriceDropped(t *testing.T) {
	p := buildPricing("9000", "8000", "", 0)

	assert.Nil(t, p.RegularPrice)
	assert.False(t, p.OnSale)
}

func TestBuildPricingAppliesRate(t *testing.T) {
	p := buildPricing("10", "20", "10", 1320.5)

	assert.Equal(t, 13205.0, p.Price)
	require.NotNil(t, p.RegularPrice)
	assert.Equal(t, 26410.0, *p.RegularPrice)
	assert.True(t, p.OnSale)
}
