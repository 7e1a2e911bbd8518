package services

import (
	"strconv"
)

// parsePrice parses a remote monetary string. Empty or malformed values
// come back nil, which downstream treats as "not set".
func parsePrice(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseMeasure parses an optional remote dimension/weight string
func parseMeasure(s string) *float64 {
	return parsePrice(s)
}

// pricing is the result of parsing and converting one remote price set
type pricing struct {
	Price        float64
	RegularPrice *float64
	SalePrice    *float64
	OnSale       bool
}

// buildPricing parses the three remote monetary fields and applies the
// conversion rate (0 means no conversion). OnSale holds when a sale price
// exists and undercuts the regular price; RegularPrice is kept only when
// it represents a real markup over the displayed price.
func buildPricing(priceStr, regularStr, saleStr string, rate float64) pricing {
	price := 0.0
	if p := parsePrice(priceStr); p != nil {
		price = *p
	}
	regular := parsePrice(regularStr)
	sale := parsePrice(saleStr)

	price = Convert(price, rate)
	regular = ConvertPtr(regular, rate)
	sale = ConvertPtr(sale, rate)

	onSale := sale != nil && regular != nil && *sale < *regular

	if regular != nil && *regular <= price {
		regular = nil
	}

	return pricing{
		Price:        price,
		RegularPrice: regular,
		SalePrice:    sale,
		OnSale:       onSale,
	}
}
