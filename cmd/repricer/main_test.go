package main

import (
	"testing"

	"shopify-repricer/internal/domain/pricing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestQuote(t *testing.T) {
	cost := decimal.RequireFromString("4.00")

	assert.Equal(t, "cost=4.00 raw=4.4745 rounding=none price=4.47", quote(pricing.DefaultFormula(), cost, pricing.RoundNone))
	assert.Equal(t, "cost=4.00 raw=4.4745 rounding=ends_in_99 price=4.99", quote(pricing.DefaultFormula(), cost, pricing.RoundEndsIn99))
}
