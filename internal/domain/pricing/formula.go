package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	DefaultFeeRate    = decimal.RequireFromString("0.029")
	DefaultFixedFee   = decimal.RequireFromString("0.30")
	DefaultMarginRate = decimal.RequireFromString("0.01")
)

var ErrInvalidFormula = errors.New("invalid price formula")

// Formula solves cost + FeeRate*P + FixedFee + MarginRate*P = P for P,
// so the seller keeps MarginRate*P after the processor takes its cut.
type Formula struct {
	FeeRate    decimal.Decimal
	FixedFee   decimal.Decimal
	MarginRate decimal.Decimal
}

func DefaultFormula() Formula {
	return Formula{
		FeeRate:    DefaultFeeRate,
		FixedFee:   DefaultFixedFee,
		MarginRate: DefaultMarginRate,
	}
}

func (f Formula) Validate() error {
	if f.FeeRate.IsNegative() || f.FixedFee.IsNegative() || f.MarginRate.IsNegative() {
		return fmt.Errorf("%w: negative constant fee_rate=%s fixed_fee=%s margin_rate=%s", ErrInvalidFormula, f.FeeRate, f.FixedFee, f.MarginRate)
	}
	if !f.Divisor().IsPositive() {
		return fmt.Errorf("%w: fee_rate + margin_rate must be below 1", ErrInvalidFormula)
	}
	return nil
}

// Divisor is the share of the sale price left for cost and fixed fee.
func (f Formula) Divisor() decimal.Decimal {
	return decimal.NewFromInt(1).Sub(f.FeeRate).Sub(f.MarginRate)
}

// PriceFromCost returns the unrounded target price. A zero cost still yields
// FixedFee/Divisor, so callers must skip costs they do not trust.
func (f Formula) PriceFromCost(cost decimal.Decimal) decimal.Decimal {
	return cost.Add(f.FixedFee).Div(f.Divisor())
}

func (f Formula) TargetPrice(cost decimal.Decimal, mode RoundingMode) decimal.Decimal {
	return Round(f.PriceFromCost(cost), mode)
}
