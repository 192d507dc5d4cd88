package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestRound_Examples(t *testing.T) {
	cases := []struct {
		name  string
		price string
		mode  RoundingMode
		want  string
	}{
		{"none half up", "4.475", RoundNone, "4.48"},
		{"none down", "4.4745057", RoundNone, "4.47"},
		{"none already cents", "7.20", RoundNone, "7.20"},
		{"ends in 99", "7.20", RoundEndsIn99, "7.99"},
		{"ends in 99 on whole unit", "8.00", RoundEndsIn99, "7.99"},
		{"ends in 99 just above", "8.001", RoundEndsIn99, "8.99"},
		{"ends in 95 lower candidate", "7.20", RoundEndsIn95, "7.95"},
		{"ends in 95 above lower candidate", "7.99", RoundEndsIn95, "7.95"},
		{"whole down", "7.40", RoundWhole, "7.00"},
		{"whole up", "7.60", RoundWhole, "8.00"},
		{"whole half", "7.50", RoundWhole, "8.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Round(d(tc.price), tc.mode)
			assert.True(t, d(tc.want).Equal(got), "want %s got %s", tc.want, got)
			assert.LessOrEqual(t, -got.Exponent(), int32(2), "more than two decimals: %s", got)
		})
	}
}

func TestRound_Idempotent(t *testing.T) {
	prices := []string{"0.01", "0.3122", "4.4745", "7.20", "7.95", "7.99", "8.00", "12.5", "99.999", "1234.5678"}
	modes := []RoundingMode{RoundNone, RoundEndsIn99, RoundEndsIn95, RoundWhole, RoundingMode(42)}
	for _, mode := range modes {
		for _, price := range prices {
			once := Round(d(price), mode)
			twice := Round(once, mode)
			assert.True(t, once.Equal(twice), "mode=%s price=%s once=%s twice=%s", mode, price, once, twice)
		}
	}
}

func TestRound_UnknownModeFallsBackToNone(t *testing.T) {
	assert.True(t, d("7.21").Equal(Round(d("7.2099"), RoundingMode(42))))
}

func TestParseRoundingMode(t *testing.T) {
	cases := map[string]RoundingMode{
		"none":       RoundNone,
		"":           RoundNone,
		"ends_in_99": RoundEndsIn99,
		"endsIn99":   RoundEndsIn99,
		".99":        RoundEndsIn99,
		"ENDS-IN-95": RoundEndsIn95,
		"endsIn95":   RoundEndsIn95,
		"whole":      RoundWhole,
		"bankers":    RoundNone,
	}
	for input, want := range cases {
		assert.Equal(t, want, ParseRoundingMode(input), input)
	}
	assert.Equal(t, "ends_in_95", RoundEndsIn95.String())
}

func TestFormula_Inversion(t *testing.T) {
	f := DefaultFormula()
	require.NoError(t, f.Validate())
	assert.True(t, d("0.961").Equal(f.Divisor()))

	tolerance := d("0.000000001")
	for _, cost := range []string{"0", "0.01", "1", "4.00", "12.34", "999.99"} {
		price := f.PriceFromCost(d(cost))
		back := price.Mul(d("0.961")).Sub(d("0.30"))
		assert.True(t, back.Sub(d(cost)).Abs().LessThan(tolerance), "cost=%s price=%s back=%s", cost, price, back)
	}
}

func TestFormula_ZeroCostHasFloor(t *testing.T) {
	price := DefaultFormula().PriceFromCost(decimal.Zero)
	assert.True(t, price.IsPositive())
	assert.True(t, d("0.31").Equal(Round(price, RoundNone)))
}

func TestFormula_TargetPrice(t *testing.T) {
	f := DefaultFormula()
	assert.Equal(t, "4.47", f.TargetPrice(d("4.00"), RoundNone).StringFixed(2))
	assert.Equal(t, "4.99", f.TargetPrice(d("4.00"), RoundEndsIn99).StringFixed(2))
	assert.Equal(t, "4.00", f.TargetPrice(d("4.00"), RoundWhole).StringFixed(2))

	custom := Formula{FeeRate: d("0.05"), FixedFee: d("0"), MarginRate: d("0.15")}
	assert.Equal(t, "12.50", custom.TargetPrice(d("10"), RoundNone).StringFixed(2))
}

func TestFormula_Validate(t *testing.T) {
	assert.ErrorIs(t, Formula{FeeRate: d("0.5"), MarginRate: d("0.5")}.Validate(), ErrInvalidFormula)
	assert.ErrorIs(t, Formula{FeeRate: d("-0.1")}.Validate(), ErrInvalidFormula)
}
