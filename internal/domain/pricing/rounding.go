// Package pricing holds the pure price math: the fee-inclusive margin formula
// and the display rounding policy.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

type RoundingMode int

const (
	RoundNone RoundingMode = iota
	RoundEndsIn99
	RoundEndsIn95
	RoundWhole
)

var (
	cent          = decimal.RequireFromString("0.01")
	ninetyFive    = decimal.RequireFromString("0.95")
	oneNinetyFive = decimal.RequireFromString("1.95")
)

// ParseRoundingMode maps a configured name to a mode. Unknown names fall back to RoundNone.
func ParseRoundingMode(value string) RoundingMode {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.NewReplacer("_", "", "-", "", ".", "").Replace(normalized)
	switch normalized {
	case "endsin99", "99":
		return RoundEndsIn99
	case "endsin95", "95":
		return RoundEndsIn95
	case "whole", "integer":
		return RoundWhole
	default:
		return RoundNone
	}
}

func (m RoundingMode) String() string {
	switch m {
	case RoundEndsIn99:
		return "ends_in_99"
	case RoundEndsIn95:
		return "ends_in_95"
	case RoundWhole:
		return "whole"
	default:
		return "none"
	}
}

// Round maps a raw price to a display price with at most two decimals.
// Every mode is idempotent: Round(Round(x, m), m) == Round(x, m).
func Round(price decimal.Decimal, mode RoundingMode) decimal.Decimal {
	if !price.IsPositive() {
		return price.Round(2)
	}
	switch mode {
	case RoundEndsIn99:
		return price.Ceil().Sub(cent)
	case RoundEndsIn95:
		base := price.Floor()
		lower := base.Add(ninetyFive)
		upper := base.Add(oneNinetyFive)
		if price.Sub(upper).Abs().LessThan(price.Sub(lower).Abs()) {
			return upper
		}
		return lower
	case RoundWhole:
		return price.Round(0)
	default:
		return price.Round(2)
	}
}
