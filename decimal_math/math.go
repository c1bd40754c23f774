package decimal_math

import (
	"github.com/holiman/uint256"
	"github.com/krazyTry/launchpool-go/u256"
	"github.com/shopspring/decimal"
)

// DefaultPrecision is the number of decimal places kept by Ratio callers
// that do not care.
const DefaultPrecision int32 = 18

func Pow10(n int) decimal.Decimal {
	return decimal.New(1, int32(n))
}

func FromUint256(u *uint256.Int) decimal.Decimal {
	return u256.ToDecimal(u)
}

// ToUIAmount converts a raw integer amount into whole units.
func ToUIAmount(amount *uint256.Int, decimals uint8) decimal.Decimal {
	return FromUint256(amount).Shift(-int32(decimals))
}

// Ratio returns num/den rounded down to places digits; zero when den is zero.
func Ratio(num, den *uint256.Int, places int32) decimal.Decimal {
	if den == nil || den.IsZero() {
		return decimal.Zero
	}
	return FromUint256(num).DivRound(FromUint256(den), places+1).RoundDown(places)
}

// PriceImpact returns how far the execution price amountOut/amountIn sits
// below the spot price reserveOut/reserveIn, as a fraction in [0, 1].
func PriceImpact(reserveIn, reserveOut, amountIn, amountOut *uint256.Int) decimal.Decimal {
	spot := Ratio(reserveOut, reserveIn, DefaultPrecision)
	if spot.IsZero() {
		return decimal.Zero
	}
	exec := Ratio(amountOut, amountIn, DefaultPrecision)
	impact := decimal.NewFromInt(1).Sub(exec.DivRound(spot, DefaultPrecision))
	if impact.IsNegative() {
		return decimal.Zero
	}
	return impact.RoundDown(DefaultPrecision)
}
