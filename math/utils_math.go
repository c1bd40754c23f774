package math

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/krazyTry/launchpool-go/shared"
)

// MulDiv computes x*y/denominator with a 512-bit intermediate product, so
// only a result wider than 256 bits overflows.
func MulDiv(x, y, denominator *uint256.Int, rounding shared.Rounding) (*uint256.Int, error) {
	if denominator.IsZero() {
		return nil, fmt.Errorf("MulDiv: division by zero")
	}
	if x.IsZero() || y.IsZero() {
		return new(uint256.Int), nil
	}
	z, overflow := new(uint256.Int).MulDivOverflow(x, y, denominator)
	if overflow {
		return nil, fmt.Errorf("MulDiv: %w", shared.ErrOverflow)
	}
	if rounding == shared.RoundingUp {
		rem := new(uint256.Int).MulMod(x, y, denominator)
		if !rem.IsZero() {
			return Add(z, One)
		}
	}
	return z, nil
}

// Sqrt returns floor(sqrt(y)) using the Babylonian method.
// https://github.com/Uniswap/v2-core/blob/master/contracts/libraries/Math.sol
func Sqrt(y *uint256.Int) *uint256.Int {
	if y.IsZero() {
		return new(uint256.Int)
	}
	if y.LtUint64(4) {
		return uint256.NewInt(1)
	}
	z := new(uint256.Int).Set(y)
	// y/2 + 1 cannot overflow for y >= 4
	x := new(uint256.Int).Rsh(y, 1)
	x.AddUint64(x, 1)
	for x.Lt(z) {
		z.Set(x)
		x = new(uint256.Int).Div(y, x)
		x.Add(x, z)
		x.Rsh(x, 1)
	}
	return z
}

func Min(a, b *uint256.Int) *uint256.Int {
	if a.Lt(b) {
		return a
	}
	return b
}
