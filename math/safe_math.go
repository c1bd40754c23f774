package math

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/krazyTry/launchpool-go/shared"
)

var One = uint256.NewInt(1)

func Add(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, fmt.Errorf("SafeMath: addition %w", shared.ErrOverflow)
	}
	return z, nil
}

func Sub(a, b *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(a, b)
	if underflow {
		return nil, fmt.Errorf("SafeMath: subtraction %w", shared.ErrOverflow)
	}
	return z, nil
}

func Mul(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, fmt.Errorf("SafeMath: multiplication %w", shared.ErrOverflow)
	}
	return z, nil
}
