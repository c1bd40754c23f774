package u256

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Word is the fixed-width big-endian form used in borsh snapshots.
type Word [32]byte

type Uint256 uint256.Int

func (u *Uint256) Scan(s fmt.ScanState, ch rune) error {
	i := new(big.Int)
	if err := i.Scan(s, ch); err != nil {
		return err
	} else if i.Sign() < 0 {
		return errors.New("value cannot be negative")
	} else if i.BitLen() > 256 {
		return errors.New("value overflows Uint256")
	}
	(*uint256.Int)(u).SetFromBig(i)
	return nil
}

func GenUint256FromString(num string) *uint256.Int {
	u := new(Uint256)
	if _, err := fmt.Sscan(num, u); err != nil {
		panic(err)
	}
	return (*uint256.Int)(u)
}

// Parse accepts plain integers ("5000000000000000000") and scientific
// notation ("5e18"). Fractional results are rejected.
func Parse(num string) (*uint256.Int, error) {
	d, err := decimal.NewFromString(num)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", num, err)
	}
	return FromDecimal(d)
}

func FromDecimal(d decimal.Decimal) (*uint256.Int, error) {
	if d.IsNegative() {
		return nil, fmt.Errorf("amount %s: value cannot be negative", d)
	}
	if !d.Equal(d.Truncate(0)) {
		return nil, fmt.Errorf("amount %s: value must be an integer", d)
	}
	u, overflow := uint256.FromBig(d.BigInt())
	if overflow {
		return nil, fmt.Errorf("amount %s: value overflows Uint256", d)
	}
	return u, nil
}

func ToDecimal(u *uint256.Int) decimal.Decimal {
	if u == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(u.ToBig(), 0)
}

func ToWord(u *uint256.Int) Word {
	if u == nil {
		return Word{}
	}
	return u.Bytes32()
}

func FromWord(w Word) *uint256.Int {
	return new(uint256.Int).SetBytes32(w[:])
}

// Clone returns a copy, mapping nil to zero.
func Clone(u *uint256.Int) *uint256.Int {
	if u == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(u)
}
