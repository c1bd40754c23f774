package damm

import (
	"fmt"

	"github.com/holiman/uint256"
	lpmath "github.com/krazyTry/launchpool-go/math"
	"github.com/krazyTry/launchpool-go/shared"
)

// GetSeedShares returns isqrt(amountA*amountB), the shares minted by the
// first deposit into an empty pool.
func GetSeedShares(amountA, amountB *uint256.Int) (*uint256.Int, error) {
	product, err := lpmath.Mul(amountA, amountB)
	if err != nil {
		return nil, fmt.Errorf("seed amounts too large: %w", shared.ErrInvalidAmount)
	}
	return lpmath.Sqrt(product), nil
}

// GetDepositShares returns min(amountA*T/RA, amountB*T/RB) for a seeded pool.
func GetDepositShares(reserveA, reserveB, totalShares, amountA, amountB *uint256.Int) (*uint256.Int, error) {
	if reserveA.IsZero() || reserveB.IsZero() {
		return nil, fmt.Errorf("deposit into empty reserves: %w", shared.ErrInsufficientSharesMinted)
	}
	byA, err := lpmath.MulDiv(amountA, totalShares, reserveA, shared.RoundingDown)
	if err != nil {
		return nil, fmt.Errorf("deposit A: %w", err)
	}
	byB, err := lpmath.MulDiv(amountB, totalShares, reserveB, shared.RoundingDown)
	if err != nil {
		return nil, fmt.Errorf("deposit B: %w", err)
	}
	return lpmath.Min(byA, byB), nil
}

// GetWithdrawAmounts returns shareAmount*RA/T and shareAmount*RB/T.
func GetWithdrawAmounts(reserveA, reserveB, totalShares, shareAmount *uint256.Int) (*uint256.Int, *uint256.Int, error) {
	if shareAmount.Gt(totalShares) {
		return nil, nil, fmt.Errorf("withdraw %s of %s shares: %w", shareAmount.Dec(), totalShares.Dec(), shared.ErrInsufficientBalance)
	}
	amountA, err := lpmath.MulDiv(shareAmount, reserveA, totalShares, shared.RoundingDown)
	if err != nil {
		return nil, nil, err
	}
	amountB, err := lpmath.MulDiv(shareAmount, reserveB, totalShares, shared.RoundingDown)
	if err != nil {
		return nil, nil, err
	}
	return amountA, amountB, nil
}
