package dbc

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/krazyTry/launchpool-go/decimal_math"
	lpmath "github.com/krazyTry/launchpool-go/math"
	"github.com/krazyTry/launchpool-go/shared"
	"github.com/shopspring/decimal"
)

// GetTokenAmount returns payment*1e18/(priceFloor+totalRaised).
func GetTokenAmount(priceFloor, totalRaised, payment *uint256.Int) (*uint256.Int, error) {
	denominator, err := lpmath.Add(priceFloor, totalRaised)
	if err != nil {
		return nil, err
	}
	if denominator.IsZero() {
		return nil, fmt.Errorf("zero curve denominator: %w", shared.ErrInvalidAmount)
	}
	return lpmath.MulDiv(payment, shared.Scale, denominator, shared.RoundingDown)
}

// GetPrice returns the base-asset price of one whole token at totalRaised.
func GetPrice(priceFloor, totalRaised *uint256.Int) decimal.Decimal {
	numerator := decimal_math.FromUint256(priceFloor).Add(decimal_math.FromUint256(totalRaised))
	return numerator.Div(decimal_math.Pow10(18))
}

// GetMigrationProgress returns totalRaised/threshold capped at 1.
func GetMigrationProgress(totalRaised, threshold *uint256.Int) decimal.Decimal {
	if threshold.IsZero() || !totalRaised.Lt(threshold) {
		return decimal.NewFromInt(1)
	}
	return decimal_math.Ratio(totalRaised, threshold, decimal_math.DefaultPrecision)
}
