package shared

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
)

const (
	// BasisPointMax is 100% expressed in basis points.
	BasisPointMax = 10_000

	// TakerFeeBps is charged on swaps paying in asset A (0.25%).
	TakerFeeBps = 25
	// MakerFeeBps is charged on swaps paying in asset B (0.15%).
	MakerFeeBps = 15

	// DefaultMinSeedLiquidity is the smallest share amount a first deposit may mint.
	DefaultMinSeedLiquidity = 1_000
)

var (
	// Scale is the fixed-point unit used by the bonding curve (1e18).
	Scale = uint256.NewInt(1_000_000_000_000_000_000)

	// DefaultPriceFloor controls the curve steepness (1e15).
	DefaultPriceFloor = uint256.NewInt(1_000_000_000_000_000)

	// DefaultMigrationThreshold is 5 units of the base asset (5e18).
	DefaultMigrationThreshold = uint256.NewInt(5_000_000_000_000_000_000)

	// LockedLiquidityOwner holds shares that can never be withdrawn.
	LockedLiquidityOwner = solana.PublicKey{}
)

// Side selects one of the two pool assets.
type Side uint8

const (
	SideA Side = 0
	SideB Side = 1
)

func (s Side) Valid() bool {
	return s == SideA || s == SideB
}

// Opposite returns the asset paid out when s is paid in.
func (s Side) Opposite() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

// FeeBps returns the swap fee rate charged when s is the input side.
func (s Side) FeeBps() uint64 {
	if s == SideA {
		return TakerFeeBps
	}
	return MakerFeeBps
}

func (s Side) String() string {
	switch s {
	case SideA:
		return "A"
	case SideB:
		return "B"
	default:
		return fmt.Sprintf("Side(%d)", uint8(s))
	}
}

// ParseSide accepts "A"/"a" and "B"/"b".
func ParseSide(s string) (Side, error) {
	switch s {
	case "A", "a":
		return SideA, nil
	case "B", "b":
		return SideB, nil
	}
	return 0, fmt.Errorf("%w: side %q", ErrInvalidAsset, s)
}

type Rounding uint8

const (
	RoundingUp   Rounding = 0
	RoundingDown Rounding = 1
)
