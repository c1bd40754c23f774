package damm

import (
	"context"
	"testing"
	"testing/quick"

	"github.com/holiman/uint256"
	"github.com/krazyTry/launchpool-go/shared"
	"github.com/stretchr/testify/require"
)

func product(a, b *uint256.Int) *uint256.Int {
	return new(uint256.Int).Mul(a, b)
}

func TestSwapNeverDecreasesProduct(t *testing.T) {
	property := func(seedA, seedB, in uint32, sideB bool) bool {
		f := newFixture(t)
		a, b := uint64(seedA)+1_000, uint64(seedB)+1_000
		f.seed(t, a, b)

		side := shared.SideA
		if sideB {
			side = shared.SideB
		}
		trader := newKey()
		f.fund(t, trader, uint64(in)+1, uint64(in)+1)

		ra, rb := f.pool.Reserves()
		before := product(ra, rb)
		if _, err := f.pool.Swap(context.Background(), trader, side, uint256.NewInt(uint64(in)+1)); err != nil {
			ra2, rb2 := f.pool.Reserves()
			return ra2.Eq(ra) && rb2.Eq(rb)
		}
		ra, rb = f.pool.Reserves()
		return !product(ra, rb).Lt(before) && !ra.IsZero() && !rb.IsZero()
	}
	require.NoError(t, quick.Check(property, nil))
}

func TestDepositWithdrawRoundTripNeverProfits(t *testing.T) {
	property := func(seedA, seedB, depA, depB uint32) bool {
		f := newFixture(t)
		f.seed(t, uint64(seedA)+1_000, uint64(seedB)+1_000)

		lp := newKey()
		da, db := uint64(depA)+1, uint64(depB)+1
		f.fund(t, lp, da, db)
		minted, err := f.pool.SeedOrDeposit(context.Background(), lp, uint256.NewInt(da), uint256.NewInt(db))
		if err != nil {
			return true
		}
		outA, outB, err := f.pool.Withdraw(context.Background(), lp, minted)
		if err != nil {
			return false
		}
		return outA.Uint64() <= da && outB.Uint64() <= db && f.pool.State().Validate() == nil
	}
	require.NoError(t, quick.Check(property, nil))
}

func TestShareSumHoldsAcrossOperations(t *testing.T) {
	property := func(ops []uint16) bool {
		f := newFixture(t)
		f.seed(t, 10_000, 10_000)

		ctx := context.Background()
		lp := newKey()
		f.fund(t, lp, 1_000_000, 1_000_000)
		for _, op := range ops {
			amount := uint256.NewInt(uint64(op%500) + 1)
			switch op % 3 {
			case 0:
				_, _ = f.pool.SeedOrDeposit(ctx, lp, amount, amount)
			case 1:
				_, _, _ = f.pool.Withdraw(ctx, lp, amount)
			case 2:
				_, _ = f.pool.Swap(ctx, lp, shared.Side(op%2), amount)
			}
			if f.pool.State().Validate() != nil {
				return false
			}
		}
		return true
	}
	require.NoError(t, quick.Check(property, &quick.Config{MaxCount: 50}))
}
