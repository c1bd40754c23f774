package damm

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
	"github.com/krazyTry/launchpool-go/events"
	lpmath "github.com/krazyTry/launchpool-go/math"
	"github.com/krazyTry/launchpool-go/shared"
	"go.uber.org/zap"
)

// SeedOrDeposit adds amountA and amountB to the reserves and mints shares to
// caller. The first deposit into an empty pool seeds it and sets the price.
// The pool pulls both amounts through its ledger allowance from caller.
func (p *Pool) SeedOrDeposit(ctx context.Context, caller solana.PublicKey, amountA, amountB *uint256.Int) (*uint256.Int, error) {
	if err := checkCaller(caller); err != nil {
		return nil, err
	}
	if err := positive("amountA", amountA); err != nil {
		return nil, err
	}
	if err := positive("amountB", amountB); err != nil {
		return nil, err
	}
	amountA, amountB = amountA.Clone(), amountB.Clone()

	var minted *uint256.Int
	err := p.run(ctx, "deposit", func(s *PoolState, tx *txn) error {
		var (
			locked = new(uint256.Int)
			err    error
		)
		if s.TotalShares.IsZero() {
			minted, err = GetSeedShares(amountA, amountB)
			if err != nil {
				return err
			}
			if minted.IsZero() || minted.Lt(p.cfg.MinSeedLiquidity) {
				return fmt.Errorf("seed mints %s shares, need %s: %w",
					minted.Dec(), p.cfg.MinSeedLiquidity.Dec(), shared.ErrInsufficientSharesMinted)
			}
			locked = p.cfg.LockedLiquidity.Clone()
			if minted, err = lpmath.Sub(minted, locked); err != nil {
				return err
			}
		} else {
			minted, err = GetDepositShares(s.ReserveA, s.ReserveB, s.TotalShares, amountA, amountB)
			if err != nil {
				return err
			}
		}
		if minted.IsZero() {
			return shared.ErrInsufficientSharesMinted
		}

		if s.ReserveA, err = lpmath.Add(s.ReserveA, amountA); err != nil {
			return err
		}
		if s.ReserveB, err = lpmath.Add(s.ReserveB, amountB); err != nil {
			return err
		}
		if s.TotalShares, err = lpmath.Add(s.TotalShares, new(uint256.Int).Add(minted, locked)); err != nil {
			return err
		}
		if !locked.IsZero() {
			s.Shares[shared.LockedLiquidityOwner] = new(uint256.Int).Add(s.SharesOf(shared.LockedLiquidityOwner), locked)
		}
		s.Shares[caller] = new(uint256.Int).Add(s.SharesOf(caller), minted)

		tx.call(p.pull(p.tokenA, caller, amountA))
		tx.call(p.pull(p.tokenB, caller, amountB))
		tx.emit(events.LiquidityAdded{
			Pool:     p.cfg.Address,
			Provider: caller,
			AmountA:  amountA,
			AmountB:  amountB,
			Shares:   minted.Clone(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.log.Debug("liquidity added",
		zap.Stringer("caller", caller),
		zap.String("amountA", amountA.Dec()),
		zap.String("amountB", amountB.Dec()),
		zap.String("shares", minted.Dec()),
	)
	return minted, nil
}

// Withdraw burns shareAmount of caller's shares and pays out the
// proportional part of both reserves.
func (p *Pool) Withdraw(ctx context.Context, caller solana.PublicKey, shareAmount *uint256.Int) (*uint256.Int, *uint256.Int, error) {
	if err := checkCaller(caller); err != nil {
		return nil, nil, err
	}
	if err := positive("shareAmount", shareAmount); err != nil {
		return nil, nil, err
	}
	shareAmount = shareAmount.Clone()

	var amountA, amountB *uint256.Int
	err := p.run(ctx, "withdraw", func(s *PoolState, tx *txn) error {
		owned := s.SharesOf(caller)
		if shareAmount.Gt(owned) {
			return fmt.Errorf("withdraw %s shares, own %s: %w", shareAmount.Dec(), owned.Dec(), shared.ErrInsufficientBalance)
		}

		var err error
		amountA, amountB, err = GetWithdrawAmounts(s.ReserveA, s.ReserveB, s.TotalShares, shareAmount)
		if err != nil {
			return err
		}

		remaining, err := lpmath.Sub(owned, shareAmount)
		if err != nil {
			return err
		}
		if remaining.IsZero() {
			delete(s.Shares, caller)
		} else {
			s.Shares[caller] = remaining
		}
		if s.TotalShares, err = lpmath.Sub(s.TotalShares, shareAmount); err != nil {
			return err
		}
		if s.ReserveA, err = lpmath.Sub(s.ReserveA, amountA); err != nil {
			return err
		}
		if s.ReserveB, err = lpmath.Sub(s.ReserveB, amountB); err != nil {
			return err
		}

		if !amountA.IsZero() {
			tx.call(p.pay(p.tokenA, caller, amountA))
		}
		if !amountB.IsZero() {
			tx.call(p.pay(p.tokenB, caller, amountB))
		}
		tx.emit(events.LiquidityRemoved{
			Pool:     p.cfg.Address,
			Provider: caller,
			AmountA:  amountA.Clone(),
			AmountB:  amountB.Clone(),
			Shares:   shareAmount,
		})
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	p.log.Debug("liquidity removed",
		zap.Stringer("caller", caller),
		zap.String("shares", shareAmount.Dec()),
		zap.String("amountA", amountA.Dec()),
		zap.String("amountB", amountB.Dec()),
	)
	return amountA, amountB, nil
}
