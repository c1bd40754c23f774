package damm

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
	"github.com/krazyTry/launchpool-go/events"
	"github.com/krazyTry/launchpool-go/shared"
	"go.uber.org/zap"
)

// SweepFees pays both fee accumulators to the beneficiary and resets them.
// Accumulated fees are part of the pool's ledger balance but not of its
// reserves.
func (p *Pool) SweepFees(ctx context.Context, caller solana.PublicKey) (*uint256.Int, *uint256.Int, error) {
	if !caller.Equals(p.cfg.Beneficiary) {
		return nil, nil, fmt.Errorf("sweep by %s: %w", caller, shared.ErrUnauthorized)
	}

	var amountA, amountB *uint256.Int
	err := p.run(ctx, "sweep", func(s *PoolState, tx *txn) error {
		amountA, amountB = s.FeesCollectedA, s.FeesCollectedB
		s.FeesCollectedA, s.FeesCollectedB = new(uint256.Int), new(uint256.Int)

		for _, f := range []struct {
			side   shared.Side
			amount *uint256.Int
		}{{shared.SideA, amountA}, {shared.SideB, amountB}} {
			if f.amount.IsZero() {
				continue
			}
			tx.call(p.pay(p.token(f.side), p.cfg.Beneficiary, f.amount))
			tx.emit(events.FeeCollected{
				Pool:      p.cfg.Address,
				Side:      f.side,
				Amount:    f.amount.Clone(),
				Recipient: p.cfg.Beneficiary,
			})
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	p.log.Debug("fees swept", zap.String("amountA", amountA.Dec()), zap.String("amountB", amountB.Dec()))
	return amountA.Clone(), amountB.Clone(), nil
}
