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

// Swap exchanges amountIn of side for the other asset and returns the
// amount paid out.
func (p *Pool) Swap(ctx context.Context, caller solana.PublicKey, side shared.Side, amountIn *uint256.Int) (*uint256.Int, error) {
	return p.SwapExactIn(ctx, caller, side, amountIn, new(uint256.Int))
}

// SwapExactIn is Swap with a lower bound on the amount paid out.
func (p *Pool) SwapExactIn(ctx context.Context, caller solana.PublicKey, side shared.Side, amountIn, minAmountOut *uint256.Int) (*uint256.Int, error) {
	if err := checkCaller(caller); err != nil {
		return nil, err
	}
	if !side.Valid() {
		return nil, fmt.Errorf("side %s: %w", side, shared.ErrInvalidAsset)
	}
	if err := positive("amountIn", amountIn); err != nil {
		return nil, err
	}
	if minAmountOut == nil {
		minAmountOut = new(uint256.Int)
	}
	amountIn = amountIn.Clone()

	var quote *SwapQuote
	err := p.run(ctx, "swap", func(s *PoolState, tx *txn) error {
		reserveIn, reserveOut := s.reserves(side)

		var err error
		if quote, err = GetSwapQuote(reserveIn, reserveOut, side, amountIn); err != nil {
			return err
		}
		if quote.AmountOut.Lt(minAmountOut) {
			return fmt.Errorf("output %s below minimum %s: %w", quote.AmountOut.Dec(), minAmountOut.Dec(), shared.ErrInsufficientOutput)
		}

		newIn, err := lpmath.Add(reserveIn, amountIn)
		if err != nil {
			return err
		}
		newOut, err := lpmath.Sub(reserveOut, quote.RawOut)
		if err != nil {
			return err
		}
		fees, err := lpmath.Add(s.fees(side), quote.Fee)
		if err != nil {
			return err
		}
		if side == shared.SideA {
			s.ReserveA, s.ReserveB, s.FeesCollectedA = newIn, newOut, fees
		} else {
			s.ReserveB, s.ReserveA, s.FeesCollectedB = newIn, newOut, fees
		}

		tx.call(p.pull(p.token(side), caller, amountIn))
		tx.call(p.pay(p.token(side.Opposite()), caller, quote.AmountOut))
		tx.emit(events.SwapExecuted{
			Pool:      p.cfg.Address,
			Trader:    caller,
			SideIn:    side,
			AmountIn:  amountIn,
			AmountOut: quote.AmountOut.Clone(),
		})
		tx.emit(events.FeeCollected{
			Pool:   p.cfg.Address,
			Side:   side,
			Amount: quote.Fee.Clone(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.log.Debug("swap executed",
		zap.Stringer("caller", caller),
		zap.Stringer("side", side),
		zap.String("amountIn", amountIn.Dec()),
		zap.String("amountOut", quote.AmountOut.Dec()),
		zap.String("fee", quote.Fee.Dec()),
	)
	return quote.AmountOut, nil
}
