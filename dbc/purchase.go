package dbc

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

// Quote returns the tokens paymentAmount buys at the current raised amount.
func (s *Sale) Quote(paymentAmount *uint256.Int) (*uint256.Int, error) {
	if paymentAmount == nil {
		return nil, shared.ErrZeroPayment
	}
	return GetTokenAmount(s.cfg.PriceFloor, s.snapshot().TotalRaised, paymentAmount)
}

// Purchase takes paymentAmount of the base asset from caller and pays out
// the quoted tokens. The purchase that lifts the raised amount to the
// migration threshold also migrates the sale.
func (s *Sale) Purchase(ctx context.Context, caller solana.PublicKey, paymentAmount *uint256.Int) (*uint256.Int, error) {
	if caller.IsZero() {
		return nil, fmt.Errorf("caller: %w", shared.ErrInvalidAddress)
	}
	if paymentAmount != nil {
		paymentAmount = paymentAmount.Clone()
	}

	var (
		tokens    *uint256.Int
		migrating bool
	)
	err := s.run(ctx, "purchase", func(next *SaleState, tx *txn) error {
		if next.MigrationTriggered {
			return shared.ErrSaleClosed
		}
		if paymentAmount == nil || paymentAmount.IsZero() {
			return shared.ErrZeroPayment
		}

		var err error
		if tokens, err = GetTokenAmount(s.cfg.PriceFloor, next.TotalRaised, paymentAmount); err != nil {
			return err
		}
		if tokens.IsZero() {
			return fmt.Errorf("payment %s buys no tokens: %w", paymentAmount.Dec(), shared.ErrInsufficientOutput)
		}
		inventory, err := s.token.BalanceOf(ctx, s.cfg.Address)
		if err != nil {
			return err
		}
		if inventory.Lt(tokens) {
			return fmt.Errorf("need %s, hold %s: %w", tokens.Dec(), inventory.Dec(), shared.ErrInsufficientInventory)
		}

		if next.TotalRaised, err = lpmath.Add(next.TotalRaised, paymentAmount); err != nil {
			return err
		}
		if !next.TotalRaised.Lt(s.cfg.MigrationThreshold) {
			if s.target == nil {
				return fmt.Errorf("migration target: %w", shared.ErrNotConfigured)
			}
			// Decided before any funds move; a failed hand-over reverts it.
			next.MigrationTriggered = true
			migrating = true
		}

		tx.call(func(ctx context.Context, _ *txn) error {
			if err := s.base.TransferFrom(ctx, s.cfg.Address, caller, s.cfg.Address, paymentAmount); err != nil {
				return fmt.Errorf("collect payment from %s: %w", caller, err)
			}
			return nil
		})
		tx.call(func(ctx context.Context, _ *txn) error {
			if err := s.token.Transfer(ctx, s.cfg.Address, caller, tokens); err != nil {
				return fmt.Errorf("deliver tokens to %s: %w", caller, err)
			}
			return nil
		})
		tx.emit(events.TokensPurchased{
			Sale:        s.cfg.Address,
			Buyer:       caller,
			Payment:     paymentAmount,
			Tokens:      tokens.Clone(),
			TotalRaised: next.TotalRaised.Clone(),
		})
		if migrating {
			tx.call(s.migrate)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("tokens purchased",
		zap.Stringer("caller", caller),
		zap.String("payment", paymentAmount.Dec()),
		zap.String("tokens", tokens.Dec()),
	)
	if migrating {
		s.log.Info("sale migrated", zap.Stringer("target", s.target.Address()))
	}
	return tokens, nil
}
