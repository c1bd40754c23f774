package dbc

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/krazyTry/launchpool-go/events"
	"github.com/krazyTry/launchpool-go/ledger"
	"github.com/krazyTry/launchpool-go/shared"
	"go.uber.org/zap"
)

// MigrationTarget receives a sale's holdings. The sale approves the target
// for both amounts before calling AcceptMigration, and the target pulls
// them with TransferFrom.
type MigrationTarget interface {
	Address() solana.PublicKey
	AcceptMigration(ctx context.Context, from solana.PublicKey, base, token ledger.Holding) error
}

// AddressTarget moves the holdings to a plain account.
type AddressTarget struct {
	Addr   solana.PublicKey
	Ledger ledger.Ledger
}

func (t AddressTarget) Address() solana.PublicKey { return t.Addr }

func (t AddressTarget) AcceptMigration(ctx context.Context, from solana.PublicKey, base, token ledger.Holding) error {
	for _, h := range []ledger.Holding{base, token} {
		if h.Amount.IsZero() {
			continue
		}
		if err := t.Ledger.Token(h.Mint).TransferFrom(ctx, t.Addr, from, t.Addr, h.Amount); err != nil {
			return err
		}
	}
	return nil
}

// ConfigurePool sets the migration target. Only the admin may call it, and
// only once.
func (s *Sale) ConfigurePool(ctx context.Context, caller solana.PublicKey, target MigrationTarget) error {
	if !caller.Equals(s.cfg.Admin) {
		return fmt.Errorf("configure by %s: %w", caller, shared.ErrUnauthorized)
	}
	if target == nil || target.Address().IsZero() {
		return fmt.Errorf("migration target: %w", shared.ErrInvalidAddress)
	}
	if m, ok := target.(interface {
		Mints() (solana.PublicKey, solana.PublicKey)
	}); ok {
		a, b := m.Mints()
		if !(a.Equals(s.cfg.BaseMint) && b.Equals(s.cfg.TokenMint)) && !(a.Equals(s.cfg.TokenMint) && b.Equals(s.cfg.BaseMint)) {
			return fmt.Errorf("target %s trades %s/%s: %w", target.Address(), a, b, shared.ErrInvalidAsset)
		}
	}

	err := s.run(ctx, "configure", func(next *SaleState, _ *txn) error {
		if s.target != nil || !next.Pool.IsZero() {
			return shared.ErrAlreadyConfigured
		}
		next.Pool = target.Address()
		s.target = target
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("migration target configured", zap.Stringer("target", target.Address()))
	return nil
}

// migrate hands the sale's entire base and token balances to the target.
func (s *Sale) migrate(ctx context.Context, tx *txn) error {
	baseAmount, err := s.base.BalanceOf(ctx, s.cfg.Address)
	if err != nil {
		return err
	}
	tokenAmount, err := s.token.BalanceOf(ctx, s.cfg.Address)
	if err != nil {
		return err
	}

	to := s.target.Address()
	if err := s.base.Approve(ctx, s.cfg.Address, to, baseAmount); err != nil {
		return err
	}
	if err := s.token.Approve(ctx, s.cfg.Address, to, tokenAmount); err != nil {
		return err
	}
	// A pool target commits and notifies its own listeners here, ahead of
	// the sale's events.
	err = s.target.AcceptMigration(ctx, s.cfg.Address,
		ledger.Holding{Mint: s.cfg.BaseMint, Amount: baseAmount},
		ledger.Holding{Mint: s.cfg.TokenMint, Amount: tokenAmount},
	)
	if err != nil {
		return fmt.Errorf("migrate to %s: %w", to, err)
	}

	tx.emit(events.MigrationTriggered{
		Sale:        s.cfg.Address,
		Target:      to,
		BaseAmount:  baseAmount.Clone(),
		TokenAmount: tokenAmount.Clone(),
	})
	return nil
}
