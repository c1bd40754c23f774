package damm

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/krazyTry/launchpool-go/ledger"
	"github.com/krazyTry/launchpool-go/shared"
	"go.uber.org/zap"
)

// AcceptMigration deposits a sale's holdings on behalf of from. The pool
// must already be approved to pull both holdings; the minted shares belong
// to from. When either holding is empty nothing is minted and the other
// holding is kept outside the reserves.
func (p *Pool) AcceptMigration(ctx context.Context, from solana.PublicKey, base, token ledger.Holding) error {
	var a, b ledger.Holding
	switch {
	case base.Mint.Equals(p.cfg.MintA) && token.Mint.Equals(p.cfg.MintB):
		a, b = base, token
	case base.Mint.Equals(p.cfg.MintB) && token.Mint.Equals(p.cfg.MintA):
		a, b = token, base
	default:
		return fmt.Errorf("migrate %s/%s into %s/%s pool: %w",
			base.Mint, token.Mint, p.cfg.MintA, p.cfg.MintB, shared.ErrInvalidAsset)
	}
	if empty(a) || empty(b) {
		return p.hold(ctx, from, a, b)
	}
	_, err := p.SeedOrDeposit(ctx, from, a.Amount, b.Amount)
	return err
}

func empty(h ledger.Holding) bool {
	return h.Amount == nil || h.Amount.IsZero()
}

// hold pulls the non-empty holdings into the pool account without touching
// reserves or shares.
func (p *Pool) hold(ctx context.Context, from solana.PublicKey, a, b ledger.Holding) error {
	if err := checkCaller(from); err != nil {
		return err
	}
	err := p.run(ctx, "migrate", func(_ *PoolState, tx *txn) error {
		if !empty(a) {
			tx.call(p.pull(p.tokenA, from, a.Amount.Clone()))
		}
		if !empty(b) {
			tx.call(p.pull(p.tokenB, from, b.Amount.Clone()))
		}
		return nil
	})
	if err != nil {
		return err
	}
	p.log.Info("migration held outside reserves", zap.Stringer("from", from))
	return nil
}
