package launchpool

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
	"github.com/krazyTry/launchpool-go/config"
	"github.com/krazyTry/launchpool-go/dbc"
	"github.com/krazyTry/launchpool-go/events"
	"github.com/krazyTry/launchpool-go/shared"
	"github.com/krazyTry/launchpool-go/u256"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var oneUnit = u256.GenUint256FromString("1000000000000000000")

type actors struct {
	admin, buyer, trader, beneficiary solana.PublicKey
	base, token                       solana.PublicKey
}

func newKey() solana.PublicKey { return solana.NewWallet().PublicKey() }

func newConfig() (*config.Config, actors) {
	a := actors{
		admin:       newKey(),
		buyer:       newKey(),
		trader:      newKey(),
		beneficiary: newKey(),
		base:        newKey(),
		token:       newKey(),
	}
	cfg := &config.Config{
		Pool: config.DefaultPoolConfig(),
		Sale: config.DefaultSaleConfig(),
	}
	cfg.Pool.Address = newKey()
	cfg.Pool.MintA = a.token
	cfg.Pool.MintB = a.base
	cfg.Pool.Beneficiary = a.beneficiary

	cfg.Sale.Address = newKey()
	cfg.Sale.Admin = a.admin
	cfg.Sale.BaseMint = a.base
	cfg.Sale.TokenMint = a.token

	cfg.Accounts = []config.Account{
		{Owner: cfg.Sale.Address, Mint: a.token, Amount: u256.GenUint256FromString("1000000000000000000000000")},
		{Owner: a.buyer, Mint: a.base, Amount: new(uint256.Int).Mul(oneUnit, uint256.NewInt(10))},
		{Owner: a.trader, Mint: a.base, Amount: oneUnit.Clone()},
	}
	return cfg, a
}

func TestSaleMigratesIntoPool(t *testing.T) {
	cfg, a := newConfig()
	recorder := events.NewRecorder()
	lp, err := New(cfg, WithLogger(zaptest.NewLogger(t)), WithBroker(recorder))
	require.NoError(t, err)

	purchase := config.Step{Op: config.OpPurchase, Caller: a.buyer, Amount: oneUnit}
	steps := []config.Step{{Op: config.OpConfigure, Caller: a.admin}}
	for i := 0; i < 6; i++ {
		steps = append(steps, purchase)
	}
	steps = append(steps,
		config.Step{Op: config.OpSwap, Caller: a.trader, Side: shared.SideB, Amount: new(uint256.Int).Div(oneUnit, uint256.NewInt(10))},
		config.Step{Op: config.OpSweep, Caller: a.beneficiary},
	)

	results := lp.Run(context.Background(), steps)
	require.Len(t, results, len(steps))
	for i, r := range results {
		if i == 6 {
			require.ErrorIs(t, r.Err, shared.ErrSaleClosed)
			continue
		}
		require.NoError(t, r.Err, "step %d", i)
	}

	require.True(t, lp.Sale.Migrated())
	require.Len(t, recorder.OfType(events.TypeMigrationTriggered), 1)

	migration := recorder.OfType(events.TypeMigrationTriggered)[0].(events.MigrationTriggered)
	require.Equal(t, lp.Pool.Address(), migration.Target)
	require.Equal(t, "5000000000000000000", migration.BaseAmount.Dec())

	// The pool commits its deposit inside the purchase, so its event
	// reaches listeners before the sale's own events.
	evs := recorder.Events()
	added, purchased, migrated := -1, -1, -1
	for i, e := range evs {
		switch e.Type() {
		case events.TypeLiquidityAdded:
			added = i
		case events.TypeTokensPurchased:
			purchased = i
		case events.TypeMigrationTriggered:
			migrated = i
		}
	}
	require.Less(t, added, purchased)
	require.Equal(t, purchased+1, migrated)

	// The sale is the only liquidity provider and its shares are inert.
	require.Equal(t, lp.Pool.TotalShares(), lp.Pool.SharesOf(lp.Sale.Address()))
	require.True(t, lp.Ledger.Balance(a.base, lp.Sale.Address()).IsZero())
	require.True(t, lp.Ledger.Balance(a.token, lp.Sale.Address()).IsZero())

	// The trader's base swap was priced against the migrated reserves.
	require.False(t, lp.Ledger.Balance(a.token, a.trader).IsZero())
	feesA, feesB := lp.Pool.FeesCollected()
	require.True(t, feesA.IsZero())
	require.True(t, feesB.IsZero())
	require.Equal(t, "150000000000000", lp.Ledger.Balance(a.base, a.beneficiary).Dec())
	require.NoError(t, lp.Pool.State().Validate())
}

func TestMigrationIntoSeededPool(t *testing.T) {
	cfg, a := newConfig()
	provider := newKey()
	cfg.Accounts = append(cfg.Accounts,
		config.Account{Owner: provider, Mint: a.token, Amount: u256.GenUint256FromString("4000000000000000000000")},
		config.Account{Owner: provider, Mint: a.base, Amount: oneUnit.Clone()},
	)
	lp, err := New(cfg)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = lp.Apply(ctx, config.Step{
		Op: config.OpDeposit, Caller: provider,
		Amount:  u256.GenUint256FromString("4000000000000000000000"),
		AmountB: oneUnit,
	})
	require.NoError(t, err)
	providerShares := lp.Pool.SharesOf(provider)

	_, err = lp.Apply(ctx, config.Step{Op: config.OpConfigure, Caller: a.admin})
	require.NoError(t, err)
	_, err = lp.Apply(ctx, config.Step{Op: config.OpPurchase, Caller: a.buyer, Amount: new(uint256.Int).Mul(oneUnit, uint256.NewInt(5))})
	require.NoError(t, err)

	require.True(t, lp.Sale.Migrated())
	require.Equal(t, providerShares, lp.Pool.SharesOf(provider))
	require.False(t, lp.Pool.SharesOf(lp.Sale.Address()).IsZero())
	require.NoError(t, lp.Pool.State().Validate())
}

func TestApplyRejectsUnknownOp(t *testing.T) {
	cfg, _ := newConfig()
	lp, err := New(cfg)
	require.NoError(t, err)

	_, err = lp.Apply(context.Background(), config.Step{Op: "burn"})
	require.ErrorContains(t, err, "unknown op")
}

func TestRunStopsExecutingOnCancelledContext(t *testing.T) {
	cfg, a := newConfig()
	lp, err := New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := lp.Run(ctx, []config.Step{{Op: config.OpConfigure, Caller: a.admin}})
	require.ErrorIs(t, results[0].Err, context.Canceled)
	require.False(t, lp.Sale.Migrated())
}

func TestSellOutMigration(t *testing.T) {
	cfg, a := newConfig()
	threshold := cfg.Sale.MigrationThreshold
	stock, err := dbc.GetTokenAmount(cfg.Sale.PriceFloor, new(uint256.Int), threshold)
	require.NoError(t, err)
	cfg.Accounts[0].Amount = stock

	recorder := events.NewRecorder()
	lp, err := New(cfg, WithBroker(recorder))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = lp.Apply(ctx, config.Step{Op: config.OpConfigure, Caller: a.admin})
	require.NoError(t, err)
	out, err := lp.Apply(ctx, config.Step{Op: config.OpPurchase, Caller: a.buyer, Amount: threshold})
	require.NoError(t, err)
	require.Equal(t, stock, out[0])

	require.True(t, lp.Sale.Migrated())
	require.True(t, lp.Ledger.Balance(a.base, lp.Sale.Address()).IsZero())
	require.True(t, lp.Ledger.Balance(a.token, lp.Sale.Address()).IsZero())
	require.Equal(t, threshold, lp.Ledger.Balance(a.base, lp.Pool.Address()))
	require.False(t, lp.Pool.Seeded())

	migrations := recorder.OfType(events.TypeMigrationTriggered)
	require.Len(t, migrations, 1)
	require.True(t, migrations[0].(events.MigrationTriggered).TokenAmount.IsZero())

	_, err = lp.Apply(ctx, config.Step{Op: config.OpPurchase, Caller: a.buyer, Amount: oneUnit})
	require.ErrorIs(t, err, shared.ErrSaleClosed)
}
