package launchpool

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/krazyTry/launchpool-go/config"
	"github.com/krazyTry/launchpool-go/damm"
	"github.com/krazyTry/launchpool-go/dbc"
	"github.com/krazyTry/launchpool-go/events"
	"github.com/krazyTry/launchpool-go/ledger"
	"github.com/krazyTry/launchpool-go/shared"
	"go.uber.org/zap"
)

// NewPool creates an empty constant-product pool.
//
// Example:
//
// pool, _ := NewPool(cfg, book, damm.WithLogger(log))
//
// pool.SeedOrDeposit(ctx, provider, amountA, amountB)
//
// pool.Swap(ctx, trader, shared.SideA, amountIn)
var NewPool = damm.NewPool

// NewSale creates an open bonding-curve sale.
//
// Example:
//
// sale, _ := NewSale(cfg, book, dbc.WithBroker(broker))
//
// sale.ConfigurePool(ctx, admin, pool)
//
// sale.Purchase(ctx, buyer, payment)
var NewSale = dbc.NewSale

// Launchpool is a sale and the pool it migrates into, sharing one ledger.
type Launchpool struct {
	Ledger *ledger.Book
	Pool   *damm.Pool
	Sale   *dbc.Sale

	log *zap.Logger
}

type Option func(*options)

type options struct {
	log    *zap.Logger
	broker events.Broker
}

func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

func WithBroker(broker events.Broker) Option {
	return func(o *options) { o.broker = broker }
}

// New builds the ledger, pool and sale described by cfg and credits the
// initial accounts.
func New(cfg *config.Config, opts ...Option) (*Launchpool, error) {
	o := &options{log: zap.NewNop(), broker: events.Nop}
	for _, fn := range opts {
		fn(o)
	}

	book := ledger.NewBook()
	for _, acc := range cfg.Accounts {
		if err := book.Credit(acc.Mint, acc.Owner, acc.Amount); err != nil {
			return nil, fmt.Errorf("credit %s: %w", acc.Owner, err)
		}
	}

	pool, err := NewPool(cfg.Pool, book, damm.WithLogger(o.log), damm.WithBroker(o.broker))
	if err != nil {
		return nil, err
	}
	sale, err := NewSale(cfg.Sale, book, dbc.WithLogger(o.log), dbc.WithBroker(o.broker))
	if err != nil {
		return nil, err
	}
	return &Launchpool{
		Ledger: book,
		Pool:   pool,
		Sale:   sale,
		log:    o.log,
	}, nil
}

// Result is the outcome of one replayed step.
type Result struct {
	Step    config.Step
	Outputs []*uint256.Int
	Err     error
}

// Apply executes step. The caller's allowance is raised to the amounts the
// step pulls, standing in for the value a caller attaches to a call.
func (l *Launchpool) Apply(ctx context.Context, step config.Step) ([]*uint256.Int, error) {
	pool, sale := l.Pool.Address(), l.Sale.Address()
	mintA, mintB := l.Pool.Mints()

	switch step.Op {
	case config.OpDeposit:
		l.Ledger.Approve(mintA, step.Caller, pool, step.Amount)
		l.Ledger.Approve(mintB, step.Caller, pool, step.AmountB)
		shares, err := l.Pool.SeedOrDeposit(ctx, step.Caller, step.Amount, step.AmountB)
		return []*uint256.Int{shares}, err
	case config.OpWithdraw:
		a, b, err := l.Pool.Withdraw(ctx, step.Caller, step.Amount)
		return []*uint256.Int{a, b}, err
	case config.OpSwap:
		mint := mintA
		if step.Side == shared.SideB {
			mint = mintB
		}
		l.Ledger.Approve(mint, step.Caller, pool, step.Amount)
		out, err := l.Pool.Swap(ctx, step.Caller, step.Side, step.Amount)
		return []*uint256.Int{out}, err
	case config.OpSweep:
		a, b, err := l.Pool.SweepFees(ctx, step.Caller)
		return []*uint256.Int{a, b}, err
	case config.OpPurchase:
		l.Ledger.Approve(l.Sale.Config().BaseMint, step.Caller, sale, step.Amount)
		tokens, err := l.Sale.Purchase(ctx, step.Caller, step.Amount)
		return []*uint256.Int{tokens}, err
	case config.OpConfigure:
		return nil, l.Sale.ConfigurePool(ctx, step.Caller, l.Pool)
	default:
		return nil, fmt.Errorf("unknown op %q", step.Op)
	}
}

// Run applies every step in order. A failed step is recorded and the run
// continues.
func (l *Launchpool) Run(ctx context.Context, steps []config.Step) []Result {
	results := make([]Result, 0, len(steps))
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			results = append(results, Result{Step: step, Err: err})
			continue
		}
		outputs, err := l.Apply(ctx, step)
		if err != nil {
			l.log.Warn("step failed", zap.Int("step", i), zap.String("op", string(step.Op)), zap.Error(err))
		}
		results = append(results, Result{Step: step, Outputs: outputs, Err: err})
	}
	return results
}
