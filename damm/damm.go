package damm

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
	"github.com/krazyTry/launchpool-go/decimal_math"
	"github.com/krazyTry/launchpool-go/events"
	"github.com/krazyTry/launchpool-go/ledger"
	"github.com/krazyTry/launchpool-go/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Config describes a pool. Address is the pool's own ledger account.
type Config struct {
	Address     solana.PublicKey
	MintA       solana.PublicKey
	MintB       solana.PublicKey
	Beneficiary solana.PublicKey

	// MinSeedLiquidity is the smallest share amount the first deposit may mint.
	MinSeedLiquidity *uint256.Int
	// LockedLiquidity shares of the first deposit go to shared.LockedLiquidityOwner.
	LockedLiquidity *uint256.Int
}

func DefaultConfig() Config {
	return Config{
		MinSeedLiquidity: uint256.NewInt(shared.DefaultMinSeedLiquidity),
		LockedLiquidity:  new(uint256.Int),
	}
}

func (c Config) validate() error {
	if c.Address.IsZero() || c.MintA.IsZero() || c.MintB.IsZero() || c.Beneficiary.IsZero() {
		return fmt.Errorf("pool config: %w", shared.ErrInvalidAddress)
	}
	if c.MintA.Equals(c.MintB) {
		return fmt.Errorf("pool config: identical mints: %w", shared.ErrInvalidAsset)
	}
	if c.LockedLiquidity != nil && !c.LockedLiquidity.IsZero() &&
		(c.MinSeedLiquidity == nil || !c.MinSeedLiquidity.Gt(c.LockedLiquidity)) {
		return fmt.Errorf("pool config: min seed liquidity must exceed locked liquidity: %w", shared.ErrInvalidAmount)
	}
	return nil
}

// Pool is a two-asset constant-product pool.
type Pool struct {
	cfg    Config
	ledger ledger.Ledger
	tokenA ledger.Token
	tokenB ledger.Token
	broker events.Broker
	log    *zap.Logger

	busy  atomic.Bool
	mu    sync.RWMutex
	state *PoolState
}

type Option func(*Pool)

func WithLogger(log *zap.Logger) Option {
	return func(p *Pool) {
		if log != nil {
			p.log = log
		}
	}
}

func WithBroker(broker events.Broker) Option {
	return func(p *Pool) {
		if broker != nil {
			p.broker = broker
		}
	}
}

func NewPool(cfg Config, l ledger.Ledger, opts ...Option) (*Pool, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.MinSeedLiquidity == nil {
		cfg.MinSeedLiquidity = new(uint256.Int)
	}
	if cfg.LockedLiquidity == nil {
		cfg.LockedLiquidity = new(uint256.Int)
	}

	p := &Pool{
		cfg:    cfg,
		ledger: l,
		tokenA: l.Token(cfg.MintA),
		tokenB: l.Token(cfg.MintB),
		broker: events.Nop,
		log:    zap.NewNop(),
		state:  newPoolState(),
	}
	for _, fn := range opts {
		fn(p)
	}
	p.log = p.log.Named("damm").With(zap.Stringer("pool", cfg.Address))
	return p, nil
}

func (p *Pool) Address() solana.PublicKey     { return p.cfg.Address }
func (p *Pool) Beneficiary() solana.PublicKey { return p.cfg.Beneficiary }

// Mints returns the asset identifiers for sides A and B.
func (p *Pool) Mints() (solana.PublicKey, solana.PublicKey) {
	return p.cfg.MintA, p.cfg.MintB
}

func (p *Pool) snapshot() *PoolState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

func (p *Pool) setState(s *PoolState) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// State returns a deep copy of the current pool state.
func (p *Pool) State() *PoolState {
	return p.snapshot().Clone()
}

func (p *Pool) Reserves() (*uint256.Int, *uint256.Int) {
	s := p.snapshot()
	return s.ReserveA.Clone(), s.ReserveB.Clone()
}

func (p *Pool) TotalShares() *uint256.Int {
	return p.snapshot().TotalShares.Clone()
}

func (p *Pool) SharesOf(owner solana.PublicKey) *uint256.Int {
	return p.snapshot().SharesOf(owner).Clone()
}

func (p *Pool) FeesCollected() (*uint256.Int, *uint256.Int) {
	s := p.snapshot()
	return s.FeesCollectedA.Clone(), s.FeesCollectedB.Clone()
}

func (p *Pool) Seeded() bool {
	return !p.snapshot().TotalShares.IsZero()
}

// SpotPrice is the amount of B paid per unit of A at current reserves.
func (p *Pool) SpotPrice() decimal.Decimal {
	s := p.snapshot()
	if s.ReserveA.IsZero() {
		return decimal.Zero
	}
	return decimal_math.Ratio(s.ReserveB, s.ReserveA, decimal_math.DefaultPrecision)
}

func (p *Pool) MarshalState() ([]byte, error) {
	return p.snapshot().MarshalBorsh()
}

// UnmarshalState loads a previously marshalled state into a pool that has
// never been seeded or accrued fees.
func (p *Pool) UnmarshalState(data []byte) error {
	s, err := UnmarshalPoolState(data)
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("restore pool state: %w", err)
	}
	if !p.busy.CompareAndSwap(false, true) {
		return shared.ErrReentrant
	}
	defer p.busy.Store(false)

	cur := p.snapshot()
	if !cur.TotalShares.IsZero() || !cur.FeesCollectedA.IsZero() || !cur.FeesCollectedB.IsZero() {
		return fmt.Errorf("restore into live pool: %w", shared.ErrAlreadyConfigured)
	}
	p.setState(s)
	return nil
}

// txn collects the deferred ledger interactions and notifications of one
// operation. They run only after the new state is published.
type txn struct {
	calls  []func(ctx context.Context) error
	events []events.Event
}

func (t *txn) call(fn func(ctx context.Context) error) { t.calls = append(t.calls, fn) }
func (t *txn) emit(e events.Event)                     { t.events = append(t.events, e) }

// run executes one mutating operation. build mutates a private copy of the
// state; the copy is published before any ledger call, and both the ledger
// and the state are rolled back if any call fails.
func (p *Pool) run(ctx context.Context, op string, build func(next *PoolState, tx *txn) error) error {
	if !p.busy.CompareAndSwap(false, true) {
		return shared.ErrReentrant
	}
	defer p.busy.Store(false)

	prev := p.snapshot()
	next := prev.Clone()
	tx := &txn{}
	if err := build(next, tx); err != nil {
		p.log.Debug("operation rejected", zap.String("op", op), zap.Error(err))
		return err
	}

	sn := p.ledger.Snapshot()
	p.setState(next)
	for _, fn := range tx.calls {
		if err := fn(ctx); err != nil {
			p.ledger.Revert(sn)
			p.setState(prev)
			p.log.Debug("operation reverted", zap.String("op", op), zap.Error(err))
			return err
		}
	}
	p.ledger.Commit(sn)

	for _, e := range tx.events {
		p.broker.Send(e)
	}
	return nil
}

func (p *Pool) token(side shared.Side) ledger.Token {
	if side == shared.SideA {
		return p.tokenA
	}
	return p.tokenB
}

// pull moves amount from caller into the pool using the pool's allowance.
func (p *Pool) pull(tok ledger.Token, caller solana.PublicKey, amount *uint256.Int) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := tok.TransferFrom(ctx, p.cfg.Address, caller, p.cfg.Address, amount); err != nil {
			return fmt.Errorf("pull %s from %s: %w", amount.Dec(), caller, err)
		}
		return nil
	}
}

func (p *Pool) pay(tok ledger.Token, to solana.PublicKey, amount *uint256.Int) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := tok.Transfer(ctx, p.cfg.Address, to, amount); err != nil {
			return fmt.Errorf("pay %s to %s: %w", amount.Dec(), to, err)
		}
		return nil
	}
}

func checkCaller(caller solana.PublicKey) error {
	if caller.IsZero() {
		return fmt.Errorf("caller: %w", shared.ErrInvalidAddress)
	}
	return nil
}

func positive(name string, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return fmt.Errorf("%s must be positive: %w", name, shared.ErrInvalidAmount)
	}
	return nil
}
