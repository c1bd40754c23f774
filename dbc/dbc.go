package dbc

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
	"github.com/krazyTry/launchpool-go/events"
	"github.com/krazyTry/launchpool-go/ledger"
	"github.com/krazyTry/launchpool-go/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Config describes a bonding-curve sale. Address is the sale's own ledger
// account and must hold the token inventory.
type Config struct {
	Address   solana.PublicKey
	Admin     solana.PublicKey
	BaseMint  solana.PublicKey
	TokenMint solana.PublicKey

	PriceFloor         *uint256.Int
	MigrationThreshold *uint256.Int
}

func DefaultConfig() Config {
	return Config{
		PriceFloor:         shared.DefaultPriceFloor.Clone(),
		MigrationThreshold: shared.DefaultMigrationThreshold.Clone(),
	}
}

func (c Config) validate() error {
	if c.Address.IsZero() || c.Admin.IsZero() || c.BaseMint.IsZero() || c.TokenMint.IsZero() {
		return fmt.Errorf("sale config: %w", shared.ErrInvalidAddress)
	}
	if c.BaseMint.Equals(c.TokenMint) {
		return fmt.Errorf("sale config: identical mints: %w", shared.ErrInvalidAsset)
	}
	if c.PriceFloor == nil || c.PriceFloor.IsZero() {
		return fmt.Errorf("sale config: price floor must be positive: %w", shared.ErrInvalidAmount)
	}
	if c.MigrationThreshold == nil || c.MigrationThreshold.IsZero() {
		return fmt.Errorf("sale config: migration threshold must be positive: %w", shared.ErrInvalidAmount)
	}
	return nil
}

// Sale sells tokens along a bonding curve and hands everything it holds to
// a migration target once the raised amount reaches the threshold.
type Sale struct {
	cfg    Config
	ledger ledger.Ledger
	base   ledger.Token
	token  ledger.Token
	broker events.Broker
	log    *zap.Logger

	busy   atomic.Bool
	mu     sync.RWMutex
	state  *SaleState
	target MigrationTarget
}

type Option func(*Sale)

func WithLogger(log *zap.Logger) Option {
	return func(s *Sale) {
		if log != nil {
			s.log = log
		}
	}
}

func WithBroker(broker events.Broker) Option {
	return func(s *Sale) {
		if broker != nil {
			s.broker = broker
		}
	}
}

func NewSale(cfg Config, l ledger.Ledger, opts ...Option) (*Sale, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	s := &Sale{
		cfg:    cfg,
		ledger: l,
		base:   l.Token(cfg.BaseMint),
		token:  l.Token(cfg.TokenMint),
		broker: events.Nop,
		log:    zap.NewNop(),
		state:  &SaleState{TotalRaised: new(uint256.Int)},
	}
	for _, fn := range opts {
		fn(s)
	}
	s.log = s.log.Named("dbc").With(zap.Stringer("sale", cfg.Address))
	return s, nil
}

func (s *Sale) Address() solana.PublicKey { return s.cfg.Address }
func (s *Sale) Config() Config            { return s.cfg }

func (s *Sale) snapshot() *SaleState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Sale) setState(next *SaleState) {
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
}

func (s *Sale) State() *SaleState {
	return s.snapshot().Clone()
}

func (s *Sale) TotalRaised() *uint256.Int {
	return s.snapshot().TotalRaised.Clone()
}

func (s *Sale) Migrated() bool {
	return s.snapshot().MigrationTriggered
}

func (s *Sale) Status() Status {
	return s.snapshot().Status()
}

// MigrationProgress is TotalRaised/MigrationThreshold capped at 1.
func (s *Sale) MigrationProgress() decimal.Decimal {
	return GetMigrationProgress(s.snapshot().TotalRaised, s.cfg.MigrationThreshold)
}

// CurrentPrice is the base-asset price of one whole token.
func (s *Sale) CurrentPrice() decimal.Decimal {
	return GetPrice(s.cfg.PriceFloor, s.snapshot().TotalRaised)
}

// Inventory is the token balance still held by the sale.
func (s *Sale) Inventory(ctx context.Context) (*uint256.Int, error) {
	return s.token.BalanceOf(ctx, s.cfg.Address)
}

func (s *Sale) MarshalState() ([]byte, error) {
	return s.snapshot().MarshalBorsh()
}

// UnmarshalState restores a marshalled state. A state that names a
// migration target requires the same target to be configured first. The
// restored state may not lower TotalRaised or reopen a migrated sale.
func (s *Sale) UnmarshalState(data []byte) error {
	next, err := UnmarshalSaleState(data)
	if err != nil {
		return err
	}
	if !s.busy.CompareAndSwap(false, true) {
		return shared.ErrReentrant
	}
	defer s.busy.Store(false)

	cur := s.snapshot()
	if cur.MigrationTriggered && !next.MigrationTriggered {
		return fmt.Errorf("restore open state over migrated sale: %w", shared.ErrSaleClosed)
	}
	if next.TotalRaised.Lt(cur.TotalRaised) {
		return fmt.Errorf("restore total raised %s below %s: %w",
			next.TotalRaised.Dec(), cur.TotalRaised.Dec(), shared.ErrInvalidAmount)
	}
	if !next.Pool.IsZero() && (s.target == nil || !s.target.Address().Equals(next.Pool)) {
		return fmt.Errorf("restore sale state with target %s: %w", next.Pool, shared.ErrNotConfigured)
	}
	if next.Pool.IsZero() && s.target != nil {
		next.Pool = s.target.Address()
	}
	s.setState(next)
	return nil
}

type txn struct {
	calls  []func(ctx context.Context, tx *txn) error
	events []events.Event
}

func (t *txn) call(fn func(ctx context.Context, tx *txn) error) { t.calls = append(t.calls, fn) }
func (t *txn) emit(e events.Event)                              { t.events = append(t.events, e) }

// run publishes the state built by build before any ledger call and rolls
// both back if a call fails. Calls may queue further events.
func (s *Sale) run(ctx context.Context, op string, build func(next *SaleState, tx *txn) error) error {
	if !s.busy.CompareAndSwap(false, true) {
		return shared.ErrReentrant
	}
	defer s.busy.Store(false)

	prev := s.snapshot()
	next := prev.Clone()
	tx := &txn{}
	if err := build(next, tx); err != nil {
		s.log.Debug("operation rejected", zap.String("op", op), zap.Error(err))
		return err
	}

	sn := s.ledger.Snapshot()
	s.setState(next)
	for _, fn := range tx.calls {
		if err := fn(ctx, tx); err != nil {
			s.ledger.Revert(sn)
			s.setState(prev)
			s.log.Debug("operation reverted", zap.String("op", op), zap.Error(err))
			return err
		}
	}
	s.ledger.Commit(sn)

	for _, e := range tx.events {
		s.broker.Send(e)
	}
	return nil
}
