package events

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
	"github.com/krazyTry/launchpool-go/shared"
)

type Type uint8

const (
	TypeLiquidityAdded Type = iota + 1
	TypeLiquidityRemoved
	TypeSwapExecuted
	TypeFeeCollected
	TypeTokensPurchased
	TypeMigrationTriggered
)

func (t Type) String() string {
	switch t {
	case TypeLiquidityAdded:
		return "liquidity_added"
	case TypeLiquidityRemoved:
		return "liquidity_removed"
	case TypeSwapExecuted:
		return "swap_executed"
	case TypeFeeCollected:
		return "fee_collected"
	case TypeTokensPurchased:
		return "tokens_purchased"
	case TypeMigrationTriggered:
		return "migration_triggered"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// Event is a notification emitted after an operation has committed.
type Event interface {
	Type() Type
	// Source is the pool or sale that emitted the event.
	Source() solana.PublicKey
}

type LiquidityAdded struct {
	Pool     solana.PublicKey
	Provider solana.PublicKey
	AmountA  *uint256.Int
	AmountB  *uint256.Int
	Shares   *uint256.Int
}

func (LiquidityAdded) Type() Type                  { return TypeLiquidityAdded }
func (e LiquidityAdded) Source() solana.PublicKey { return e.Pool }

type LiquidityRemoved struct {
	Pool     solana.PublicKey
	Provider solana.PublicKey
	AmountA  *uint256.Int
	AmountB  *uint256.Int
	Shares   *uint256.Int
}

func (LiquidityRemoved) Type() Type                  { return TypeLiquidityRemoved }
func (e LiquidityRemoved) Source() solana.PublicKey { return e.Pool }

type SwapExecuted struct {
	Pool      solana.PublicKey
	Trader    solana.PublicKey
	SideIn    shared.Side
	AmountIn  *uint256.Int
	AmountOut *uint256.Int
}

func (SwapExecuted) Type() Type                  { return TypeSwapExecuted }
func (e SwapExecuted) Source() solana.PublicKey { return e.Pool }

// FeeCollected is sent when a swap accrues a fee and, with Recipient set,
// when accrued fees are swept to the beneficiary.
type FeeCollected struct {
	Pool      solana.PublicKey
	Side      shared.Side
	Amount    *uint256.Int
	Recipient solana.PublicKey
}

func (FeeCollected) Type() Type                  { return TypeFeeCollected }
func (e FeeCollected) Source() solana.PublicKey { return e.Pool }

func (e FeeCollected) Swept() bool {
	return !e.Recipient.IsZero()
}

type TokensPurchased struct {
	Sale        solana.PublicKey
	Buyer       solana.PublicKey
	Payment     *uint256.Int
	Tokens      *uint256.Int
	TotalRaised *uint256.Int
}

func (TokensPurchased) Type() Type                  { return TypeTokensPurchased }
func (e TokensPurchased) Source() solana.PublicKey { return e.Sale }

type MigrationTriggered struct {
	Sale        solana.PublicKey
	Target      solana.PublicKey
	BaseAmount  *uint256.Int
	TokenAmount *uint256.Int
}

func (MigrationTriggered) Type() Type                  { return TypeMigrationTriggered }
func (e MigrationTriggered) Source() solana.PublicKey { return e.Sale }
