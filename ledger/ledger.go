package ledger

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
)

// Token is the per-asset view of the external ledger. Every method fails
// loudly: a returned error aborts the calling operation.
type Token interface {
	Mint() solana.PublicKey
	BalanceOf(ctx context.Context, account solana.PublicKey) (*uint256.Int, error)
	// Transfer pays amount out of from, the account of the calling entity.
	Transfer(ctx context.Context, from, to solana.PublicKey, amount *uint256.Int) error
	// TransferFrom pulls amount out of from on behalf of spender, consuming
	// the allowance from granted to spender.
	TransferFrom(ctx context.Context, spender, from, to solana.PublicKey, amount *uint256.Int) error
	// Approve sets the amount spender may pull out of owner.
	Approve(ctx context.Context, owner, spender solana.PublicKey, amount *uint256.Int) error
}

// Journal scopes a set of ledger mutations so they can be undone together.
type Journal interface {
	Snapshot() int
	Revert(snapshot int)
	Commit(snapshot int)
}

type Ledger interface {
	Journal
	Token(mint solana.PublicKey) Token
}

// TransferHook observes a completed movement. A non-nil error fails the
// transfer that triggered it.
type TransferHook func(ctx context.Context, mint, from, to solana.PublicKey, amount *uint256.Int) error

// Holding is an amount of one asset.
type Holding struct {
	Mint   solana.PublicKey
	Amount *uint256.Int
}
