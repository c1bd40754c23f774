package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
	"github.com/krazyTry/launchpool-go/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKey() solana.PublicKey {
	return solana.NewWallet().PublicKey()
}

func TestBookTransfer(t *testing.T) {
	ctx := context.Background()
	b := NewBook()
	mint, alice, bob := newKey(), newKey(), newKey()
	require.NoError(t, b.Credit(mint, alice, uint256.NewInt(100)))

	tok := b.Token(mint)
	assert.Equal(t, mint, tok.Mint())
	require.NoError(t, tok.Transfer(ctx, alice, bob, uint256.NewInt(40)))

	bal, err := tok.BalanceOf(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(60), bal.Uint64())
	assert.Equal(t, uint64(40), b.Balance(mint, bob).Uint64())

	err = tok.Transfer(ctx, alice, bob, uint256.NewInt(61))
	require.ErrorIs(t, err, ErrInsufficientFunds)
	require.ErrorIs(t, err, shared.ErrInsufficientBalance)
	assert.Equal(t, uint64(60), b.Balance(mint, alice).Uint64())
}

func TestBookTransferFrom(t *testing.T) {
	ctx := context.Background()
	b := NewBook()
	mint, alice, pool := newKey(), newKey(), newKey()
	require.NoError(t, b.Credit(mint, alice, uint256.NewInt(100)))
	tok := b.Token(mint)

	err := tok.TransferFrom(ctx, pool, alice, pool, uint256.NewInt(10))
	require.ErrorIs(t, err, ErrInsufficientAllowance)

	b.Approve(mint, alice, pool, uint256.NewInt(30))
	require.NoError(t, tok.TransferFrom(ctx, pool, alice, pool, uint256.NewInt(10)))
	assert.Equal(t, uint64(20), b.Allowance(mint, alice, pool).Uint64())
	assert.Equal(t, uint64(10), b.Balance(mint, pool).Uint64())

	// a failed movement leaves the allowance untouched
	b.Approve(mint, alice, pool, uint256.NewInt(1000))
	err = tok.TransferFrom(ctx, pool, alice, pool, uint256.NewInt(500))
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, uint64(1000), b.Allowance(mint, alice, pool).Uint64())
}

func TestBookSnapshotRevert(t *testing.T) {
	ctx := context.Background()
	b := NewBook()
	mint, alice, bob := newKey(), newKey(), newKey()
	require.NoError(t, b.Credit(mint, alice, uint256.NewInt(100)))
	tok := b.Token(mint)

	outer := b.Snapshot()
	require.NoError(t, tok.Transfer(ctx, alice, bob, uint256.NewInt(10)))

	inner := b.Snapshot()
	require.NoError(t, tok.Transfer(ctx, alice, bob, uint256.NewInt(20)))
	b.Revert(inner)
	assert.Equal(t, uint64(90), b.Balance(mint, alice).Uint64())

	inner = b.Snapshot()
	require.NoError(t, tok.Transfer(ctx, alice, bob, uint256.NewInt(5)))
	b.Commit(inner)
	assert.Equal(t, uint64(85), b.Balance(mint, alice).Uint64())

	// committed inner changes are still undone by the outer revert
	b.Revert(outer)
	assert.Equal(t, uint64(100), b.Balance(mint, alice).Uint64())
	assert.True(t, b.Balance(mint, bob).IsZero())
}

func TestBookHook(t *testing.T) {
	ctx := context.Background()
	b := NewBook()
	mint, alice, bob := newKey(), newKey(), newKey()
	require.NoError(t, b.Credit(mint, alice, uint256.NewInt(100)))

	errHook := errors.New("receiver rejected")
	var seen int
	b.OnTransfer(func(_ context.Context, m, from, to solana.PublicKey, amount *uint256.Int) error {
		seen++
		if to == bob {
			return errHook
		}
		return nil
	})

	sn := b.Snapshot()
	err := b.Token(mint).Transfer(ctx, alice, bob, uint256.NewInt(1))
	require.ErrorIs(t, err, errHook)
	b.Revert(sn)

	assert.Equal(t, 1, seen)
	assert.Equal(t, uint64(100), b.Balance(mint, alice).Uint64())
}
