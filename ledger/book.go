package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
	"github.com/krazyTry/launchpool-go/shared"
)

var (
	ErrInsufficientFunds     = fmt.Errorf("%w: account funds", shared.ErrInsufficientBalance)
	ErrInsufficientAllowance = fmt.Errorf("%w: allowance", shared.ErrInsufficientBalance)
)

var _ Ledger = (*Book)(nil)

type slot struct {
	mint    solana.PublicKey
	owner   solana.PublicKey
	spender solana.PublicKey
}

type change struct {
	key   slot
	prev  *uint256.Int
	allow bool
}

// Book is an in-memory multi-asset ledger with nested snapshots.
type Book struct {
	mu sync.Mutex

	balances   map[slot]*uint256.Int
	allowances map[slot]*uint256.Int

	journal   []change
	revisions []int

	hook TransferHook
}

func NewBook() *Book {
	return &Book{
		balances:   make(map[slot]*uint256.Int),
		allowances: make(map[slot]*uint256.Int),
	}
}

// OnTransfer installs a hook run after every Transfer / TransferFrom.
func (b *Book) OnTransfer(hook TransferHook) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hook = hook
}

func (b *Book) Token(mint solana.PublicKey) Token {
	return &tokenView{book: b, mint: mint}
}

// Credit mints amount of mint to owner.
func (b *Book) Credit(mint, owner solana.PublicKey, amount *uint256.Int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := slot{mint: mint, owner: owner}
	next, overflow := new(uint256.Int).AddOverflow(b.get(b.balances, key), amount)
	if overflow {
		return fmt.Errorf("credit %s: %w", mint, shared.ErrOverflow)
	}
	b.set(b.balances, key, next, false)
	return nil
}

func (b *Book) Approve(mint, owner, spender solana.PublicKey, amount *uint256.Int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.set(b.allowances, slot{mint: mint, owner: owner, spender: spender}, new(uint256.Int).Set(amount), true)
}

func (b *Book) Allowance(mint, owner, spender solana.PublicKey) *uint256.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return new(uint256.Int).Set(b.get(b.allowances, slot{mint: mint, owner: owner, spender: spender}))
}

func (b *Book) Balance(mint, owner solana.PublicKey) *uint256.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return new(uint256.Int).Set(b.get(b.balances, slot{mint: mint, owner: owner}))
}

func (b *Book) Snapshot() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revisions = append(b.revisions, len(b.journal))
	return len(b.revisions)
}

// Revert undoes every change made since snapshot sn was taken and discards
// sn together with any snapshot nested inside it.
func (b *Book) Revert(sn int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if sn < 1 || sn > len(b.revisions) {
		return
	}
	mark := b.revisions[sn-1]
	for i := len(b.journal) - 1; i >= mark; i-- {
		c := b.journal[i]
		target := b.balances
		if c.allow {
			target = b.allowances
		}
		if c.prev == nil {
			delete(target, c.key)
		} else {
			target[c.key] = c.prev
		}
	}
	b.journal = b.journal[:mark]
	b.revisions = b.revisions[:sn-1]
}

// Commit keeps the changes made since sn. They stay revertible through any
// enclosing snapshot.
func (b *Book) Commit(sn int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if sn < 1 || sn > len(b.revisions) {
		return
	}
	b.revisions = b.revisions[:sn-1]
	if len(b.revisions) == 0 {
		b.journal = b.journal[:0]
	}
}

func (b *Book) get(m map[slot]*uint256.Int, key slot) *uint256.Int {
	if v, ok := m[key]; ok {
		return v
	}
	return new(uint256.Int)
}

func (b *Book) set(m map[slot]*uint256.Int, key slot, value *uint256.Int, allow bool) {
	if len(b.revisions) > 0 {
		var prev *uint256.Int
		if v, ok := m[key]; ok {
			prev = v
		}
		b.journal = append(b.journal, change{key: key, prev: prev, allow: allow})
	}
	m[key] = value
}

func (b *Book) move(mint, from, to solana.PublicKey, amount *uint256.Int) error {
	fromKey := slot{mint: mint, owner: from}
	toKey := slot{mint: mint, owner: to}

	remaining, underflow := new(uint256.Int).SubOverflow(b.get(b.balances, fromKey), amount)
	if underflow {
		return fmt.Errorf("transfer %s of %s from %s: %w", amount.Dec(), mint, from, ErrInsufficientFunds)
	}
	if from == to {
		return nil
	}
	credited, overflow := new(uint256.Int).AddOverflow(b.get(b.balances, toKey), amount)
	if overflow {
		return fmt.Errorf("transfer %s of %s to %s: %w", amount.Dec(), mint, to, shared.ErrOverflow)
	}
	b.set(b.balances, fromKey, remaining, false)
	b.set(b.balances, toKey, credited, false)
	return nil
}

func (b *Book) transfer(ctx context.Context, mint, from, to solana.PublicKey, amount *uint256.Int) error {
	b.mu.Lock()
	err := b.move(mint, from, to, amount)
	hook := b.hook
	b.mu.Unlock()
	if err != nil {
		return err
	}
	if hook != nil {
		return hook(ctx, mint, from, to, amount)
	}
	return nil
}

func (b *Book) transferFrom(ctx context.Context, mint, spender, from, to solana.PublicKey, amount *uint256.Int) error {
	b.mu.Lock()
	allowKey := slot{mint: mint, owner: from, spender: spender}
	remaining, underflow := new(uint256.Int).SubOverflow(b.get(b.allowances, allowKey), amount)
	if underflow && spender != from {
		b.mu.Unlock()
		return fmt.Errorf("transfer %s of %s from %s by %s: %w", amount.Dec(), mint, from, spender, ErrInsufficientAllowance)
	}
	err := b.move(mint, from, to, amount)
	if err == nil && spender != from {
		b.set(b.allowances, allowKey, remaining, true)
	}
	hook := b.hook
	b.mu.Unlock()
	if err != nil {
		return err
	}
	if hook != nil {
		return hook(ctx, mint, from, to, amount)
	}
	return nil
}

type tokenView struct {
	book *Book
	mint solana.PublicKey
}

func (t *tokenView) Mint() solana.PublicKey {
	return t.mint
}

func (t *tokenView) BalanceOf(_ context.Context, account solana.PublicKey) (*uint256.Int, error) {
	return t.book.Balance(t.mint, account), nil
}

func (t *tokenView) Transfer(ctx context.Context, from, to solana.PublicKey, amount *uint256.Int) error {
	return t.book.transfer(ctx, t.mint, from, to, amount)
}

func (t *tokenView) TransferFrom(ctx context.Context, spender, from, to solana.PublicKey, amount *uint256.Int) error {
	return t.book.transferFrom(ctx, t.mint, spender, from, to, amount)
}

func (t *tokenView) Approve(_ context.Context, owner, spender solana.PublicKey, amount *uint256.Int) error {
	t.book.Approve(t.mint, owner, spender, amount)
	return nil
}
