package damm

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
	"github.com/krazyTry/launchpool-go/shared"
	solanago "github.com/krazyTry/launchpool-go/solana"
	"github.com/krazyTry/launchpool-go/u256"
)

// PoolState is the mutable record of a pool. Operations never mutate a
// published PoolState; they work on a Clone and swap it in on commit.
type PoolState struct {
	ReserveA       *uint256.Int
	ReserveB       *uint256.Int
	TotalShares    *uint256.Int
	Shares         map[solana.PublicKey]*uint256.Int
	FeesCollectedA *uint256.Int
	FeesCollectedB *uint256.Int
}

func newPoolState() *PoolState {
	return &PoolState{
		ReserveA:       new(uint256.Int),
		ReserveB:       new(uint256.Int),
		TotalShares:    new(uint256.Int),
		Shares:         make(map[solana.PublicKey]*uint256.Int),
		FeesCollectedA: new(uint256.Int),
		FeesCollectedB: new(uint256.Int),
	}
}

func (s *PoolState) Clone() *PoolState {
	out := &PoolState{
		ReserveA:       u256.Clone(s.ReserveA),
		ReserveB:       u256.Clone(s.ReserveB),
		TotalShares:    u256.Clone(s.TotalShares),
		Shares:         make(map[solana.PublicKey]*uint256.Int, len(s.Shares)),
		FeesCollectedA: u256.Clone(s.FeesCollectedA),
		FeesCollectedB: u256.Clone(s.FeesCollectedB),
	}
	for owner, amount := range s.Shares {
		out.Shares[owner] = u256.Clone(amount)
	}
	return out
}

func (s *PoolState) SharesOf(owner solana.PublicKey) *uint256.Int {
	if v, ok := s.Shares[owner]; ok {
		return v
	}
	return new(uint256.Int)
}

func (s *PoolState) reserves(side shared.Side) (in, out *uint256.Int) {
	if side == shared.SideA {
		return s.ReserveA, s.ReserveB
	}
	return s.ReserveB, s.ReserveA
}

func (s *PoolState) fees(side shared.Side) *uint256.Int {
	if side == shared.SideA {
		return s.FeesCollectedA
	}
	return s.FeesCollectedB
}

// Validate checks the share-sum and paired-reserve invariants.
func (s *PoolState) Validate() error {
	sum := new(uint256.Int)
	for owner, amount := range s.Shares {
		if _, overflow := sum.AddOverflow(sum, amount); overflow {
			return fmt.Errorf("shares of %s: %w", owner, shared.ErrOverflow)
		}
	}
	if !sum.Eq(s.TotalShares) {
		return fmt.Errorf("total shares %s != sum of shares %s", s.TotalShares.Dec(), sum.Dec())
	}
	if s.ReserveA.IsZero() != s.ReserveB.IsZero() {
		return fmt.Errorf("unpaired reserves %s/%s", s.ReserveA.Dec(), s.ReserveB.Dec())
	}
	return nil
}

const poolStateAccount = "PoolState"

type shareLayout struct {
	Owner  solana.PublicKey
	Amount u256.Word
}

type poolStateLayout struct {
	ReserveA       u256.Word
	ReserveB       u256.Word
	TotalShares    u256.Word
	FeesCollectedA u256.Word
	FeesCollectedB u256.Word
	Shares         []shareLayout
}

// MarshalBorsh encodes the state with shares sorted by owner so equal
// states encode to equal bytes.
func (s *PoolState) MarshalBorsh() ([]byte, error) {
	layout := poolStateLayout{
		ReserveA:       u256.ToWord(s.ReserveA),
		ReserveB:       u256.ToWord(s.ReserveB),
		TotalShares:    u256.ToWord(s.TotalShares),
		FeesCollectedA: u256.ToWord(s.FeesCollectedA),
		FeesCollectedB: u256.ToWord(s.FeesCollectedB),
		Shares:         make([]shareLayout, 0, len(s.Shares)),
	}
	for owner, amount := range s.Shares {
		layout.Shares = append(layout.Shares, shareLayout{Owner: owner, Amount: u256.ToWord(amount)})
	}
	sort.Slice(layout.Shares, func(i, j int) bool {
		return bytes.Compare(layout.Shares[i].Owner[:], layout.Shares[j].Owner[:]) < 0
	})

	return solanago.EncodeAccount(poolStateAccount, layout)
}

func UnmarshalPoolState(data []byte) (*PoolState, error) {
	var layout poolStateLayout
	if err := solanago.DecodeAccount(poolStateAccount, data, &layout); err != nil {
		return nil, err
	}
	s := &PoolState{
		ReserveA:       u256.FromWord(layout.ReserveA),
		ReserveB:       u256.FromWord(layout.ReserveB),
		TotalShares:    u256.FromWord(layout.TotalShares),
		Shares:         make(map[solana.PublicKey]*uint256.Int, len(layout.Shares)),
		FeesCollectedA: u256.FromWord(layout.FeesCollectedA),
		FeesCollectedB: u256.FromWord(layout.FeesCollectedB),
	}
	for _, share := range layout.Shares {
		s.Shares[share.Owner] = u256.FromWord(share.Amount)
	}
	return s, nil
}
