package dbc

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
	solanago "github.com/krazyTry/launchpool-go/solana"
	"github.com/krazyTry/launchpool-go/u256"
)

// Status is the lifecycle stage of a sale.
type Status uint8

const (
	StatusOpen Status = iota
	StatusMigrated
)

func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusMigrated:
		return "migrated"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

type SaleState struct {
	TotalRaised        *uint256.Int
	MigrationTriggered bool
	// Pool is the migration target, zero until configured.
	Pool solana.PublicKey
}

func (s *SaleState) Clone() *SaleState {
	return &SaleState{
		TotalRaised:        u256.Clone(s.TotalRaised),
		MigrationTriggered: s.MigrationTriggered,
		Pool:               s.Pool,
	}
}

func (s *SaleState) Status() Status {
	if s.MigrationTriggered {
		return StatusMigrated
	}
	return StatusOpen
}

const saleStateAccount = "SaleState"

type saleStateLayout struct {
	TotalRaised        u256.Word
	MigrationTriggered bool
	Pool               solana.PublicKey
}

func (s *SaleState) MarshalBorsh() ([]byte, error) {
	return solanago.EncodeAccount(saleStateAccount, saleStateLayout{
		TotalRaised:        u256.ToWord(s.TotalRaised),
		MigrationTriggered: s.MigrationTriggered,
		Pool:               s.Pool,
	})
}

func UnmarshalSaleState(data []byte) (*SaleState, error) {
	var layout saleStateLayout
	if err := solanago.DecodeAccount(saleStateAccount, data, &layout); err != nil {
		return nil, err
	}
	return &SaleState{
		TotalRaised:        u256.FromWord(layout.TotalRaised),
		MigrationTriggered: layout.MigrationTriggered,
		Pool:               layout.Pool,
	}, nil
}
