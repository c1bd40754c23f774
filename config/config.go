package config

import (
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
	"github.com/krazyTry/launchpool-go/damm"
	"github.com/krazyTry/launchpool-go/dbc"
	"github.com/krazyTry/launchpool-go/shared"
	"github.com/krazyTry/launchpool-go/u256"
	"github.com/tidwall/gjson"
)

// Account is an initial ledger balance.
type Account struct {
	Owner  solana.PublicKey
	Mint   solana.PublicKey
	Amount *uint256.Int
}

// Op names a simulation step.
type Op string

const (
	OpDeposit   Op = "deposit"
	OpWithdraw  Op = "withdraw"
	OpSwap      Op = "swap"
	OpSweep     Op = "sweep"
	OpPurchase  Op = "purchase"
	OpConfigure Op = "configure"
)

// Step is one operation replayed by the simulator. AmountB is used by
// deposits only.
type Step struct {
	Op      Op
	Caller  solana.PublicKey
	Side    shared.Side
	Amount  *uint256.Int
	AmountB *uint256.Int
}

type Config struct {
	Pool     damm.Config
	Sale     dbc.Config
	Accounts []Account
	Steps    []Step
}

func DefaultPoolConfig() damm.Config { return damm.DefaultConfig() }
func DefaultSaleConfig() dbc.Config  { return dbc.DefaultConfig() }

func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse reads a JSON document. Keys are base58, amounts are decimal or
// scientific strings ("5e18") or JSON integers.
func Parse(data []byte) (*Config, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("config: invalid json")
	}
	root := gjson.ParseBytes(data)
	p := &parser{}

	cfg := &Config{
		Pool: DefaultPoolConfig(),
		Sale: DefaultSaleConfig(),
	}

	pool := root.Get("pool")
	cfg.Pool.Address = p.key(pool, "address")
	cfg.Pool.MintA = p.key(pool, "mintA")
	cfg.Pool.MintB = p.key(pool, "mintB")
	cfg.Pool.Beneficiary = p.key(pool, "beneficiary")
	p.optAmount(pool, "minSeedLiquidity", &cfg.Pool.MinSeedLiquidity)
	p.optAmount(pool, "lockedLiquidity", &cfg.Pool.LockedLiquidity)

	sale := root.Get("sale")
	cfg.Sale.Address = p.key(sale, "address")
	cfg.Sale.Admin = p.key(sale, "admin")
	cfg.Sale.BaseMint = p.key(sale, "baseMint")
	cfg.Sale.TokenMint = p.key(sale, "tokenMint")
	p.optAmount(sale, "priceFloor", &cfg.Sale.PriceFloor)
	p.optAmount(sale, "migrationThreshold", &cfg.Sale.MigrationThreshold)

	root.Get("accounts").ForEach(func(_, v gjson.Result) bool {
		cfg.Accounts = append(cfg.Accounts, Account{
			Owner:  p.key(v, "owner"),
			Mint:   p.key(v, "mint"),
			Amount: p.amount(v, "amount"),
		})
		return p.err == nil
	})

	root.Get("steps").ForEach(func(k, v gjson.Result) bool {
		step := Step{
			Op:     Op(v.Get("op").String()),
			Caller: p.key(v, "caller"),
		}
		switch step.Op {
		case OpDeposit:
			step.Amount = p.amount(v, "amount")
			step.AmountB = p.amount(v, "amountB")
		case OpSwap:
			step.Side = p.side(v, "side")
			step.Amount = p.amount(v, "amount")
		case OpWithdraw, OpPurchase:
			step.Amount = p.amount(v, "amount")
		case OpSweep, OpConfigure:
		default:
			p.fail(fmt.Errorf("steps.%s: unknown op %q", k.String(), step.Op))
		}
		cfg.Steps = append(cfg.Steps, step)
		return p.err == nil
	})

	if p.err != nil {
		return nil, fmt.Errorf("config: %w", p.err)
	}
	return cfg, nil
}

// parser keeps the first error so field reads can be chained.
type parser struct {
	err error
}

func (p *parser) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *parser) key(obj gjson.Result, path string) solana.PublicKey {
	v := obj.Get(path)
	if !v.Exists() {
		p.fail(fmt.Errorf("%s: missing", path))
		return solana.PublicKey{}
	}
	key, err := solana.PublicKeyFromBase58(v.String())
	if err != nil {
		p.fail(fmt.Errorf("%s: %w", path, err))
	}
	return key
}

func (p *parser) amount(obj gjson.Result, path string) *uint256.Int {
	v := obj.Get(path)
	if !v.Exists() {
		p.fail(fmt.Errorf("%s: missing", path))
		return new(uint256.Int)
	}
	// Raw keeps JSON numbers beyond float64 precision intact.
	raw := v.String()
	if v.Type == gjson.Number {
		raw = v.Raw
	}
	amount, err := u256.Parse(raw)
	if err != nil {
		p.fail(fmt.Errorf("%s: %w", path, err))
		return new(uint256.Int)
	}
	return amount
}

func (p *parser) optAmount(obj gjson.Result, path string, dst **uint256.Int) {
	if obj.Get(path).Exists() {
		*dst = p.amount(obj, path)
	}
}

func (p *parser) side(obj gjson.Result, path string) shared.Side {
	side, err := shared.ParseSide(obj.Get(path).String())
	if err != nil {
		p.fail(fmt.Errorf("%s: %w", path, err))
	}
	return side
}
