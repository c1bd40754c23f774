package damm

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/krazyTry/launchpool-go/decimal_math"
	lpmath "github.com/krazyTry/launchpool-go/math"
	"github.com/krazyTry/launchpool-go/shared"
	"github.com/shopspring/decimal"
)

// SwapQuote is the outcome of a swap priced against fixed reserves.
type SwapQuote struct {
	SideIn       shared.Side
	AmountIn     *uint256.Int
	RawOut       *uint256.Int
	Fee          *uint256.Int
	AmountOut    *uint256.Int
	MinAmountOut *uint256.Int
	PriceImpact  decimal.Decimal
}

// GetFee returns amountIn*feeBps(side)/10_000.
func GetFee(side shared.Side, amountIn *uint256.Int) (*uint256.Int, error) {
	return lpmath.MulDiv(amountIn, uint256.NewInt(side.FeeBps()), uint256.NewInt(shared.BasisPointMax), shared.RoundingDown)
}

// GetSwapQuote prices amountIn of side against reserveIn/reserveOut.
// The fee is measured in the input asset but taken out of the output.
func GetSwapQuote(reserveIn, reserveOut *uint256.Int, side shared.Side, amountIn *uint256.Int) (*SwapQuote, error) {
	if !side.Valid() {
		return nil, fmt.Errorf("side %s: %w", side, shared.ErrInvalidAsset)
	}
	if err := positive("amountIn", amountIn); err != nil {
		return nil, err
	}

	denominator, err := lpmath.Add(reserveIn, amountIn)
	if err != nil {
		return nil, err
	}
	rawOut, err := lpmath.MulDiv(reserveOut, amountIn, denominator, shared.RoundingDown)
	if err != nil {
		return nil, err
	}
	fee, err := GetFee(side, amountIn)
	if err != nil {
		return nil, err
	}
	if rawOut.IsZero() || !rawOut.Gt(fee) {
		return nil, fmt.Errorf("raw output %s, fee %s: %w", rawOut.Dec(), fee.Dec(), shared.ErrInsufficientOutput)
	}

	amountOut := new(uint256.Int).Sub(rawOut, fee)
	return &SwapQuote{
		SideIn:       side,
		AmountIn:     amountIn.Clone(),
		RawOut:       rawOut,
		Fee:          fee,
		AmountOut:    amountOut,
		MinAmountOut: amountOut.Clone(),
		PriceImpact:  decimal_math.PriceImpact(reserveIn, reserveOut, amountIn, amountOut),
	}, nil
}

// GetMinAmountOut applies slippageBps to amountOut, rounding down.
func GetMinAmountOut(amountOut *uint256.Int, slippageBps uint64) (*uint256.Int, error) {
	if slippageBps > shared.BasisPointMax {
		return nil, fmt.Errorf("slippage %d bps: %w", slippageBps, shared.ErrInvalidAmount)
	}
	return lpmath.MulDiv(amountOut, uint256.NewInt(shared.BasisPointMax-slippageBps), uint256.NewInt(shared.BasisPointMax), shared.RoundingDown)
}

// QuoteSwap prices a swap against the current reserves without executing it.
func (p *Pool) QuoteSwap(side shared.Side, amountIn *uint256.Int) (*SwapQuote, error) {
	s := p.snapshot()
	if !side.Valid() {
		return nil, fmt.Errorf("side %s: %w", side, shared.ErrInvalidAsset)
	}
	reserveIn, reserveOut := s.reserves(side)
	return GetSwapQuote(reserveIn, reserveOut, side, amountIn)
}

func (p *Pool) QuoteSwapWithSlippage(side shared.Side, amountIn *uint256.Int, slippageBps uint64) (*SwapQuote, error) {
	quote, err := p.QuoteSwap(side, amountIn)
	if err != nil {
		return nil, err
	}
	if quote.MinAmountOut, err = GetMinAmountOut(quote.AmountOut, slippageBps); err != nil {
		return nil, err
	}
	return quote, nil
}
