package shared

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount            = errors.New("invalid amount")
	ErrInvalidAsset             = errors.New("invalid asset")
	ErrInsufficientBalance      = errors.New("insufficient balance")
	ErrInsufficientSharesMinted = errors.New("insufficient shares minted")
	ErrInsufficientOutput       = errors.New("insufficient output amount")
	ErrSaleClosed               = errors.New("sale closed")
	ErrUnauthorized             = errors.New("unauthorized")
	ErrNotConfigured            = errors.New("not configured")

	ErrReentrant         = errors.New("reentrant call")
	ErrAlreadyConfigured = errors.New("already configured")
	ErrOverflow          = errors.New("arithmetic overflow")
	ErrInvalidAddress    = errors.New("invalid address")

	ErrZeroPayment           = fmt.Errorf("%w: zero payment", ErrInvalidAmount)
	ErrInsufficientInventory = fmt.Errorf("%w: sale inventory", ErrInsufficientBalance)
)
