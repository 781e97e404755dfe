package proceeds

import (
	"errors"

	"github.com/holiman/uint256"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
)

var (
	// ErrInsufficientBalance is returned by Debit instead of going negative
	ErrInsufficientBalance = errors.New("insufficient proceeds balance")
)

// Repo is the per-account ledger of withdrawable funds
type Repo interface {
	Get(c ctx.Ctx, account domain.Address) (uint256.Int, error)
	// Credit adds amount saturating at 2^256-1 and returns the amount actually added
	Credit(c ctx.Ctx, account domain.Address, amount uint256.Int) (uint256.Int, error)
	Debit(c ctx.Ctx, account domain.Address, amount uint256.Int) error
	// TakeAll zeroes the balance and returns what it held
	TakeAll(c ctx.Ctx, account domain.Address) (uint256.Int, error)
}

// SaturatingAdd returns a+b capped at 2^256-1 and the part of b actually added
func SaturatingAdd(a, b uint256.Int) (sum, added uint256.Int) {
	if _, overflow := sum.AddOverflow(&a, &b); overflow {
		sum.SetAllOne()
		added.Sub(&sum, &a)
		return sum, added
	}
	return sum, b
}
