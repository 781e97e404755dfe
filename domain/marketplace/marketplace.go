package marketplace

import (
	"github.com/holiman/uint256"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/listing"
)

// Usecase is the listing and escrow state machine. Every mutating call runs
// as one all-or-nothing unit, calls made from inside the oracle transfer or
// the payout send with the ctx they were given join the running unit.
type Usecase interface {
	ListNft(c ctx.Ctx, caller domain.Address, id listing.Id, price uint256.Int) error
	CancelListing(c ctx.Ctx, caller domain.Address, id listing.Id) error
	UpdateListing(c ctx.Ctx, caller domain.Address, id listing.Id, newPrice uint256.Int) error
	// BuyNft pays exactly the listed price with paid, the value attached to the call
	BuyNft(c ctx.Ctx, caller domain.Address, id listing.Id, paid uint256.Int) error
	// WithdrawProceeds returns the amount sent to caller
	WithdrawProceeds(c ctx.Ctx, caller domain.Address) (uint256.Int, error)

	// GetListing returns the zero Listing for unlisted tokens
	GetListing(c ctx.Ctx, id listing.Id) (listing.Listing, error)
	GetProceeds(c ctx.Ctx, account domain.Address) (uint256.Int, error)
	FindListings(c ctx.Ctx, opts ...listing.FindAllOptionsFunc) ([]listing.Entry, error)
	FindEvents(c ctx.Ctx, opts ...EventFindAllOptionsFunc) ([]Event, error)
}
