package payout

import (
	"time"

	"github.com/holiman/uint256"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
)

// Payout is an instruction to pay Amount wei to To, settled outside this service
type Payout struct {
	Id        string
	To        domain.Address
	Amount    uint256.Int
	CreatedAt time.Time
}

// Sender moves funds out of the marketplace. Implementations may call back
// into the marketplace, but only with the ctx they receive: any other ctx
// waits for the running unit.
type Sender interface {
	Send(c ctx.Ctx, to domain.Address, amount uint256.Int) error
}

type FindAllOptions struct {
	To     *domain.Address
	Offset *int32
	Limit  *int32
}

type FindAllOptionsFunc func(*FindAllOptions) error

func GetFindAllOptions(opts ...FindAllOptionsFunc) (FindAllOptions, error) {
	res := FindAllOptions{}
	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func WithTo(to domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		t := to.ToLower()
		options.To = &t
		return nil
	}
}

func WithPagination(offset, limit int32) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

type Repo interface {
	Insert(c ctx.Ctx, p Payout) error
	FindAll(c ctx.Ctx, opts ...FindAllOptionsFunc) ([]Payout, error)
}
