package listing

import (
	"fmt"
	"time"

	"github.com/holiman/uint256"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
)

// Id identifies a listing by the listed token
type Id struct {
	Collection domain.Address
	TokenId    domain.TokenId
}

func (id Id) String() string {
	return fmt.Sprintf("%s/%s", id.Collection.ToLowerStr(), id.TokenId)
}

// Listing is an offer to sell one token at a fixed price. The zero value
// stands for "not listed" at the public accessor only, repositories report
// absence with a nil *Listing.
type Listing struct {
	Seller   domain.Address
	Price    uint256.Int
	ListedAt time.Time
}

// IsZero reports whether l is the unlisted placeholder
func (l Listing) IsZero() bool {
	return l.Seller.IsEmpty() && l.Price.IsZero()
}

// Entry is a listing together with its key
type Entry struct {
	Id      Id
	Listing Listing
}

type FindAllOptions struct {
	Seller     *domain.Address
	Collection *domain.Address
	Offset     *int32
	Limit      *int32
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

func WithSeller(seller domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		s := seller.ToLower()
		options.Seller = &s
		return nil
	}
}

func WithCollection(collection domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		c := collection.ToLower()
		options.Collection = &c
		return nil
	}
}

func WithPagination(offset, limit int32) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		if offset < 0 || limit < 0 {
			return domain.ErrBadParamInput
		}
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

// Repo stores active listings. Put and Clear do no validation, the
// marketplace usecase owns every precondition.
type Repo interface {
	// Get returns nil when id is not listed
	Get(c ctx.Ctx, id Id) (*Listing, error)
	Put(c ctx.Ctx, id Id, l Listing) error
	Clear(c ctx.Ctx, id Id) error
	// FindAll is sorted by collection then token id
	FindAll(c ctx.Ctx, opts ...FindAllOptionsFunc) ([]Entry, error)
}
