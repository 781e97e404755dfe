package marketplace

import (
	"time"

	"github.com/holiman/uint256"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
)

type EventType string

const (
	EventNftListed         EventType = "NftListed"
	EventListingCancelled  EventType = "ListingCancelled"
	EventListingUpdated    EventType = "ListingUpdated"
	EventNftBought         EventType = "NftBought"
	EventProceedsWithdrawn EventType = "ProceedsWithdrawn"
)

// Event is the audit record of a completed operation. Fields not carried by
// a type are left empty.
type Event struct {
	Id         string
	Type       EventType
	Collection domain.Address
	TokenId    domain.TokenId
	Seller     domain.Address
	Buyer      domain.Address
	Caller     domain.Address
	Price      uint256.Int
	Amount     uint256.Int
	Time       time.Time
}

type EventFindAllOptions struct {
	Collection *domain.Address
	TokenId    *domain.TokenId
	Type       *EventType
	// Account matches seller, buyer or caller
	Account *domain.Address
	Offset  *int32
	Limit   *int32
}

type EventFindAllOptionsFunc func(*EventFindAllOptions) error

func GetEventFindAllOptions(opts ...EventFindAllOptionsFunc) (EventFindAllOptions, error) {
	res := EventFindAllOptions{}
	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func WithEventCollection(collection domain.Address) EventFindAllOptionsFunc {
	return func(options *EventFindAllOptions) error {
		c := collection.ToLower()
		options.Collection = &c
		return nil
	}
}

func WithEventTokenId(id domain.TokenId) EventFindAllOptionsFunc {
	return func(options *EventFindAllOptions) error {
		options.TokenId = &id
		return nil
	}
}

func WithEventType(t EventType) EventFindAllOptionsFunc {
	return func(options *EventFindAllOptions) error {
		switch t {
		case EventNftListed, EventListingCancelled, EventListingUpdated, EventNftBought, EventProceedsWithdrawn:
		default:
			return domain.ErrBadParamInput
		}
		options.Type = &t
		return nil
	}
}

func WithEventAccount(account domain.Address) EventFindAllOptionsFunc {
	return func(options *EventFindAllOptions) error {
		a := account.ToLower()
		options.Account = &a
		return nil
	}
}

func WithEventPagination(offset, limit int32) EventFindAllOptionsFunc {
	return func(options *EventFindAllOptions) error {
		if offset < 0 || limit < 0 {
			return domain.ErrBadParamInput
		}
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

// EventRepo is the durable audit trail, FindAll returns the newest first
type EventRepo interface {
	Store(c ctx.Ctx, evts ...Event) error
	FindAll(c ctx.Ctx, opts ...EventFindAllOptionsFunc) ([]Event, error)
}

// EventPublisher records committed events and fans them out to notifiers
type EventPublisher interface {
	Publish(c ctx.Ctx, evts ...Event) error
}

// Notifier reacts to a published event. Errors are logged by the publisher.
type Notifier interface {
	Name() string
	Accept(t EventType) bool
	Notify(c ctx.Ctx, evt Event) error
}
