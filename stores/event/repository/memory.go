package repository

import (
	"sync"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain/marketplace"
)

type memoryRepo struct {
	mu     sync.RWMutex
	events []marketplace.Event
}

func NewMemory() marketplace.EventRepo {
	return &memoryRepo{}
}

func (r *memoryRepo) Store(c ctx.Ctx, evts ...marketplace.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, evts...)
	return nil
}

func matches(o *marketplace.EventFindAllOptions, e *marketplace.Event) bool {
	if o.Collection != nil && !e.Collection.Equals(*o.Collection) {
		return false
	}
	if o.TokenId != nil && e.TokenId != *o.TokenId {
		return false
	}
	if o.Type != nil && e.Type != *o.Type {
		return false
	}
	if o.Account != nil {
		a := *o.Account
		if !e.Seller.Equals(a) && !e.Buyer.Equals(a) && !e.Caller.Equals(a) {
			return false
		}
	}
	return true
}

func (r *memoryRepo) FindAll(c ctx.Ctx, opts ...marketplace.EventFindAllOptionsFunc) ([]marketplace.Event, error) {
	o, err := marketplace.GetEventFindAllOptions(opts...)
	if err != nil {
		c.WithField("err", err).Error("marketplace.GetEventFindAllOptions failed")
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	offset, limit := 0, 0
	if o.Offset != nil {
		offset = int(*o.Offset)
	}
	if o.Limit != nil {
		limit = int(*o.Limit)
	}

	res := []marketplace.Event{}
	skipped := 0
	for i := len(r.events) - 1; i >= 0; i-- {
		e := r.events[i]
		if !matches(&o, &e) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		res = append(res, e)
		if limit > 0 && len(res) == limit {
			break
		}
	}
	return res, nil
}
