package repository

import (
	"sort"
	"sync"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain/listing"
)

type memoryRepo struct {
	mu       sync.RWMutex
	listings map[listing.Id]listing.Listing
}

func NewMemory() listing.Repo {
	return &memoryRepo{listings: map[listing.Id]listing.Listing{}}
}

func key(id listing.Id) listing.Id {
	return listing.Id{Collection: id.Collection.ToLower(), TokenId: id.TokenId}
}

func (r *memoryRepo) Get(c ctx.Ctx, id listing.Id) (*listing.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.listings[key(id)]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *memoryRepo) Put(c ctx.Ctx, id listing.Id, l listing.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l.Seller = l.Seller.ToLower()
	r.listings[key(id)] = l
	return nil
}

func (r *memoryRepo) Clear(c ctx.Ctx, id listing.Id) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.listings, key(id))
	return nil
}

func (r *memoryRepo) FindAll(c ctx.Ctx, opts ...listing.FindAllOptionsFunc) ([]listing.Entry, error) {
	o, err := listing.GetFindAllOptions(opts...)
	if err != nil {
		c.WithField("err", err).Error("listing.GetFindAllOptions failed")
		return nil, err
	}

	r.mu.RLock()
	res := []listing.Entry{}
	for id, l := range r.listings {
		if o.Seller != nil && !l.Seller.Equals(*o.Seller) {
			continue
		}
		if o.Collection != nil && !id.Collection.Equals(*o.Collection) {
			continue
		}
		res = append(res, listing.Entry{Id: id, Listing: l})
	}
	r.mu.RUnlock()

	sort.Slice(res, func(i, j int) bool { return less(res[i].Id, res[j].Id) })
	start, end := page(o.Offset, o.Limit, len(res))
	return res[start:end], nil
}
