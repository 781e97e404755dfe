package repository

import (
	"sync"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain/payout"
)

type memoryRepo struct {
	mu      sync.RWMutex
	payouts []payout.Payout
}

func NewMemory() payout.Repo {
	return &memoryRepo{}
}

func (r *memoryRepo) Insert(c ctx.Ctx, p payout.Payout) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.To = p.To.ToLower()
	r.payouts = append(r.payouts, p)
	return nil
}

// FindAll returns the newest payouts first
func (r *memoryRepo) FindAll(c ctx.Ctx, opts ...payout.FindAllOptionsFunc) ([]payout.Payout, error) {
	o, err := payout.GetFindAllOptions(opts...)
	if err != nil {
		c.WithField("err", err).Error("payout.GetFindAllOptions failed")
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

	res := []payout.Payout{}
	for i := len(r.payouts) - 1; i >= 0; i-- {
		p := r.payouts[i]
		if o.To != nil && !p.To.Equals(*o.To) {
			continue
		}
		if offset > 0 {
			offset--
			continue
		}
		res = append(res, p)
		if limit > 0 && len(res) == limit {
			break
		}
	}
	return res, nil
}
