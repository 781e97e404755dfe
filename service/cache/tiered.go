package cache

import (
	"time"

	"github.com/x-xyz/marketplace/base/ctx"
)

// Tier is one layer of a tiered store, MaxTTL caps the ttl of its entries
// when non zero
type Tier struct {
	Store  Store
	MaxTTL time.Duration
}

func (t Tier) ttl(ttl time.Duration) time.Duration {
	if t.MaxTTL > 0 && (ttl == 0 || ttl > t.MaxTTL) {
		return t.MaxTTL
	}
	return ttl
}

type tiered struct {
	tiers []Tier
}

// NewTiered reads tiers in order and backfills the ones in front of a hit
// with the remaining ttl of the hit
func NewTiered(tiers ...Tier) Store {
	return &tiered{tiers: tiers}
}

func (t *tiered) Get(c ctx.Ctx, key string) ([]byte, time.Duration, error) {
	for idx, tier := range t.tiers {
		val, ttl, err := tier.Store.Get(c, key)
		if err == ErrNotFound {
			continue
		} else if err != nil {
			return nil, 0, err
		}

		for _, front := range t.tiers[:idx] {
			if err := front.Store.Set(c, key, val, front.ttl(ttl)); err != nil {
				return nil, 0, err
			}
		}
		return val, ttl, nil
	}
	return nil, 0, ErrNotFound
}

func (t *tiered) Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error {
	for _, tier := range t.tiers {
		if err := tier.Store.Set(c, key, value, tier.ttl(ttl)); err != nil {
			return err
		}
	}
	return nil
}

// Del removes key from every tier, a failing tier does not stop the others
func (t *tiered) Del(c ctx.Ctx, key string) error {
	var firstErr error
	for _, tier := range t.tiers {
		if err := tier.Store.Del(c, key); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
