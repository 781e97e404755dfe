package repository

import (
	"sync"

	"github.com/holiman/uint256"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/proceeds"
)

type memoryRepo struct {
	mu       sync.Mutex
	balances map[domain.Address]uint256.Int
}

func NewMemory() proceeds.Repo {
	return &memoryRepo{balances: map[domain.Address]uint256.Int{}}
}

func (r *memoryRepo) Get(c ctx.Ctx, account domain.Address) (uint256.Int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.balances[account.ToLower()], nil
}

func (r *memoryRepo) Credit(c ctx.Ctx, account domain.Address, amount uint256.Int) (uint256.Int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := account.ToLower()
	sum, added := proceeds.SaturatingAdd(r.balances[k], amount)
	r.balances[k] = sum
	return added, nil
}

func (r *memoryRepo) Debit(c ctx.Ctx, account domain.Address, amount uint256.Int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := account.ToLower()
	cur := r.balances[k]
	if cur.Lt(&amount) {
		return proceeds.ErrInsufficientBalance
	}
	cur.Sub(&cur, &amount)
	r.balances[k] = cur
	return nil
}

func (r *memoryRepo) TakeAll(c ctx.Ctx, account domain.Address) (uint256.Int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := account.ToLower()
	cur := r.balances[k]
	delete(r.balances, k)
	return cur, nil
}
