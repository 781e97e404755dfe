package repository

import (
	"sync"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/custody"
)

type tokenKey struct {
	collection domain.Address
	id         domain.TokenId
}

type operatorKey struct {
	collection domain.Address
	owner      domain.Address
	operator   domain.Address
}

type memoryRepo struct {
	mu        sync.RWMutex
	tokens    map[tokenKey]custody.Token
	counters  map[domain.Address]uint64
	operators map[operatorKey]bool
}

func NewMemory() custody.Repo {
	return &memoryRepo{
		tokens:    map[tokenKey]custody.Token{},
		counters:  map[domain.Address]uint64{},
		operators: map[operatorKey]bool{},
	}
}

func (r *memoryRepo) FindToken(c ctx.Ctx, collection domain.Address, id domain.TokenId) (*custody.Token, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tokens[tokenKey{collection.ToLower(), id}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (r *memoryRepo) UpsertToken(c ctx.Ctx, t custody.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t.Collection = t.Collection.ToLower()
	t.Owner = t.Owner.ToLower()
	t.Approved = t.Approved.ToLower()
	r.tokens[tokenKey{t.Collection, t.TokenId}] = t
	return nil
}

func (r *memoryRepo) RemoveToken(c ctx.Ctx, collection domain.Address, id domain.TokenId) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tokens, tokenKey{collection.ToLower(), id})
	return nil
}

func (r *memoryRepo) CountByOwner(c ctx.Ctx, collection, owner domain.Address) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for k, t := range r.tokens {
		if k.collection.Equals(collection) && t.Owner.Equals(owner) {
			n++
		}
	}
	return n, nil
}

func (r *memoryRepo) NextTokenId(c ctx.Ctx, collection domain.Address) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := collection.ToLower()
	r.counters[k]++
	return r.counters[k], nil
}

func (r *memoryRepo) TokenCounter(c ctx.Ctx, collection domain.Address) (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.counters[collection.ToLower()], nil
}

func (r *memoryRepo) SetOperator(c ctx.Ctx, a custody.OperatorApproval) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := operatorKey{a.Collection.ToLower(), a.Owner.ToLower(), a.Operator.ToLower()}
	if !a.Approved {
		delete(r.operators, k)
		return nil
	}
	r.operators[k] = true
	return nil
}

func (r *memoryRepo) IsOperator(c ctx.Ctx, collection, owner, operator domain.Address) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.operators[operatorKey{collection.ToLower(), owner.ToLower(), operator.ToLower()}], nil
}
