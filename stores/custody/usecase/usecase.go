package usecase

import (
	"time"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/custody"
	"github.com/x-xyz/marketplace/service/journal"
	"github.com/x-xyz/marketplace/service/lock"
)

var timeNow = time.Now

type impl struct {
	repo        custody.Repo
	locker      lock.Locker
	collections map[domain.Address]custody.Collection
}

// New returns the custody book of the given collections. Mutations share
// locker with the marketplace so ownership cannot change under a running unit.
func New(repo custody.Repo, locker lock.Locker, collections []custody.Collection) custody.Usecase {
	m := map[domain.Address]custody.Collection{}
	for _, col := range collections {
		col.Address = col.Address.ToLower()
		m[col.Address] = col
	}
	return &impl{
		repo:        repo,
		locker:      locker,
		collections: m,
	}
}

// guard takes the lock unless c already runs inside a unit that holds it
func (im *impl) guard(c ctx.Ctx) (func(), error) {
	if journal.From(c) != nil {
		return func() {}, nil
	}
	return im.locker.Lock(c)
}

func (im *impl) GetCollection(c ctx.Ctx, collection domain.Address) (*custody.Collection, error) {
	col, ok := im.collections[collection.ToLower()]
	if !ok {
		return nil, custody.ErrUnknownCollection
	}
	return &col, nil
}

func (im *impl) GetToken(c ctx.Ctx, collection domain.Address, id domain.TokenId) (*custody.Token, error) {
	if _, err := im.GetCollection(c, collection); err != nil {
		return nil, err
	}
	t, err := im.repo.FindToken(c, collection, id)
	if err == domain.ErrNotFound {
		return nil, custody.ErrTokenNotFound
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "collection": collection, "tokenId": id}).Error("repo.FindToken failed")
		return nil, err
	}
	return t, nil
}

func (im *impl) Mint(c ctx.Ctx, caller, collection domain.Address) (domain.TokenId, error) {
	col, err := im.GetCollection(c, collection)
	if err != nil {
		return "", err
	}
	if caller.IsEmpty() {
		return "", custody.ErrInvalidReceiver
	}

	unlock, err := im.guard(c)
	if err != nil {
		return "", err
	}
	defer unlock()

	n, err := im.repo.NextTokenId(c, col.Address)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "collection": col.Address}).Error("repo.NextTokenId failed")
		return "", err
	}
	t := custody.Token{
		Collection: col.Address,
		TokenId:    domain.TokenIdFromUint64(n),
		Owner:      caller.ToLower(),
		TokenURI:   col.TokenURI,
		MintedAt:   timeNow().UTC(),
	}
	if err := im.repo.UpsertToken(c, t); err != nil {
		c.WithFields(log.Fields{"err": err, "token": t}).Error("repo.UpsertToken failed")
		return "", err
	}
	journal.Record(c, func(c ctx.Ctx) error {
		return im.repo.RemoveToken(c, t.Collection, t.TokenId)
	})
	return t.TokenId, nil
}

// restore registers an undo step putting prev back
func (im *impl) restore(c ctx.Ctx, prev custody.Token) {
	journal.Record(c, func(c ctx.Ctx) error {
		return im.repo.UpsertToken(c, prev)
	})
}

func (im *impl) isOwnerOrOperator(c ctx.Ctx, t *custody.Token, who domain.Address) (bool, error) {
	if t.Owner.Equals(who) {
		return true, nil
	}
	ok, err := im.repo.IsOperator(c, t.Collection, t.Owner, who)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "owner": t.Owner, "operator": who}).Error("repo.IsOperator failed")
		return false, err
	}
	return ok, nil
}

func (im *impl) Approve(c ctx.Ctx, caller, collection domain.Address, id domain.TokenId, operator domain.Address) error {
	unlock, err := im.guard(c)
	if err != nil {
		return err
	}
	defer unlock()

	t, err := im.GetToken(c, collection, id)
	if err != nil {
		return err
	}
	if t.Owner.Equals(operator) {
		return custody.ErrApproveToOwner
	}
	if ok, err := im.isOwnerOrOperator(c, t, caller); err != nil {
		return err
	} else if !ok {
		return custody.ErrNotAuthorized
	}

	next := *t
	next.Approved = operator.ToLower()
	if err := im.repo.UpsertToken(c, next); err != nil {
		c.WithFields(log.Fields{"err": err, "token": next}).Error("repo.UpsertToken failed")
		return err
	}
	im.restore(c, *t)
	return nil
}

func (im *impl) SetApprovalForAll(c ctx.Ctx, caller, collection, operator domain.Address, approved bool) error {
	col, err := im.GetCollection(c, collection)
	if err != nil {
		return err
	}
	if caller.Equals(operator) {
		return custody.ErrApproveToCaller
	}

	unlock, err := im.guard(c)
	if err != nil {
		return err
	}
	defer unlock()

	prev, err := im.repo.IsOperator(c, col.Address, caller, operator)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "owner": caller, "operator": operator}).Error("repo.IsOperator failed")
		return err
	}
	a := custody.OperatorApproval{Collection: col.Address, Owner: caller, Operator: operator, Approved: approved}
	if err := im.repo.SetOperator(c, a); err != nil {
		c.WithFields(log.Fields{"err": err, "approval": a}).Error("repo.SetOperator failed")
		return err
	}
	journal.Record(c, func(c ctx.Ctx) error {
		a.Approved = prev
		return im.repo.SetOperator(c, a)
	})
	return nil
}

func (im *impl) TransferFrom(c ctx.Ctx, operator, collection domain.Address, id domain.TokenId, from, to domain.Address) error {
	if to.IsEmpty() {
		return custody.ErrInvalidReceiver
	}

	unlock, err := im.guard(c)
	if err != nil {
		return err
	}
	defer unlock()

	t, err := im.GetToken(c, collection, id)
	if err != nil {
		return err
	}
	if !t.Owner.Equals(from) {
		return custody.ErrWrongOwner
	}
	authorized := operator.Equals(from) || (!t.Approved.IsEmpty() && t.Approved.Equals(operator))
	if !authorized {
		if authorized, err = im.repo.IsOperator(c, t.Collection, from, operator); err != nil {
			c.WithFields(log.Fields{"err": err, "owner": from, "operator": operator}).Error("repo.IsOperator failed")
			return err
		}
	}
	if !authorized {
		return custody.ErrNotAuthorized
	}

	next := *t
	next.Owner = to.ToLower()
	next.Approved = ""
	if err := im.repo.UpsertToken(c, next); err != nil {
		c.WithFields(log.Fields{"err": err, "token": next}).Error("repo.UpsertToken failed")
		return err
	}
	im.restore(c, *t)

	c.WithFields(log.Fields{
		"collection": t.Collection,
		"tokenId":    t.TokenId,
		"from":       from,
		"to":         to,
	}).Info("token transferred")
	return nil
}

func (im *impl) OwnerOf(c ctx.Ctx, collection domain.Address, id domain.TokenId) (domain.Address, error) {
	t, err := im.GetToken(c, collection, id)
	if err != nil {
		return "", err
	}
	return t.Owner, nil
}

func (im *impl) GetApproved(c ctx.Ctx, collection domain.Address, id domain.TokenId) (domain.Address, error) {
	t, err := im.GetToken(c, collection, id)
	if err != nil {
		return "", err
	}
	return t.Approved, nil
}

func (im *impl) IsApprovedForAll(c ctx.Ctx, collection, owner, operator domain.Address) (bool, error) {
	col, err := im.GetCollection(c, collection)
	if err != nil {
		return false, err
	}
	ok, err := im.repo.IsOperator(c, col.Address, owner, operator)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "owner": owner, "operator": operator}).Error("repo.IsOperator failed")
		return false, err
	}
	return ok, nil
}

func (im *impl) BalanceOf(c ctx.Ctx, collection, owner domain.Address) (int, error) {
	col, err := im.GetCollection(c, collection)
	if err != nil {
		return 0, err
	}
	if owner.IsEmpty() {
		return 0, custody.ErrInvalidReceiver
	}
	n, err := im.repo.CountByOwner(c, col.Address, owner)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "owner": owner}).Error("repo.CountByOwner failed")
		return 0, err
	}
	return n, nil
}

func (im *impl) TokenCounter(c ctx.Ctx, collection domain.Address) (uint64, error) {
	col, err := im.GetCollection(c, collection)
	if err != nil {
		return 0, err
	}
	n, err := im.repo.TokenCounter(c, col.Address)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "collection": col.Address}).Error("repo.TokenCounter failed")
		return 0, err
	}
	return n, nil
}
