package usecase

import (
	"errors"
	"time"

	"github.com/holiman/uint256"
	"golang.org/x/xerrors"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/base/metrics"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/custody"
	"github.com/x-xyz/marketplace/domain/listing"
	"github.com/x-xyz/marketplace/domain/marketplace"
	"github.com/x-xyz/marketplace/domain/payout"
	"github.com/x-xyz/marketplace/domain/proceeds"
	"github.com/x-xyz/marketplace/service/journal"
	"github.com/x-xyz/marketplace/service/lock"
)

var timeNow = time.Now

type Config struct {
	Listings  listing.Repo
	Proceeds  proceeds.Repo
	Oracle    custody.Oracle
	Sender    payout.Sender
	Publisher marketplace.EventPublisher
	Events    marketplace.EventRepo
	Locker    lock.Locker
	// LockWait bounds how long a call waits for the lock, zero waits until
	// the ctx is done
	LockWait time.Duration
	// Operator is the address the marketplace moves tokens as
	Operator domain.Address
	Metrics  metrics.Service
}

type impl struct {
	listings  listing.Repo
	proceeds  proceeds.Repo
	oracle    custody.Oracle
	sender    payout.Sender
	publisher marketplace.EventPublisher
	events    marketplace.EventRepo
	locker    lock.Locker
	lockWait  time.Duration
	operator  domain.Address
	met       metrics.Service
}

func New(cfg Config) marketplace.Usecase {
	met := cfg.Metrics
	if met == nil {
		met = metrics.NewNop()
	}
	return &impl{
		listings:  cfg.Listings,
		proceeds:  cfg.Proceeds,
		oracle:    cfg.Oracle,
		sender:    cfg.Sender,
		publisher: cfg.Publisher,
		events:    cfg.Events,
		locker:    cfg.Locker,
		lockWait:  cfg.LockWait,
		operator:  cfg.Operator.ToLower(),
		met:       met,
	}
}

func normalize(id listing.Id) listing.Id {
	id.Collection = id.Collection.ToLower()
	return id
}

// run executes fn as a unit of work. A call made with the ctx of a running
// unit joins it under a savepoint, otherwise run takes the lock, opens a
// unit and publishes its events once fn returns.
func (im *impl) run(c ctx.Ctx, op string, fn func(c ctx.Ctx, j *journal.Journal) error) (err error) {
	defer im.met.BumpTime("op.time", "op", op).End()
	defer func() {
		im.met.BumpSum("op.count", 1, "op", op, "result", result(err))
	}()

	if j := journal.From(c); j != nil {
		sp := j.Savepoint()
		if err = fn(c, j); err != nil {
			if rerr := j.RollbackTo(c, sp); rerr != nil {
				c.WithFields(log.Fields{"err": rerr, "op": op}).Error("nested rollback failed")
			}
			logFailure(c, op, err, true)
		}
		return err
	}

	unlock, err := im.lock(c, op)
	if err != nil {
		return err
	}
	defer unlock()

	j := journal.New()
	jc := journal.With(c, j)

	defer func() {
		if r := recover(); r != nil {
			if rerr := j.RollbackTo(jc, journal.Savepoint{}); rerr != nil {
				c.WithFields(log.Fields{"err": rerr, "op": op}).Error("rollback after panic failed")
			}
			im.publish(c, j.Events())
			panic(r)
		}
	}()

	if err = fn(jc, j); err != nil {
		if rerr := j.RollbackTo(jc, journal.Savepoint{}); rerr != nil {
			c.WithFields(log.Fields{"err": rerr, "op": op}).Error("rollback failed")
		}
		logFailure(c, op, err, false)
	}
	im.publish(c, j.Events())
	return err
}

func (im *impl) lock(c ctx.Ctx, op string) (func(), error) {
	lc := c
	if im.lockWait > 0 {
		var cancel func()
		lc, cancel = ctx.WithTimeout(c, im.lockWait)
		defer cancel()
	}
	unlock, err := im.locker.Lock(lc)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "op": op}).Error("locker.Lock failed")
		return nil, err
	}
	return unlock, nil
}

// read runs fn against committed state. Inside a unit it sees the unit's own
// writes, like any nested call.
func (im *impl) read(c ctx.Ctx, op string, fn func() error) error {
	if journal.From(c) != nil {
		return fn()
	}
	unlock, err := im.lock(c, op)
	if err != nil {
		return err
	}
	defer unlock()
	return fn()
}

func (im *impl) publish(c ctx.Ctx, evts []marketplace.Event) {
	if len(evts) == 0 {
		return
	}
	if err := im.publisher.Publish(c, evts...); err != nil {
		c.WithFields(log.Fields{"err": err, "count": len(evts)}).Error("publisher.Publish failed")
	}
}

func logFailure(c ctx.Ctx, op string, err error, nested bool) {
	l := c.WithFields(log.Fields{"err": err, "op": op, "nested": nested})
	var merr *marketplace.Error
	if errors.As(err, &merr) && merr.Kind != marketplace.KindTransferFailed {
		l.Info("operation rejected")
		return
	}
	l.Error("operation failed")
}

func result(err error) string {
	if err == nil {
		return "ok"
	}
	var merr *marketplace.Error
	if errors.As(err, &merr) {
		return string(merr.Kind)
	}
	return "error"
}

func (im *impl) ListNft(c ctx.Ctx, caller domain.Address, id listing.Id, price uint256.Int) error {
	id = normalize(id)
	return im.run(c, "list", func(c ctx.Ctx, j *journal.Journal) error {
		owner, err := im.oracle.OwnerOf(c, id.Collection, id.TokenId)
		if err != nil {
			c.WithFields(log.Fields{"err": err, "id": id}).Error("oracle.OwnerOf failed")
			return err
		}
		if !owner.Equals(caller) {
			return marketplace.NotOwner(caller, owner)
		}
		if price.IsZero() {
			return marketplace.InvalidPrice(price)
		}
		approved, err := im.oracle.IsApprovedForTransfer(c, id.Collection, id.TokenId, im.operator)
		if err != nil {
			c.WithFields(log.Fields{"err": err, "id": id}).Error("oracle.IsApprovedForTransfer failed")
			return err
		}
		if !approved {
			return marketplace.NotApproved(id.Collection, id.TokenId)
		}
		cur, err := im.listings.Get(c, id)
		if err != nil {
			c.WithFields(log.Fields{"err": err, "id": id}).Error("listings.Get failed")
			return err
		}
		if cur != nil {
			return marketplace.AlreadyListed(id.Collection, id.TokenId)
		}

		l := listing.Listing{Seller: caller.ToLower(), Price: price, ListedAt: timeNow().UTC()}
		if err := im.listings.Put(c, id, l); err != nil {
			c.WithFields(log.Fields{"err": err, "id": id}).Error("listings.Put failed")
			return err
		}
		j.Record(func(c ctx.Ctx) error {
			return im.listings.Clear(c, id)
		})

		j.Emit(marketplace.Event{
			Type:       marketplace.EventNftListed,
			Collection: id.Collection,
			TokenId:    id.TokenId,
			Seller:     l.Seller,
			Price:      price,
			Time:       l.ListedAt,
		}, false)
		return nil
	})
}

// listed returns the listing of id or NotListed
func (im *impl) listed(c ctx.Ctx, id listing.Id) (*listing.Listing, error) {
	l, err := im.listings.Get(c, id)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "id": id}).Error("listings.Get failed")
		return nil, err
	}
	if l == nil {
		return nil, marketplace.NotListed(id.Collection, id.TokenId)
	}
	return l, nil
}

// clear removes id and registers the step putting prev back
func (im *impl) clear(c ctx.Ctx, j *journal.Journal, id listing.Id, prev listing.Listing) error {
	if err := im.listings.Clear(c, id); err != nil {
		c.WithFields(log.Fields{"err": err, "id": id}).Error("listings.Clear failed")
		return err
	}
	j.Record(func(c ctx.Ctx) error {
		return im.listings.Put(c, id, prev)
	})
	return nil
}

func (im *impl) CancelListing(c ctx.Ctx, caller domain.Address, id listing.Id) error {
	id = normalize(id)
	return im.run(c, "cancel", func(c ctx.Ctx, j *journal.Journal) error {
		l, err := im.listed(c, id)
		if err != nil {
			return err
		}
		if !l.Seller.Equals(caller) {
			return marketplace.UnauthorizedCancel(caller, l.Seller)
		}
		if err := im.clear(c, j, id, *l); err != nil {
			return err
		}
		j.Emit(marketplace.Event{
			Type:       marketplace.EventListingCancelled,
			Collection: id.Collection,
			TokenId:    id.TokenId,
			Seller:     l.Seller,
			Price:      l.Price,
			Time:       timeNow().UTC(),
		}, false)
		return nil
	})
}

func (im *impl) UpdateListing(c ctx.Ctx, caller domain.Address, id listing.Id, newPrice uint256.Int) error {
	id = normalize(id)
	return im.run(c, "update", func(c ctx.Ctx, j *journal.Journal) error {
		l, err := im.listed(c, id)
		if err != nil {
			return err
		}
		if !l.Seller.Equals(caller) {
			return marketplace.UnauthorizedUpdate(caller, l.Seller)
		}
		if newPrice.IsZero() {
			return marketplace.InvalidPrice(newPrice)
		}

		prev := *l
		next := prev
		next.Price = newPrice
		if err := im.listings.Put(c, id, next); err != nil {
			c.WithFields(log.Fields{"err": err, "id": id}).Error("listings.Put failed")
			return err
		}
		j.Record(func(c ctx.Ctx) error {
			return im.listings.Put(c, id, prev)
		})

		j.Emit(marketplace.Event{
			Type:       marketplace.EventListingUpdated,
			Collection: id.Collection,
			TokenId:    id.TokenId,
			Seller:     next.Seller,
			Price:      newPrice,
			Time:       timeNow().UTC(),
		}, false)
		return nil
	})
}

func (im *impl) BuyNft(c ctx.Ctx, caller domain.Address, id listing.Id, paid uint256.Int) error {
	id = normalize(id)
	return im.run(c, "buy", func(c ctx.Ctx, j *journal.Journal) error {
		l, err := im.listed(c, id)
		if err != nil {
			return err
		}
		if !paid.Eq(&l.Price) {
			return marketplace.InvalidPaymentAmount(l.Price, paid)
		}
		seller, price := l.Seller, l.Price

		// the key is unlisted before any external call
		if err := im.clear(c, j, id, *l); err != nil {
			return err
		}

		added, err := im.proceeds.Credit(c, seller, price)
		if err != nil {
			c.WithFields(log.Fields{"err": err, "seller": seller, "price": price.Dec()}).Error("proceeds.Credit failed")
			return err
		}
		j.Reserve(seller, added)
		j.Record(func(c ctx.Ctx) error {
			j.Release(seller, added)
			return im.proceeds.Debit(c, seller, added)
		})

		if err := im.oracle.Transfer(c, id.Collection, id.TokenId, seller, caller); err != nil {
			return marketplace.TransferFailed(id.Collection, id.TokenId, err)
		}

		j.Emit(marketplace.Event{
			Type:       marketplace.EventNftBought,
			Collection: id.Collection,
			TokenId:    id.TokenId,
			Seller:     seller,
			Buyer:      caller.ToLower(),
			Price:      price,
			Time:       timeNow().UTC(),
		}, false)
		return nil
	})
}

func (im *impl) WithdrawProceeds(c ctx.Ctx, caller domain.Address) (uint256.Int, error) {
	var amount uint256.Int
	err := im.run(c, "withdraw", func(c ctx.Ctx, j *journal.Journal) error {
		bal, err := im.proceeds.Get(c, caller)
		if err != nil {
			c.WithFields(log.Fields{"err": err, "account": caller}).Error("proceeds.Get failed")
			return err
		}
		// proceeds credited by the enclosing unit stay until it commits
		reserved := j.Reserved(caller)
		if !bal.Gt(&reserved) {
			return marketplace.NoProceeds(caller)
		}
		var avail uint256.Int
		avail.Sub(&bal, &reserved)

		if reserved.IsZero() {
			taken, err := im.proceeds.TakeAll(c, caller)
			if err != nil {
				c.WithFields(log.Fields{"err": err, "account": caller}).Error("proceeds.TakeAll failed")
				return err
			}
			avail = taken
			if avail.IsZero() {
				return marketplace.NoProceeds(caller)
			}
		} else if err := im.proceeds.Debit(c, caller, avail); err != nil {
			c.WithFields(log.Fields{"err": err, "account": caller, "amount": avail.Dec()}).Error("proceeds.Debit failed")
			return err
		}
		h := j.Record(func(c ctx.Ctx) error {
			_, err := im.proceeds.Credit(c, caller, avail)
			return err
		})

		if err := im.sender.Send(c, caller, avail); err != nil {
			return xerrors.Errorf("payout.Send: %w", err)
		}
		j.Forget(h)

		j.Emit(marketplace.Event{
			Type:   marketplace.EventProceedsWithdrawn,
			Caller: caller.ToLower(),
			Amount: avail,
			Time:   timeNow().UTC(),
		}, true)
		amount = avail
		return nil
	})
	if err != nil {
		return uint256.Int{}, err
	}
	return amount, nil
}

func (im *impl) GetListing(c ctx.Ctx, id listing.Id) (listing.Listing, error) {
	id = normalize(id)
	var res listing.Listing
	err := im.read(c, "getListing", func() error {
		l, err := im.listings.Get(c, id)
		if err != nil {
			c.WithFields(log.Fields{"err": err, "id": id}).Error("listings.Get failed")
			return err
		}
		if l != nil {
			res = *l
		}
		return nil
	})
	if err != nil {
		return listing.Listing{}, err
	}
	return res, nil
}

func (im *impl) GetProceeds(c ctx.Ctx, account domain.Address) (uint256.Int, error) {
	var bal uint256.Int
	err := im.read(c, "getProceeds", func() (err error) {
		if bal, err = im.proceeds.Get(c, account); err != nil {
			c.WithFields(log.Fields{"err": err, "account": account}).Error("proceeds.Get failed")
		}
		return err
	})
	if err != nil {
		return uint256.Int{}, err
	}
	return bal, nil
}

func (im *impl) FindListings(c ctx.Ctx, opts ...listing.FindAllOptionsFunc) ([]listing.Entry, error) {
	var res []listing.Entry
	err := im.read(c, "findListings", func() (err error) {
		if res, err = im.listings.FindAll(c, opts...); err != nil {
			c.WithField("err", err).Error("listings.FindAll failed")
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (im *impl) FindEvents(c ctx.Ctx, opts ...marketplace.EventFindAllOptionsFunc) ([]marketplace.Event, error) {
	var res []marketplace.Event
	err := im.read(c, "findEvents", func() (err error) {
		if res, err = im.events.FindAll(c, opts...); err != nil {
			c.WithField("err", err).Error("events.FindAll failed")
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
