package repository

import (
	"time"

	"github.com/holiman/uint256"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/proceeds"
	"github.com/x-xyz/marketplace/service/query"
)

// casAttempts bounds the compare-and-swap loop of one balance update
const casAttempts = 8

var timeNow = time.Now

type balanceDoc struct {
	Account domain.Address `bson:"account"`
	// Balance is the decimal wei amount
	Balance   string    `bson:"balance"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type mongoRepo struct {
	q query.Mongo
}

func NewMongo(q query.Mongo) proceeds.Repo {
	return &mongoRepo{q: q}
}

func EnsureIndexes(c ctx.Ctx, q query.Mongo) error {
	return q.EnsureIndexes(c, domain.TableProceeds,
		query.Index{Keys: bson.D{{Key: "account", Value: 1}}, Unique: true},
	)
}

func (r *mongoRepo) get(c ctx.Ctx, account domain.Address) (uint256.Int, bool, error) {
	doc := balanceDoc{}
	if err := r.q.FindOne(c, domain.TableProceeds, bson.M{"account": account}, &doc); err == query.ErrNotFound {
		return uint256.Int{}, false, nil
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "account": account}).Error("q.FindOne failed")
		return uint256.Int{}, false, err
	}
	bal, err := uint256.FromDecimal(doc.Balance)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "balance": doc.Balance}).Error("uint256.FromDecimal failed")
		return uint256.Int{}, false, err
	}
	return *bal, true, nil
}

// update swaps the balance for fn(balance) if nobody changed it in between
func (r *mongoRepo) update(c ctx.Ctx, account domain.Address, fn func(cur uint256.Int) (uint256.Int, error)) error {
	account = account.ToLower()
	for i := 0; i < casAttempts; i++ {
		cur, exists, err := r.get(c, account)
		if err != nil {
			return err
		}
		next, err := fn(cur)
		if err != nil {
			return err
		}

		if !exists {
			doc := balanceDoc{Account: account, Balance: next.Dec(), UpdatedAt: timeNow().UTC()}
			if err := r.q.Insert(c, domain.TableProceeds, doc); err == query.ErrDuplicateKey {
				continue
			} else if err != nil {
				c.WithFields(log.Fields{"err": err, "account": account}).Error("q.Insert failed")
				return err
			}
			return nil
		}

		sel := bson.M{"account": account, "balance": cur.Dec()}
		upd := bson.M{"$set": bson.M{"balance": next.Dec(), "updatedAt": timeNow().UTC()}}
		before := balanceDoc{}
		if err := r.q.FindOneAndUpdate(c, domain.TableProceeds, sel, upd, &before); err == query.ErrNotFound {
			continue
		} else if err != nil {
			c.WithFields(log.Fields{"err": err, "account": account}).Error("q.FindOneAndUpdate failed")
			return err
		}
		return nil
	}
	c.WithField("account", account).Warn("balance update kept conflicting")
	return domain.ErrConflict
}

func (r *mongoRepo) Get(c ctx.Ctx, account domain.Address) (uint256.Int, error) {
	bal, _, err := r.get(c, account.ToLower())
	return bal, err
}

func (r *mongoRepo) Credit(c ctx.Ctx, account domain.Address, amount uint256.Int) (uint256.Int, error) {
	var added uint256.Int
	err := r.update(c, account, func(cur uint256.Int) (uint256.Int, error) {
		var sum uint256.Int
		sum, added = proceeds.SaturatingAdd(cur, amount)
		return sum, nil
	})
	if err != nil {
		return uint256.Int{}, err
	}
	return added, nil
}

func (r *mongoRepo) Debit(c ctx.Ctx, account domain.Address, amount uint256.Int) error {
	return r.update(c, account, func(cur uint256.Int) (uint256.Int, error) {
		if cur.Lt(&amount) {
			return cur, proceeds.ErrInsufficientBalance
		}
		var next uint256.Int
		next.Sub(&cur, &amount)
		return next, nil
	})
}

func (r *mongoRepo) TakeAll(c ctx.Ctx, account domain.Address) (uint256.Int, error) {
	account = account.ToLower()
	sel := bson.M{"account": account}
	upd := bson.M{"$set": bson.M{"balance": "0", "updatedAt": timeNow().UTC()}}
	before := balanceDoc{}
	if err := r.q.FindOneAndUpdate(c, domain.TableProceeds, sel, upd, &before); err == query.ErrNotFound {
		return uint256.Int{}, nil
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "account": account}).Error("q.FindOneAndUpdate failed")
		return uint256.Int{}, err
	}
	bal, err := uint256.FromDecimal(before.Balance)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "balance": before.Balance}).Error("uint256.FromDecimal failed")
		return uint256.Int{}, err
	}
	return *bal, nil
}
