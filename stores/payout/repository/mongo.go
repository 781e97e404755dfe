package repository

import (
	"time"

	"github.com/holiman/uint256"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/payout"
	"github.com/x-xyz/marketplace/service/query"
)

type payoutDoc struct {
	Id        string         `bson:"_id"`
	To        domain.Address `bson:"to"`
	Amount    string         `bson:"amount"`
	CreatedAt time.Time      `bson:"createdAt"`
}

type mongoRepo struct {
	q query.Mongo
}

func NewMongo(q query.Mongo) payout.Repo {
	return &mongoRepo{q: q}
}

func EnsureIndexes(c ctx.Ctx, q query.Mongo) error {
	return q.EnsureIndexes(c, domain.TablePayouts,
		query.Index{Keys: bson.D{{Key: "to", Value: 1}, {Key: "createdAt", Value: -1}}},
		query.Index{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	)
}

func (r *mongoRepo) Insert(c ctx.Ctx, p payout.Payout) error {
	doc := payoutDoc{
		Id:        p.Id,
		To:        p.To.ToLower(),
		Amount:    p.Amount.Dec(),
		CreatedAt: p.CreatedAt.UTC(),
	}
	if err := r.q.Insert(c, domain.TablePayouts, doc); err != nil {
		c.WithFields(log.Fields{"err": err, "payout": doc}).Error("q.Insert failed")
		return err
	}
	return nil
}

func (r *mongoRepo) FindAll(c ctx.Ctx, opts ...payout.FindAllOptionsFunc) ([]payout.Payout, error) {
	o, err := payout.GetFindAllOptions(opts...)
	if err != nil {
		c.WithField("err", err).Error("payout.GetFindAllOptions failed")
		return nil, err
	}

	qry := bson.M{}
	if o.To != nil {
		qry["to"] = *o.To
	}
	offset, limit := 0, 0
	if o.Offset != nil {
		offset = int(*o.Offset)
	}
	if o.Limit != nil {
		limit = int(*o.Limit)
	}

	docs := []payoutDoc{}
	if err := r.q.Search(c, domain.TablePayouts, offset, limit, "-createdAt", qry, &docs); err != nil {
		c.WithFields(log.Fields{"err": err, "query": qry}).Error("q.Search failed")
		return nil, err
	}

	res := make([]payout.Payout, 0, len(docs))
	for _, d := range docs {
		amount, err := uint256.FromDecimal(d.Amount)
		if err != nil {
			c.WithFields(log.Fields{"err": err, "payoutId": d.Id}).Error("uint256.FromDecimal failed")
			return nil, err
		}
		res = append(res, payout.Payout{Id: d.Id, To: d.To, Amount: *amount, CreatedAt: d.CreatedAt})
	}
	return res, nil
}
