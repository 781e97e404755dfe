package repository

import (
	"time"

	"github.com/holiman/uint256"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/marketplace"
	"github.com/x-xyz/marketplace/service/query"
)

type eventDoc struct {
	Id         string                `bson:"_id"`
	Type       marketplace.EventType `bson:"type"`
	Collection domain.Address        `bson:"collection,omitempty"`
	TokenId    domain.TokenId        `bson:"tokenId,omitempty"`
	Seller     domain.Address        `bson:"seller,omitempty"`
	Buyer      domain.Address        `bson:"buyer,omitempty"`
	Caller     domain.Address        `bson:"caller,omitempty"`
	Price      string                `bson:"price"`
	Amount     string                `bson:"amount"`
	Time       time.Time             `bson:"time"`
	// Seq orders events of the same millisecond
	Seq int64 `bson:"seq"`
}

func toDoc(e marketplace.Event, seq int64) eventDoc {
	return eventDoc{
		Id:         e.Id,
		Type:       e.Type,
		Collection: e.Collection.ToLower(),
		TokenId:    e.TokenId,
		Seller:     e.Seller.ToLower(),
		Buyer:      e.Buyer.ToLower(),
		Caller:     e.Caller.ToLower(),
		Price:      e.Price.Dec(),
		Amount:     e.Amount.Dec(),
		Time:       e.Time.UTC(),
		Seq:        seq,
	}
}

func (d *eventDoc) toEvent() (marketplace.Event, error) {
	price, err := uint256.FromDecimal(d.Price)
	if err != nil {
		return marketplace.Event{}, err
	}
	amount, err := uint256.FromDecimal(d.Amount)
	if err != nil {
		return marketplace.Event{}, err
	}
	return marketplace.Event{
		Id:         d.Id,
		Type:       d.Type,
		Collection: d.Collection,
		TokenId:    d.TokenId,
		Seller:     d.Seller,
		Buyer:      d.Buyer,
		Caller:     d.Caller,
		Price:      *price,
		Amount:     *amount,
		Time:       d.Time,
	}, nil
}

type mongoRepo struct {
	q query.Mongo
}

func NewMongo(q query.Mongo) marketplace.EventRepo {
	return &mongoRepo{q: q}
}

func EnsureIndexes(c ctx.Ctx, q query.Mongo) error {
	return q.EnsureIndexes(c, domain.TableEvents,
		query.Index{Keys: bson.D{{Key: "time", Value: -1}, {Key: "seq", Value: -1}}},
		query.Index{Keys: bson.D{{Key: "collection", Value: 1}, {Key: "tokenId", Value: 1}, {Key: "time", Value: -1}}},
		query.Index{Keys: bson.D{{Key: "seller", Value: 1}, {Key: "time", Value: -1}}},
		query.Index{Keys: bson.D{{Key: "buyer", Value: 1}, {Key: "time", Value: -1}}},
		query.Index{Keys: bson.D{{Key: "caller", Value: 1}, {Key: "time", Value: -1}}},
	)
}

func (r *mongoRepo) Store(c ctx.Ctx, evts ...marketplace.Event) error {
	base := time.Now().UnixNano()
	for i, e := range evts {
		doc := toDoc(e, base+int64(i))
		if err := r.q.Insert(c, domain.TableEvents, doc); err == query.ErrDuplicateKey {
			c.WithField("eventId", e.Id).Warn("event already stored")
		} else if err != nil {
			c.WithFields(log.Fields{"err": err, "event": doc}).Error("q.Insert failed")
			return err
		}
	}
	return nil
}

func (r *mongoRepo) FindAll(c ctx.Ctx, opts ...marketplace.EventFindAllOptionsFunc) ([]marketplace.Event, error) {
	o, err := marketplace.GetEventFindAllOptions(opts...)
	if err != nil {
		c.WithField("err", err).Error("marketplace.GetEventFindAllOptions failed")
		return nil, err
	}

	qry := bson.M{}
	if o.Collection != nil {
		qry["collection"] = *o.Collection
	}
	if o.TokenId != nil {
		qry["tokenId"] = *o.TokenId
	}
	if o.Type != nil {
		qry["type"] = *o.Type
	}
	if o.Account != nil {
		qry["$or"] = bson.A{
			bson.M{"seller": *o.Account},
			bson.M{"buyer": *o.Account},
			bson.M{"caller": *o.Account},
		}
	}
	offset, limit := 0, 0
	if o.Offset != nil {
		offset = int(*o.Offset)
	}
	if o.Limit != nil {
		limit = int(*o.Limit)
	}

	docs := []eventDoc{}
	if err := r.q.SearchNSorts(c, domain.TableEvents, offset, limit, []string{"-time", "-seq"}, qry, &docs); err != nil {
		c.WithFields(log.Fields{"err": err, "query": qry}).Error("q.SearchNSorts failed")
		return nil, err
	}

	res := make([]marketplace.Event, 0, len(docs))
	for i := range docs {
		e, err := docs[i].toEvent()
		if err != nil {
			c.WithFields(log.Fields{"err": err, "eventId": docs[i].Id}).Error("toEvent failed")
			return nil, err
		}
		res = append(res, e)
	}
	return res, nil
}
