package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/custody"
	"github.com/x-xyz/marketplace/service/query"
)

type tokenDoc struct {
	Collection domain.Address `bson:"collection"`
	TokenId    domain.TokenId `bson:"tokenId"`
	Owner      domain.Address `bson:"owner"`
	Approved   domain.Address `bson:"approved"`
	TokenURI   string         `bson:"tokenUri"`
	MintedAt   time.Time      `bson:"mintedAt"`
}

type counterDoc struct {
	Collection domain.Address `bson:"collection"`
	Counter    uint64         `bson:"counter"`
}

type operatorDoc struct {
	Collection domain.Address `bson:"collection"`
	Owner      domain.Address `bson:"owner"`
	Operator   domain.Address `bson:"operator"`
	Approved   bool           `bson:"approved"`
}

type mongoRepo struct {
	q query.Mongo
}

func NewMongo(q query.Mongo) custody.Repo {
	return &mongoRepo{q: q}
}

func EnsureIndexes(c ctx.Ctx, q query.Mongo) error {
	if err := q.EnsureIndexes(c, domain.TableTokens,
		query.Index{Keys: bson.D{{Key: "collection", Value: 1}, {Key: "tokenId", Value: 1}}, Unique: true},
		query.Index{Keys: bson.D{{Key: "collection", Value: 1}, {Key: "owner", Value: 1}}},
	); err != nil {
		return err
	}
	if err := q.EnsureIndexes(c, domain.TableTokenCounters,
		query.Index{Keys: bson.D{{Key: "collection", Value: 1}}, Unique: true},
	); err != nil {
		return err
	}
	return q.EnsureIndexes(c, domain.TableOperatorApprovals,
		query.Index{Keys: bson.D{{Key: "collection", Value: 1}, {Key: "owner", Value: 1}, {Key: "operator", Value: 1}}, Unique: true},
	)
}

func tokenSelector(collection domain.Address, id domain.TokenId) bson.M {
	return bson.M{"collection": collection.ToLower(), "tokenId": id}
}

func (r *mongoRepo) FindToken(c ctx.Ctx, collection domain.Address, id domain.TokenId) (*custody.Token, error) {
	doc := tokenDoc{}
	if err := r.q.FindOne(c, domain.TableTokens, tokenSelector(collection, id), &doc); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "collection": collection, "tokenId": id}).Error("q.FindOne failed")
		return nil, err
	}
	return &custody.Token{
		Collection: doc.Collection,
		TokenId:    doc.TokenId,
		Owner:      doc.Owner,
		Approved:   doc.Approved,
		TokenURI:   doc.TokenURI,
		MintedAt:   doc.MintedAt,
	}, nil
}

func (r *mongoRepo) UpsertToken(c ctx.Ctx, t custody.Token) error {
	doc := tokenDoc{
		Collection: t.Collection.ToLower(),
		TokenId:    t.TokenId,
		Owner:      t.Owner.ToLower(),
		Approved:   t.Approved.ToLower(),
		TokenURI:   t.TokenURI,
		MintedAt:   t.MintedAt.UTC(),
	}
	if err := r.q.Upsert(c, domain.TableTokens, tokenSelector(t.Collection, t.TokenId), doc); err != nil {
		c.WithFields(log.Fields{"err": err, "token": doc}).Error("q.Upsert failed")
		return err
	}
	return nil
}

func (r *mongoRepo) RemoveToken(c ctx.Ctx, collection domain.Address, id domain.TokenId) error {
	if err := r.q.Remove(c, domain.TableTokens, tokenSelector(collection, id)); err != nil && err != query.ErrNotFound {
		c.WithFields(log.Fields{"err": err, "collection": collection, "tokenId": id}).Error("q.Remove failed")
		return err
	}
	return nil
}

func (r *mongoRepo) CountByOwner(c ctx.Ctx, collection, owner domain.Address) (int, error) {
	qry := bson.M{"collection": collection.ToLower(), "owner": owner.ToLower()}
	n, err := r.q.Count(c, domain.TableTokens, qry)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "query": qry}).Error("q.Count failed")
		return 0, err
	}
	return n, nil
}

func (r *mongoRepo) NextTokenId(c ctx.Ctx, collection domain.Address) (uint64, error) {
	doc := counterDoc{}
	qry := bson.M{"collection": collection.ToLower()}
	if err := r.q.IncrementMany(c, domain.TableTokenCounters, qry, bson.M{"counter": 1}, nil, &doc); err != nil {
		c.WithFields(log.Fields{"err": err, "collection": collection}).Error("q.IncrementMany failed")
		return 0, err
	}
	return doc.Counter, nil
}

func (r *mongoRepo) TokenCounter(c ctx.Ctx, collection domain.Address) (uint64, error) {
	doc := counterDoc{}
	if err := r.q.FindOne(c, domain.TableTokenCounters, bson.M{"collection": collection.ToLower()}, &doc); err == query.ErrNotFound {
		return 0, nil
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "collection": collection}).Error("q.FindOne failed")
		return 0, err
	}
	return doc.Counter, nil
}

func operatorSelector(collection, owner, operator domain.Address) bson.M {
	return bson.M{
		"collection": collection.ToLower(),
		"owner":      owner.ToLower(),
		"operator":   operator.ToLower(),
	}
}

func (r *mongoRepo) SetOperator(c ctx.Ctx, a custody.OperatorApproval) error {
	doc := operatorDoc{
		Collection: a.Collection.ToLower(),
		Owner:      a.Owner.ToLower(),
		Operator:   a.Operator.ToLower(),
		Approved:   a.Approved,
	}
	if err := r.q.Upsert(c, domain.TableOperatorApprovals, operatorSelector(a.Collection, a.Owner, a.Operator), doc); err != nil {
		c.WithFields(log.Fields{"err": err, "approval": doc}).Error("q.Upsert failed")
		return err
	}
	return nil
}

func (r *mongoRepo) IsOperator(c ctx.Ctx, collection, owner, operator domain.Address) (bool, error) {
	doc := operatorDoc{}
	if err := r.q.FindOne(c, domain.TableOperatorApprovals, operatorSelector(collection, owner, operator), &doc); err == query.ErrNotFound {
		return false, nil
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "owner": owner, "operator": operator}).Error("q.FindOne failed")
		return false, err
	}
	return doc.Approved, nil
}
