package repository

import (
	"time"

	"github.com/holiman/uint256"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/listing"
	"github.com/x-xyz/marketplace/service/query"
)

type listingDoc struct {
	Collection domain.Address `bson:"collection"`
	TokenId    domain.TokenId `bson:"tokenId"`
	SortKey    string         `bson:"sortKey"`
	Seller     domain.Address `bson:"seller"`
	// Price is the decimal wei amount, it does not fit a bson number
	Price    string    `bson:"price"`
	ListedAt time.Time `bson:"listedAt"`
}

func (d *listingDoc) toEntry() (listing.Entry, error) {
	price, err := uint256.FromDecimal(d.Price)
	if err != nil {
		return listing.Entry{}, err
	}
	return listing.Entry{
		Id: listing.Id{Collection: d.Collection, TokenId: d.TokenId},
		Listing: listing.Listing{
			Seller:   d.Seller,
			Price:    *price,
			ListedAt: d.ListedAt,
		},
	}, nil
}

func selector(id listing.Id) bson.M {
	return bson.M{"collection": id.Collection.ToLower(), "tokenId": id.TokenId}
}

type mongoRepo struct {
	q query.Mongo
}

func NewMongo(q query.Mongo) listing.Repo {
	return &mongoRepo{q: q}
}

// EnsureIndexes creates the indexes the listing queries rely on
func EnsureIndexes(c ctx.Ctx, q query.Mongo) error {
	return q.EnsureIndexes(c, domain.TableListings,
		query.Index{Keys: bson.D{{Key: "collection", Value: 1}, {Key: "tokenId", Value: 1}}, Unique: true},
		query.Index{Keys: bson.D{{Key: "collection", Value: 1}, {Key: "sortKey", Value: 1}}},
		query.Index{Keys: bson.D{{Key: "seller", Value: 1}, {Key: "collection", Value: 1}, {Key: "sortKey", Value: 1}}},
	)
}

func (r *mongoRepo) Get(c ctx.Ctx, id listing.Id) (*listing.Listing, error) {
	doc := listingDoc{}
	if err := r.q.FindOne(c, domain.TableListings, selector(id), &doc); err == query.ErrNotFound {
		return nil, nil
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "id": id.String()}).Error("q.FindOne failed")
		return nil, err
	}
	e, err := doc.toEntry()
	if err != nil {
		c.WithFields(log.Fields{"err": err, "price": doc.Price}).Error("toEntry failed")
		return nil, err
	}
	return &e.Listing, nil
}

func (r *mongoRepo) Put(c ctx.Ctx, id listing.Id, l listing.Listing) error {
	doc := listingDoc{
		Collection: id.Collection.ToLower(),
		TokenId:    id.TokenId,
		SortKey:    sortKey(id.TokenId),
		Seller:     l.Seller.ToLower(),
		Price:      l.Price.Dec(),
		ListedAt:   l.ListedAt.UTC(),
	}
	if err := r.q.Upsert(c, domain.TableListings, selector(id), doc); err != nil {
		c.WithFields(log.Fields{"err": err, "id": id.String()}).Error("q.Upsert failed")
		return err
	}
	return nil
}

func (r *mongoRepo) Clear(c ctx.Ctx, id listing.Id) error {
	if err := r.q.Remove(c, domain.TableListings, selector(id)); err != nil && err != query.ErrNotFound {
		c.WithFields(log.Fields{"err": err, "id": id.String()}).Error("q.Remove failed")
		return err
	}
	return nil
}

func (r *mongoRepo) FindAll(c ctx.Ctx, opts ...listing.FindAllOptionsFunc) ([]listing.Entry, error) {
	o, err := listing.GetFindAllOptions(opts...)
	if err != nil {
		c.WithField("err", err).Error("listing.GetFindAllOptions failed")
		return nil, err
	}

	qry := bson.M{}
	if o.Seller != nil {
		qry["seller"] = *o.Seller
	}
	if o.Collection != nil {
		qry["collection"] = *o.Collection
	}
	offset, limit := 0, 0
	if o.Offset != nil {
		offset = int(*o.Offset)
	}
	if o.Limit != nil {
		limit = int(*o.Limit)
	}

	docs := []listingDoc{}
	if err := r.q.SearchNSorts(c, domain.TableListings, offset, limit, []string{"collection", "sortKey"}, qry, &docs); err != nil {
		c.WithFields(log.Fields{"err": err, "query": qry}).Error("q.SearchNSorts failed")
		return nil, err
	}

	res := make([]listing.Entry, 0, len(docs))
	for i := range docs {
		e, err := docs[i].toEntry()
		if err != nil {
			c.WithFields(log.Fields{"err": err, "price": docs[i].Price}).Error("toEntry failed")
			return nil, err
		}
		res = append(res, e)
	}
	return res, nil
}
