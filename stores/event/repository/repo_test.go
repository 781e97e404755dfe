package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/marketplace"
	"github.com/x-xyz/marketplace/service/query/querytest"
)

const (
	coll  = domain.Address("0xc011ec7100000000000000000000000000000001")
	alice = domain.Address("0xa11ce00000000000000000000000000000000001")
	bob   = domain.Address("0xb0b0000000000000000000000000000000000002")
)

type repoSuite struct {
	suite.Suite

	newRepo func() marketplace.EventRepo
	repo    marketplace.EventRepo
}

func TestMemoryRepo(t *testing.T) {
	suite.Run(t, &repoSuite{newRepo: NewMemory})
}

func TestMongoRepo(t *testing.T) {
	q := querytest.New(t)
	suite.Run(t, &repoSuite{newRepo: func() marketplace.EventRepo {
		if _, err := q.RemoveAll(ctx.Background(), domain.TableEvents, bson.M{}); err != nil {
			t.Fatal(err)
		}
		if err := EnsureIndexes(ctx.Background(), q); err != nil {
			t.Fatal(err)
		}
		return NewMongo(q)
	}})
}

func (s *repoSuite) SetupTest() {
	s.repo = s.newRepo()
}

func event(t marketplace.EventType, id domain.TokenId, seller, buyer domain.Address, at int64) marketplace.Event {
	return marketplace.Event{
		Id:         uuid.NewString(),
		Type:       t,
		Collection: coll,
		TokenId:    id,
		Seller:     seller,
		Buyer:      buyer,
		Price:      *uint256.NewInt(100),
		Time:       time.Unix(at, 0).UTC(),
	}
}

func (s *repoSuite) TestFindAll() {
	c := ctx.Background()
	listed := event(marketplace.EventNftListed, "1", alice, "", 1)
	bought := event(marketplace.EventNftBought, "1", alice, bob, 2)
	other := event(marketplace.EventNftListed, "2", bob, "", 3)
	s.Require().NoError(s.repo.Store(c, listed, bought))
	s.Require().NoError(s.repo.Store(c, other))

	ids := func(evts []marketplace.Event) []string {
		res := []string{}
		for _, e := range evts {
			res = append(res, e.Id)
		}
		return res
	}

	all, err := s.repo.FindAll(c)
	s.Require().NoError(err)
	s.Equal([]string{other.Id, bought.Id, listed.Id}, ids(all))
	s.Equal(uint64(100), all[0].Price.Uint64())
	s.Equal(time.Unix(3, 0).UTC(), all[0].Time)

	byToken, err := s.repo.FindAll(c, marketplace.WithEventCollection(coll), marketplace.WithEventTokenId("1"))
	s.Require().NoError(err)
	s.Equal([]string{bought.Id, listed.Id}, ids(byToken))

	byType, err := s.repo.FindAll(c, marketplace.WithEventType(marketplace.EventNftListed))
	s.Require().NoError(err)
	s.Equal([]string{other.Id, listed.Id}, ids(byType))

	byBuyer, err := s.repo.FindAll(c, marketplace.WithEventAccount(bob))
	s.Require().NoError(err)
	s.Equal([]string{other.Id, bought.Id}, ids(byBuyer))

	paged, err := s.repo.FindAll(c, marketplace.WithEventPagination(1, 1))
	s.Require().NoError(err)
	s.Equal([]string{bought.Id}, ids(paged))

	_, err = s.repo.FindAll(c, marketplace.WithEventType("Bogus"))
	s.ErrorIs(err, domain.ErrBadParamInput)
}
