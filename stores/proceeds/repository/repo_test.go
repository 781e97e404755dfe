package repository

import (
	"sync"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/proceeds"
	"github.com/x-xyz/marketplace/service/query/querytest"
)

const alice = domain.Address("0xA11cEA11cEA11cEA11cEA11cEA11cEA11cEA11cE")

type repoSuite struct {
	suite.Suite

	newRepo func() proceeds.Repo
	repo    proceeds.Repo
}

func TestMemoryRepo(t *testing.T) {
	suite.Run(t, &repoSuite{newRepo: NewMemory})
}

func TestMongoRepo(t *testing.T) {
	q := querytest.New(t)
	suite.Run(t, &repoSuite{newRepo: func() proceeds.Repo {
		if _, err := q.RemoveAll(ctx.Background(), domain.TableProceeds, bson.M{}); err != nil {
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

func (s *repoSuite) balance(a domain.Address) uint256.Int {
	bal, err := s.repo.Get(ctx.Background(), a)
	s.Require().NoError(err)
	return bal
}

func (s *repoSuite) TestCreditDebit() {
	c := ctx.Background()
	bal := s.balance(alice)
	s.True(bal.IsZero())

	added, err := s.repo.Credit(c, alice, *uint256.NewInt(70))
	s.Require().NoError(err)
	s.Equal(uint64(70), added.Uint64())

	_, err = s.repo.Credit(c, alice.ToLower(), *uint256.NewInt(30))
	s.Require().NoError(err)
	bal = s.balance(alice)
	s.Equal(uint64(100), bal.Uint64())

	s.ErrorIs(s.repo.Debit(c, alice, *uint256.NewInt(101)), proceeds.ErrInsufficientBalance)
	s.Require().NoError(s.repo.Debit(c, alice, *uint256.NewInt(40)))
	bal = s.balance(alice)
	s.Equal(uint64(60), bal.Uint64())
}

func (s *repoSuite) TestCreditSaturates() {
	c := ctx.Background()
	near := new(uint256.Int).SetAllOne()
	near.Sub(near, uint256.NewInt(5))

	_, err := s.repo.Credit(c, alice, *near)
	s.Require().NoError(err)
	added, err := s.repo.Credit(c, alice, *uint256.NewInt(10))
	s.Require().NoError(err)
	s.Equal(uint64(5), added.Uint64())

	bal := s.balance(alice)
	s.True(bal.Eq(new(uint256.Int).SetAllOne()))
}

func (s *repoSuite) TestTakeAll() {
	c := ctx.Background()
	got, err := s.repo.TakeAll(c, alice)
	s.Require().NoError(err)
	s.True(got.IsZero())

	_, err = s.repo.Credit(c, alice, *uint256.NewInt(42))
	s.Require().NoError(err)
	got, err = s.repo.TakeAll(c, alice)
	s.Require().NoError(err)
	s.Equal(uint64(42), got.Uint64())

	bal := s.balance(alice)
	s.True(bal.IsZero())
}

func (s *repoSuite) TestConcurrentCredit() {
	c := ctx.Background()
	wg := sync.WaitGroup{}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.repo.Credit(c, alice, *uint256.NewInt(1))
			s.NoError(err)
		}()
	}
	wg.Wait()
	bal := s.balance(alice)
	s.Equal(uint64(8), bal.Uint64())
}

func TestSaturatingAdd(t *testing.T) {
	top := new(uint256.Int).SetAllOne()
	sum, added := proceeds.SaturatingAdd(*top, *uint256.NewInt(1))
	assert.True(t, sum.Eq(top))
	assert.True(t, added.IsZero())

	sum, added = proceeds.SaturatingAdd(*uint256.NewInt(2), *uint256.NewInt(3))
	assert.Equal(t, uint64(5), sum.Uint64())
	assert.Equal(t, uint64(3), added.Uint64())
}
