package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type tieredSuite struct {
	suite.Suite
	front Store
	back  Store
	store Store
}

func TestTieredSuite(t *testing.T) {
	suite.Run(t, new(tieredSuite))
}

func (s *tieredSuite) SetupTest() {
	s.front = NewLocal("front", 1)
	s.back = NewLocal("back", 1)
	s.store = NewTiered(Tier{Store: s.front, MaxTTL: 10 * time.Second}, Tier{Store: s.back})
}

func (s *tieredSuite) TestGetBackfillsFront() {
	_, _, err := s.store.Get(mockCtx, "key")
	s.Equal(ErrNotFound, err)

	s.NoError(s.back.Set(mockCtx, "key", []byte("value"), 5*time.Second))
	_, _, err = s.front.Get(mockCtx, "key")
	s.Equal(ErrNotFound, err)

	val, _, err := s.store.Get(mockCtx, "key")
	s.NoError(err)
	s.Equal([]byte("value"), val)

	val, ttl, err := s.front.Get(mockCtx, "key")
	s.NoError(err)
	s.Equal([]byte("value"), val)
	s.LessOrEqual(ttl, 5*time.Second)
}

func (s *tieredSuite) TestSetCapsFrontTTL() {
	s.NoError(s.store.Set(mockCtx, "key", []byte("value"), time.Minute))

	_, ttl, err := s.front.Get(mockCtx, "key")
	s.NoError(err)
	s.LessOrEqual(ttl, 10*time.Second)

	_, ttl, err = s.back.Get(mockCtx, "key")
	s.NoError(err)
	s.Greater(ttl, 10*time.Second)
}

func (s *tieredSuite) TestDel() {
	s.NoError(s.store.Set(mockCtx, "key", []byte("value"), time.Minute))
	s.NoError(s.store.Del(mockCtx, "key"))

	for _, st := range []Store{s.front, s.back, s.store} {
		_, _, err := st.Get(mockCtx, "key")
		s.Equal(ErrNotFound, err)
	}
}
