package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/marketplace/base/ctx"
)

var (
	mockCtx = ctx.Background()
)

type localSuite struct {
	suite.Suite
	store *local
}

func TestLocalSuite(t *testing.T) {
	suite.Run(t, new(localSuite))
}

func (s *localSuite) SetupTest() {
	s.store = NewLocal("test", 1).(*local)
}

func (s *localSuite) TestGetMissing() {
	_, _, err := s.store.Get(mockCtx, "key")
	s.Equal(ErrNotFound, err)
}

func (s *localSuite) TestSetReportsRemainingTTL() {
	s.NoError(s.store.Set(mockCtx, "key", []byte("value"), time.Minute))

	val, ttl, err := s.store.Get(mockCtx, "key")
	s.NoError(err)
	s.Equal([]byte("value"), val)
	s.LessOrEqual(ttl, time.Minute)
	s.Greater(ttl, 58*time.Second)
}

func (s *localSuite) TestSetWithoutTTL() {
	s.NoError(s.store.Set(mockCtx, "key", []byte("value"), 0))

	_, ttl, err := s.store.Get(mockCtx, "key")
	s.NoError(err)
	s.Equal(time.Duration(0), ttl)
}

func (s *localSuite) TestSubSecondTTLExpires() {
	s.NoError(s.store.Set(mockCtx, "key", []byte("value"), 200*time.Millisecond))
	_, _, err := s.store.Get(mockCtx, "key")
	s.NoError(err)

	time.Sleep(2100 * time.Millisecond)
	_, _, err = s.store.Get(mockCtx, "key")
	s.Equal(ErrNotFound, err)
}

func (s *localSuite) TestDel() {
	s.NoError(s.store.Set(mockCtx, "key", []byte("value"), time.Minute))
	s.NoError(s.store.Del(mockCtx, "key"))
	_, _, err := s.store.Get(mockCtx, "key")
	s.Equal(ErrNotFound, err)
}
