package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/x-xyz/marketplace/base/ctx"
	hcdomain "github.com/x-xyz/marketplace/domain/healthcheck"
	mRedis "github.com/x-xyz/marketplace/service/redis/mocks"
)

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(context.Context, *readpref.ReadPref) error {
	return f.err
}

func TestComponents(t *testing.T) {
	assert.Empty(t, New(nil, nil).Components())
	assert.Equal(t, []string{hcdomain.ComponentMongo}, New(fakePinger{}, nil).Components())
	assert.Equal(t, []string{hcdomain.ComponentMongo, hcdomain.ComponentRedis}, New(fakePinger{}, &mRedis.Service{}).Components())
}

func TestPing(t *testing.T) {
	c := ctx.Background()
	down := errors.New("connection refused")

	assert.Error(t, New(nil, nil).Ping(c, hcdomain.ComponentMongo))
	assert.NoError(t, New(fakePinger{}, nil).Ping(c, hcdomain.ComponentMongo))
	assert.ErrorIs(t, New(fakePinger{err: down}, nil).Ping(c, hcdomain.ComponentMongo), down)

	r := &mRedis.Service{}
	r.On("Ping", mock.Anything).Return(nil).Once()
	r.On("Ping", mock.Anything).Return(down).Once()
	assert.NoError(t, New(nil, r).Ping(c, hcdomain.ComponentRedis))
	assert.ErrorIs(t, New(nil, r).Ping(c, hcdomain.ComponentRedis), down)
	r.AssertExpectations(t)
}
