package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/xerrors"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	hcdomain "github.com/x-xyz/marketplace/domain/healthcheck"
	"github.com/x-xyz/marketplace/service/redis"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *mongoclient.Client
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

type impl struct {
	mgo   Pinger
	redis redis.Service
}

// New returns the health check of the configured backends, either may be nil
func New(mgo Pinger, redis redis.Service) hcdomain.HealthCheckRepo {
	return &impl{
		mgo:   mgo,
		redis: redis,
	}
}

func (im *impl) Components() []string {
	components := []string{}
	if im.mgo != nil {
		components = append(components, hcdomain.ComponentMongo)
	}
	if im.redis != nil {
		components = append(components, hcdomain.ComponentRedis)
	}
	return components
}

func (im *impl) Ping(context ctx.Ctx, component string) error {
	ctx, cancel := ctx.WithTimeout(context, pingTimeout)
	defer cancel()

	var err error
	switch {
	case component == hcdomain.ComponentMongo && im.mgo != nil:
		err = im.mgo.Ping(ctx, readpref.Primary())
	case component == hcdomain.ComponentRedis && im.redis != nil:
		err = im.redis.Ping(ctx)
	default:
		return xerrors.Errorf("unknown component %q", component)
	}
	if err != nil {
		context.WithFields(log.Fields{"component": component, "err": err}).Error("ping failed")
		return err
	}
	return nil
}
