package cache

import (
	"time"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/service/redis"
)

type redisStore struct {
	redis redis.Service
}

// NewRedis returns a store shared by every replica
func NewRedis(r redis.Service) Store {
	return &redisStore{r}
}

func (r *redisStore) Get(c ctx.Ctx, key string) ([]byte, time.Duration, error) {
	val, err := r.redis.Get(c, key)
	if err == redis.ErrNotFound {
		return nil, 0, ErrNotFound
	} else if err != nil {
		c.WithField("err", err).WithField("key", key).Error("redis.Get failed")
		return nil, 0, err
	}

	ttl, err := r.redis.TTL(c, key)
	if err == redis.ErrNoTTL {
		return val, 0, nil
	} else if err != nil {
		c.WithField("err", err).WithField("key", key).Error("redis.TTL failed")
		return nil, 0, err
	}
	return val, time.Duration(ttl) * time.Second, nil
}

func (r *redisStore) Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error {
	if err := r.redis.Set(c, key, value, ttl); err != nil {
		c.WithField("err", err).WithField("key", key).Error("redis.Set failed")
		return err
	}
	return nil
}

func (r *redisStore) Del(c ctx.Ctx, key string) error {
	if _, err := r.redis.Del(c, key); err != nil {
		c.WithField("err", err).WithField("key", key).Error("redis.Del failed")
		return err
	}
	return nil
}
