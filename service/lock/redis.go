package lock

import (
	"time"

	"github.com/google/uuid"

	"github.com/x-xyz/marketplace/base/backoff"
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain/keys"
	"github.com/x-xyz/marketplace/service/redis"
)

const (
	pollStart = 5 * time.Millisecond
	pollLimit = 200 * time.Millisecond
)

// releaseScript deletes the lock key only while it still holds our token
var releaseScript = redis.NewScript("lockRelease", 1, `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisLocker struct {
	redis redis.Service
	key   string
	ttl   time.Duration
}

// NewRedis returns a Locker shared by every instance talking to the same
// redis. ttl bounds how long a crashed holder blocks the others.
func NewRedis(r redis.Service, name string, ttl time.Duration) Locker {
	return &redisLocker{
		redis: r,
		key:   keys.RedisKey(keys.PfxLock, name),
		ttl:   ttl,
	}
}

func (l *redisLocker) Lock(c ctx.Ctx) (func(), error) {
	token := uuid.NewString()
	b := backoff.NewExponential(pollStart, pollLimit, 0)
	for {
		ok, err := l.redis.SetNX(c, l.key, []byte(token), l.ttl)
		if err != nil {
			c.WithField("err", err).WithField("key", l.key).Error("redis.SetNX failed")
			return nil, err
		}
		if ok {
			break
		}
		if err := b.Wait(c); err != nil {
			c.WithField("err", err).WithField("key", l.key).Warn("gave up waiting for lock")
			return nil, err
		}
	}

	return func() {
		// release even if the caller's ctx is already cancelled
		rc := ctx.From(ctx.Background(), c.Logger)
		released, err := l.redis.ScriptDo(rc, releaseScript, l.key, token)
		if err != nil {
			rc.WithField("err", err).WithField("key", l.key).Error("release lock failed")
			return
		}
		if n, _ := released.(int64); n == 0 {
			rc.WithFields(log.Fields{"key": l.key, "err": ErrLockLost}).Warn("lock was not held on release")
		}
	}, nil
}
