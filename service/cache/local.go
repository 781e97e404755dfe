package cache

import (
	"time"

	"github.com/coocood/freecache"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
)

type local struct {
	name  string
	cache *freecache.Cache
}

// NewLocal returns an in-process store of size MB
func NewLocal(name string, size int) Store {
	return &local{name, freecache.NewCache(size * 1024 * 1024)}
}

func (l *local) Get(c ctx.Ctx, key string) ([]byte, time.Duration, error) {
	val, ttl, err := l.cache.GetWithExpiration([]byte(key))
	if err == freecache.ErrNotFound {
		return nil, 0, ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "key": key, "cache": l.name}).Error("freecache.Get failed")
		return nil, 0, err
	}
	if ttl == 0 {
		return val, 0, nil
	}
	// GetWithExpiration returns the unix second the entry expires at
	return val, time.Until(time.Unix(int64(ttl), 0)), nil
}

func (l *local) Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error {
	// freecache counts in seconds and treats 0 as no expiration
	secs := int(ttl.Seconds())
	if ttl > 0 && secs == 0 {
		secs = 1
	}
	if err := l.cache.Set([]byte(key), value, secs); err != nil {
		c.WithFields(log.Fields{"err": err, "key": key, "cache": l.name}).Error("freecache.Set failed")
		return err
	}
	return nil
}

func (l *local) Del(c ctx.Ctx, key string) error {
	l.cache.Del([]byte(key))
	return nil
}
