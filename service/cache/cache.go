package cache

import (
	"errors"
	"time"

	"github.com/x-xyz/marketplace/base/ctx"
)

var (
	ErrNotFound = errors.New("Cache not found")
)

// Store keeps raw values for a bounded time. Get reports the remaining ttl,
// zero when the value never expires.
type Store interface {
	Get(c ctx.Ctx, key string) ([]byte, time.Duration, error)
	Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error
	Del(c ctx.Ctx, key string) error
}
