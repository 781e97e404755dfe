package redis

import (
	"errors"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/x-xyz/marketplace/base/ctx"
)

const (
	// Forever stores a key without expiration
	Forever = time.Duration(-1)
)

var (
	// ErrNotFound is returned when the key does not exist
	ErrNotFound = redis.ErrNil
	// ErrNoTTL is returned by TTL for keys without expiration
	ErrNoTTL = errors.New("key has no associated expire")
	// ErrGapTime is returned when no pool is available
	ErrGapTime = errors.New("redis pool unavailable")
)

// Service is the subset of redis the marketplace relies on: cache values,
// lock keys and health checks
type Service interface {
	Get(context ctx.Ctx, key string) ([]byte, error)
	Set(context ctx.Ctx, key string, val []byte, expire time.Duration) error
	// SetNX reports whether the key was set
	SetNX(context ctx.Ctx, key string, val []byte, expire time.Duration) (bool, error)
	Del(context ctx.Ctx, ks ...string) (int, error)
	Exists(context ctx.Ctx, key string) (bool, error)
	// TTL returns the remaining time to live in seconds
	TTL(context ctx.Ctx, key string) (int, error)
	Ping(context ctx.Ctx) error
	ScriptDo(context ctx.Ctx, hdl *ScriptHdl, keysAndArgs ...interface{}) (interface{}, error)
	Name() string
}

// ScriptHdl is a lua script loaded lazily by sha
type ScriptHdl struct {
	name   string
	script *redis.Script
}

// NewScript creates a script handle, keyCount is the number of KEYS the script takes
func NewScript(name string, keyCount int, src string) *ScriptHdl {
	return &ScriptHdl{
		name:   name,
		script: redis.NewScript(keyCount, src),
	}
}

// Do runs the script with EVALSHA and falls back to EVAL
func (h *ScriptHdl) Do(conn redis.Conn, keysAndArgs ...interface{}) (interface{}, error) {
	return h.script.Do(conn, keysAndArgs...)
}
