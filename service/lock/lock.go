package lock

import (
	"errors"

	"github.com/x-xyz/marketplace/base/ctx"
)

var (
	// ErrLockLost is logged when a redis lock expired before it was released
	ErrLockLost = errors.New("lock expired before release")
)

// Locker serializes units of work. Lock blocks until the lock is held or c is done.
type Locker interface {
	Lock(c ctx.Ctx) (unlock func(), err error)
}

type local struct {
	sem chan struct{}
}

// NewLocal returns an in-process Locker
func NewLocal() Locker {
	return &local{sem: make(chan struct{}, 1)}
}

func (l *local) Lock(c ctx.Ctx) (func(), error) {
	select {
	case l.sem <- struct{}{}:
		return func() { <-l.sem }, nil
	case <-c.Done():
		return nil, c.Err()
	}
}
