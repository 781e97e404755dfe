package backoff

import (
	"context"
	"errors"
	"time"
)

// ErrGiveUp is returned by Wait once the attempt budget is spent
var ErrGiveUp = errors.New("backoff: give up")

// Strategy computes the delay before the next attempt
type Strategy interface {
	Delay(attempt int, start time.Duration) time.Duration
}

// Backoff paces repeated attempts of one caller, it is not safe for concurrent use
type Backoff struct {
	strategy    Strategy
	start       time.Duration
	limit       time.Duration
	maxAttempts int

	attempt int
}

// New creates a Backoff. limit caps a single delay; maxAttempts <= 0 means unbounded.
func New(strategy Strategy, start, limit time.Duration, maxAttempts int) *Backoff {
	return &Backoff{
		strategy:    strategy,
		start:       start,
		limit:       limit,
		maxAttempts: maxAttempts,
	}
}

// Next returns the delay of the upcoming wait
func (b *Backoff) Next() time.Duration {
	d := b.strategy.Delay(b.attempt, b.start)
	if b.limit > 0 && d > b.limit {
		d = b.limit
	}
	return d
}

// Attempts returns the number of completed waits
func (b *Backoff) Attempts() int {
	return b.attempt
}

// Reset starts over from the first delay
func (b *Backoff) Reset() {
	b.attempt = 0
}

// Wait sleeps for the next delay. It returns ctx.Err() if ctx is done first and
// ErrGiveUp if the attempt budget is spent.
func (b *Backoff) Wait(ctx context.Context) error {
	if b.maxAttempts > 0 && b.attempt >= b.maxAttempts {
		return ErrGiveUp
	}
	t := time.NewTimer(b.Next())
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		b.attempt++
		return nil
	}
}

type exponential struct{}

func (exponential) Delay(attempt int, start time.Duration) time.Duration {
	if attempt > 30 {
		attempt = 30
	}
	return start << uint(attempt)
}

// NewExponential doubles the delay on every attempt
func NewExponential(start, limit time.Duration, maxAttempts int) *Backoff {
	return New(exponential{}, start, limit, maxAttempts)
}

type constant struct{}

func (constant) Delay(_ int, start time.Duration) time.Duration {
	return start
}

// NewConstant waits start between every attempt
func NewConstant(start time.Duration, maxAttempts int) *Backoff {
	return New(constant{}, start, 0, maxAttempts)
}
