// Package journal keeps the undo log of a unit of work. A unit travels in
// the ctx so calls made from inside an external call join it instead of
// starting their own.
package journal

import (
	"github.com/holiman/uint256"
	"golang.org/x/xerrors"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/marketplace"
)

type key struct{}

// Undo reverts one store mutation
type Undo func(c ctx.Ctx) error

type entry struct {
	evt   marketplace.Event
	final bool
}

// Journal is owned by a single call chain, it is not safe for concurrent use
type Journal struct {
	undo     []Undo
	events   []entry
	reserved map[domain.Address]uint256.Int
}

// Savepoint marks the journal position a nested call rolls back to
type Savepoint struct {
	undo   int
	events int
}

func New() *Journal {
	return &Journal{reserved: map[domain.Address]uint256.Int{}}
}

// From returns the journal of the running unit, nil outside of one
func From(c ctx.Ctx) *Journal {
	j, _ := c.Value(key{}).(*Journal)
	return j
}

// With attaches j to c
func With(c ctx.Ctx, j *Journal) ctx.Ctx {
	return ctx.WithHiddenValue(c, key{}, j)
}

// Record registers u on the running unit, if any
func Record(c ctx.Ctx, u Undo) {
	if j := From(c); j != nil {
		j.Record(u)
	}
}

func (j *Journal) Savepoint() Savepoint {
	return Savepoint{undo: len(j.undo), events: len(j.events)}
}

// Record appends u and returns its handle for Forget
func (j *Journal) Record(u Undo) int {
	j.undo = append(j.undo, u)
	return len(j.undo) - 1
}

// Forget makes the mutation behind handle i permanent
func (j *Journal) Forget(i int) {
	if i >= 0 && i < len(j.undo) {
		j.undo[i] = nil
	}
}

// Emit buffers evt until the unit commits. A final event survives a rollback.
func (j *Journal) Emit(evt marketplace.Event, final bool) {
	j.events = append(j.events, entry{evt: evt, final: final})
}

// Events returns the buffered events in emission order
func (j *Journal) Events() []marketplace.Event {
	res := make([]marketplace.Event, 0, len(j.events))
	for _, e := range j.events {
		res = append(res, e.evt)
	}
	return res
}

// Reserve marks amount of account's balance as credited by this unit
func (j *Journal) Reserve(account domain.Address, amount uint256.Int) {
	k := account.ToLower()
	cur := j.reserved[k]
	cur.Add(&cur, &amount)
	j.reserved[k] = cur
}

func (j *Journal) Release(account domain.Address, amount uint256.Int) {
	k := account.ToLower()
	cur := j.reserved[k]
	if cur.Lt(&amount) {
		cur.Clear()
	} else {
		cur.Sub(&cur, &amount)
	}
	if cur.IsZero() {
		delete(j.reserved, k)
		return
	}
	j.reserved[k] = cur
}

// Reserved returns the part of account's balance credited by this unit
func (j *Journal) Reserved(account domain.Address) uint256.Int {
	return j.reserved[account.ToLower()]
}

// RollbackTo replays the undo steps recorded after sp in reverse order and
// drops the events emitted after sp unless they are final. Every step runs
// even if an earlier one fails.
func (j *Journal) RollbackTo(c ctx.Ctx, sp Savepoint) error {
	var firstErr error
	for i := len(j.undo) - 1; i >= sp.undo; i-- {
		u := j.undo[i]
		if u == nil {
			continue
		}
		if err := u(c); err != nil {
			c.WithFields(log.Fields{"err": err, "step": i}).Error("undo step failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	j.undo = j.undo[:sp.undo]

	kept := j.events[:sp.events]
	for _, e := range j.events[sp.events:] {
		if e.final {
			kept = append(kept, e)
		}
	}
	j.events = kept

	if firstErr != nil {
		return xerrors.Errorf("rollback: %w", firstErr)
	}
	return nil
}
