package journal

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain/marketplace"
)

func TestFromAndWith(t *testing.T) {
	c := ctx.Background()
	assert.Nil(t, From(c))

	j := New()
	assert.Same(t, j, From(With(c, j)))

	// Record is a no-op outside a unit
	Record(c, func(ctx.Ctx) error { return nil })
}

func TestRollbackToSavepoint(t *testing.T) {
	c := ctx.Background()
	j := New()
	steps := []string{}
	undo := func(name string) Undo {
		return func(ctx.Ctx) error {
			steps = append(steps, name)
			return nil
		}
	}

	j.Record(undo("a"))
	j.Emit(marketplace.Event{Type: marketplace.EventNftListed}, false)
	sp := j.Savepoint()
	j.Record(undo("b"))
	h := j.Record(undo("c"))
	j.Record(undo("d"))
	j.Emit(marketplace.Event{Type: marketplace.EventNftBought}, false)
	j.Emit(marketplace.Event{Type: marketplace.EventProceedsWithdrawn}, true)
	j.Forget(h)

	require.NoError(t, j.RollbackTo(c, sp))
	assert.Equal(t, []string{"d", "b"}, steps)
	assert.Equal(t, []marketplace.EventType{marketplace.EventNftListed, marketplace.EventProceedsWithdrawn}, types(j.Events()))

	require.NoError(t, j.RollbackTo(c, Savepoint{}))
	assert.Equal(t, []string{"d", "b", "a"}, steps)
	assert.Equal(t, []marketplace.EventType{marketplace.EventProceedsWithdrawn}, types(j.Events()))
}

func TestRollbackRunsEveryStep(t *testing.T) {
	j := New()
	ran := 0
	boom := errors.New("boom")
	j.Record(func(ctx.Ctx) error { ran++; return nil })
	j.Record(func(ctx.Ctx) error { ran++; return boom })

	err := j.RollbackTo(ctx.Background(), Savepoint{})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, ran)
}

func TestReserve(t *testing.T) {
	j := New()
	j.Reserve("0xABC", *uint256.NewInt(5))
	j.Reserve("0xabc", *uint256.NewInt(3))
	r := j.Reserved("0xAbc")
	assert.Equal(t, uint64(8), r.Uint64())

	j.Release("0xabc", *uint256.NewInt(3))
	r = j.Reserved("0xabc")
	assert.Equal(t, uint64(5), r.Uint64())

	j.Release("0xabc", *uint256.NewInt(10))
	r = j.Reserved("0xabc")
	assert.True(t, r.IsZero())
}

func types(evts []marketplace.Event) []marketplace.EventType {
	res := []marketplace.EventType{}
	for _, e := range evts {
		res = append(res, e.Type)
	}
	return res
}
