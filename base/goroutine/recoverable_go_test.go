package goroutine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverableGo(t *testing.T) {
	res := []string{}

	evt := <-RecoverableGo(
		func() {
			res = append(res, "run task")
			panic("panic")
		},
		WithName("test"),
		WithAfterRecovered(func(p *PanicEvent) {
			res = append(res, "after recovered")
			res = append(res, p.Panic.(string))
		}),
	)

	require.NotNil(t, evt)
	assert.Equal(t, "panic", evt.Panic)
	assert.NotEmpty(t, evt.Stack)
	assert.Equal(t, []string{
		"run task",
		"after recovered",
		"panic",
	}, res)
}

func TestRecoverableGoReturns(t *testing.T) {
	done := false
	evt, ok := <-RecoverableGo(func() { done = true })
	assert.False(t, ok)
	assert.Nil(t, evt)
	assert.True(t, done)
}

func TestSafe(t *testing.T) {
	assert.Nil(t, Safe(func() {}))
	evt := Safe(func() { panic("boom") })
	require.NotNil(t, evt)
	assert.Equal(t, "boom", evt.Panic)
}
