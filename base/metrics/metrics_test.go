package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTag(t *testing.T) {
	assert.Nil(t, parseTag(nil))
	assert.Equal(t, []string{"op:list", "result:ok"}, parseTag([]string{"op", "list", "result", "ok"}))
	assert.Panics(t, func() { parseTag([]string{"odd"}) })
}

func TestBumpWithoutAgent(t *testing.T) {
	m := New("test", WithoutPodName())
	assert.NotPanics(t, func() {
		m.BumpSum("count", 1, "op", "list")
		m.BumpAvg("avg", 2)
		m.BumpHistogram("hist", 3)
		m.BumpTime("time", "op", "list").End()
	})
}

func TestNop(t *testing.T) {
	m := NewNop()
	assert.NotPanics(t, func() {
		m.BumpSum("count", 1)
		m.BumpTime("time").End()
	})
}
