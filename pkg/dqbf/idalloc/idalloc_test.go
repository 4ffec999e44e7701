package idalloc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/prop"
)

func TestCounterMonotone(t *testing.T) {
	c := New(prop.ID(5))

	assert.Equal(t, prop.ID(6), c.Next())
	assert.Equal(t, prop.ID(7), c.Next())
	assert.Equal(t, prop.ID(8), c.Next())
	assert.Equal(t, prop.ID(8), c.Watermark())
}

func TestCounterFromZero(t *testing.T) {
	c := New(prop.ID(0))
	seen := make(map[prop.ID]bool)
	for i := 0; i < 100; i++ {
		id := c.Next()
		assert.False(t, seen[id], "id %d reused", id)
		seen[id] = true
	}
}
