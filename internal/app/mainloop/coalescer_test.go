package mainloop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoalescerMergesBurstIntoSingleRun(t *testing.T) {
	queue := make([]func(), 0, 8)
	c := NewCoalescer[string](func(fn func()) { queue = append(queue, fn) })

	value := 0
	for i := 1; i <= 5; i++ {
		v := i
		c.Post("ws0-ctx1", func() { value = v })
	}

	require.Len(t, queue, 1)
	assert.Equal(t, 1, c.Pending())
	queue[0]()

	assert.Equal(t, 5, value, "latest callback should win")
	assert.Equal(t, 0, c.Pending())
}

func TestCoalescerKeysAreIndependent(t *testing.T) {
	queue := make([]func(), 0, 4)
	c := NewCoalescer[int](func(fn func()) { queue = append(queue, fn) })

	c.Post(1, func() {})
	c.Post(2, func() {})
	c.Post(1, func() {})

	assert.Len(t, queue, 2)
}

func TestCoalescerDropsWorkAfterDestroy(t *testing.T) {
	queue := make([]func(), 0, 4)
	c := NewCoalescer[string](func(fn func()) { queue = append(queue, fn) })

	ran := false
	c.Post("title", func() { ran = true })
	c.Destroy()

	require.Len(t, queue, 1)
	queue[0]()
	assert.False(t, ran, "queued work should be dropped after destroy")

	c.Post("title", func() { ran = true })
	assert.Len(t, queue, 1, "no new callback after destroy")
}

func TestNewCoalescerPanicsOnNilPost(t *testing.T) {
	assert.Panics(t, func() { _ = NewCoalescer[string](nil) })
}
