package viewstate

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type counter struct {
	N int
}

func TestHolder_UpdateAndSnapshot(t *testing.T) {
	h := New(counter{N: 1})

	assert.True(t, h.Update(func(c *counter) { c.N++ }))
	assert.Equal(t, 2, h.Snapshot().N)

	assert.True(t, h.Replace(counter{N: 10}))
	assert.Equal(t, counter{N: 10}, h.Snapshot())
}

func TestHolder_DiscardsAfterClose(t *testing.T) {
	h := New(counter{N: 1})
	h.Close()
	h.Close()

	called := false
	assert.False(t, h.Update(func(c *counter) { called = true; c.N = 99 }))
	assert.False(t, h.Replace(counter{N: 5}))
	assert.False(t, called)
	assert.False(t, h.Alive())
	assert.Equal(t, 1, h.Snapshot().N)
}

func TestHolder_ConcurrentUpdates(t *testing.T) {
	h := New(counter{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Update(func(c *counter) { c.N++ })
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, h.Snapshot().N)
	assert.True(t, h.Alive())
}
