// Package viewstate holds the in-memory view model of one consumer.
package viewstate

import "sync"

// Holder owns a value of T for as long as its consumer is alive. Updates
// that arrive after Close are discarded.
type Holder[T any] struct {
	mu    sync.Mutex
	value T
	alive bool
}

// New returns a live holder with the given initial value.
func New[T any](initial T) *Holder[T] {
	return &Holder[T]{value: initial, alive: true}
}

// Update applies fn to the held value. It reports false, without calling fn,
// when the holder is closed.
func (h *Holder[T]) Update(fn func(*T)) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.alive {
		return false
	}
	fn(&h.value)
	return true
}

// Replace swaps the held value wholesale.
func (h *Holder[T]) Replace(v T) bool {
	return h.Update(func(cur *T) { *cur = v })
}

// Snapshot returns a shallow copy of the held value. Maps and slices in T are
// shared with the copy, so updates must replace them rather than write them in
// place.
func (h *Holder[T]) Snapshot() T {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.value
}

// Alive reports whether the holder still accepts updates.
func (h *Holder[T]) Alive() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.alive
}

// Close marks the consumer as gone. It is safe to call more than once.
func (h *Holder[T]) Close() {
	h.mu.Lock()
	h.alive = false
	h.mu.Unlock()
}
