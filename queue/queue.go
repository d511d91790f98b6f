// Package queue implements the bounded FIFO used between the pump and its
// consumers. The free space of a queue is the backpressure signal of the pump.
package queue

// RingBuffer is a fixed capacity FIFO. The zero value has no capacity; use New.
type RingBuffer[T any] struct {
	Buffer []T
	head   int // index of the oldest value
	length int
}

func New[T any](capacity int) *RingBuffer[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &RingBuffer[T]{Buffer: make([]T, capacity)}
}

func (r *RingBuffer[T]) Len() int { return r.length }
func (r *RingBuffer[T]) Cap() int { return len(r.Buffer) }

// FreeSpace returns how many values can still be pushed.
func (r *RingBuffer[T]) FreeSpace() int { return len(r.Buffer) - r.length }

// Push appends a value to the end of the queue. It returns false, and drops
// the value, if the queue is full.
func (r *RingBuffer[T]) Push(value T) bool {
	if r.length == len(r.Buffer) {
		return false
	}
	r.Buffer[(r.head+r.length)%len(r.Buffer)] = value
	r.length++
	return true
}

// Pop removes and returns the oldest value.
func (r *RingBuffer[T]) Pop() (value T, ok bool) {
	if r.length == 0 {
		return value, false
	}
	var zero T
	value = r.Buffer[r.head]
	r.Buffer[r.head] = zero
	r.head = (r.head + 1) % len(r.Buffer)
	r.length--
	return value, true
}

// Peek returns the oldest value without removing it.
func (r *RingBuffer[T]) Peek() (value T, ok bool) {
	if r.length == 0 {
		return value, false
	}
	return r.Buffer[r.head], true
}

// At returns the i:th oldest value; i must be in [0, Len()).
func (r *RingBuffer[T]) At(i int) T {
	if i < 0 || i >= r.length {
		panic("queue: index out of range")
	}
	return r.Buffer[(r.head+i)%len(r.Buffer)]
}

// All iterates the queued values from oldest to newest without removing them.
func (r *RingBuffer[T]) All(yield func(int, T) bool) {
	for i := 0; i < r.length; i++ {
		if !yield(i, r.Buffer[(r.head+i)%len(r.Buffer)]) {
			return
		}
	}
}

// Clear drops all the values but keeps the capacity.
func (r *RingBuffer[T]) Clear() {
	clear(r.Buffer)
	r.head = 0
	r.length = 0
}
