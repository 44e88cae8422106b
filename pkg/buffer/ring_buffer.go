package buffer

import (
	"errors"
	"sync"
)

// ErrClosed is returned when adding to a closed buffer.
var ErrClosed = errors.New("buffer: closed")

// RingBuffer is a thread-safe fixed-size buffer. When it is full, new items
// overwrite the oldest ones.
//
// The buffer uses monotonically increasing head and tail counters; the slot
// of counter n is n % size.
type RingBuffer[T any] struct {
	mu         sync.Mutex
	buf        []T
	head, tail int64
	closed     bool
}

// RingN creates a new RingBuffer with the specified size.
// The buffer will overwrite the oldest data when this capacity is exceeded.
func RingN[T any](size int) *RingBuffer[T] {
	if size < 1 {
		size = 1
	}
	return &RingBuffer[T]{buf: make([]T, size)}
}

// Add appends one item, dropping the oldest when the buffer is full.
func (rb *RingBuffer[T]) Add(t T) error {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	if rb.closed {
		return ErrClosed
	}
	rb.addLocked(t)
	return nil
}

func (rb *RingBuffer[T]) addLocked(t T) {
	rb.buf[rb.tail%int64(len(rb.buf))] = t
	rb.tail++
	if rb.tail-rb.head > int64(len(rb.buf)) {
		rb.head++
	}
}

// Write appends all items of p. Only the last Cap() of them are kept when p
// is larger than the buffer.
func (rb *RingBuffer[T]) Write(p []T) (int, error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	if rb.closed {
		return 0, ErrClosed
	}
	skip := max(0, len(p)-len(rb.buf))
	for _, t := range p[skip:] {
		rb.addLocked(t)
	}
	return len(p), nil
}

// Items returns a copy of all items, oldest first.
func (rb *RingBuffer[T]) Items() []T {
	return rb.Last(-1)
}

// Last returns a copy of the newest n items, oldest first. A negative n
// returns everything.
func (rb *RingBuffer[T]) Last(n int) []T {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	count := int(rb.tail - rb.head)
	if n < 0 || n > count {
		n = count
	}
	out := make([]T, n)
	size := int64(len(rb.buf))
	for i := range out {
		out[i] = rb.buf[(rb.tail-int64(n)+int64(i))%size]
	}
	return out
}

// Len returns the number of items currently in the buffer.
func (rb *RingBuffer[T]) Len() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return int(rb.tail - rb.head)
}

// Cap returns the buffer size.
func (rb *RingBuffer[T]) Cap() int {
	return len(rb.buf)
}

// Reset discards all items.
func (rb *RingBuffer[T]) Reset() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.head = 0
	rb.tail = 0
	clear(rb.buf)
}

// Close rejects further writes. Items stay readable.
func (rb *RingBuffer[T]) Close() error {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.closed = true
	return nil
}
