// SPDX-License-Identifier: EPL-2.0

package buffers

import (
	"math/bits"
	"sync/atomic"
)

// Ring is a bounded queue for exactly one producer and one consumer
// goroutine. Push and Pop never block and never take a lock.
type Ring[T any] struct {
	buf  []T
	mask uint64

	head atomic.Uint64 // next slot to read, owned by the consumer
	tail atomic.Uint64 // next slot to write, owned by the producer
}

// NewRing returns a Ring holding at least size values. The capacity is
// rounded up to a power of two.
func NewRing[T any](size int) *Ring[T] {
	n := uint64(1)
	if size > 1 {
		n = 1 << bits.Len64(uint64(size-1))
	}
	return &Ring[T]{buf: make([]T, n), mask: n - 1}
}

// Push appends v. It returns false when the ring is full.
func (r *Ring[T]) Push(v T) bool {
	tail := r.tail.Load()
	if tail-r.head.Load() == uint64(len(r.buf)) {
		return false
	}
	r.buf[tail&r.mask] = v
	r.tail.Store(tail + 1)
	return true
}

// Pop removes the oldest value. ok is false when the ring is empty.
func (r *Ring[T]) Pop() (v T, ok bool) {
	head := r.head.Load()
	if head == r.tail.Load() {
		return v, false
	}
	v = r.buf[head&r.mask]
	r.head.Store(head + 1)
	return v, true
}

// PopInto moves up to len(dst) values into dst and returns how many were
// moved.
func (r *Ring[T]) PopInto(dst []T) int {
	head := r.head.Load()
	n := min(int(r.tail.Load()-head), len(dst))
	for i := range n {
		dst[i] = r.buf[(head+uint64(i))&r.mask]
	}
	r.head.Store(head + uint64(n))
	return n
}

func (r *Ring[T]) Len() int {
	return int(r.tail.Load() - r.head.Load())
}

func (r *Ring[T]) Cap() int {
	return len(r.buf)
}
