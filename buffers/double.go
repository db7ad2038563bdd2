// SPDX-License-Identifier: EPL-2.0

package buffers

import "sync"

// DoubleBuffer collects values into one of two fixed-size slots. Read hands
// out the filled slot and makes the other one the write target.
type DoubleBuffer[T any] struct {
	mu     sync.Mutex
	slots  [2][]T
	active int
}

// NewDoubleBuffer returns a DoubleBuffer whose slots hold size values each.
func NewDoubleBuffer[T any](size int) *DoubleBuffer[T] {
	size = max(size, 0)
	return &DoubleBuffer[T]{
		slots: [2][]T{make([]T, 0, size), make([]T, 0, size)},
	}
}

// Write appends v to the active slot. It returns false and drops v when the
// slot is full.
func (b *DoubleBuffer[T]) Write(v T) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.slots[b.active]
	if len(s) == cap(s) {
		return false
	}
	b.slots[b.active] = append(s, v)
	return true
}

// Read returns the values written since the previous Read and swaps the
// slots. The returned slice stays valid until the next call to Read.
func (b *DoubleBuffer[T]) Read() []T {
	b.mu.Lock()
	defer b.mu.Unlock()

	full := b.slots[b.active]
	b.active ^= 1
	b.slots[b.active] = b.slots[b.active][:0]
	return full
}

// Len is the number of values in the active slot.
func (b *DoubleBuffer[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.slots[b.active])
}

// Cap is the capacity of one slot.
func (b *DoubleBuffer[T]) Cap() int {
	return cap(b.slots[0])
}

// Reset empties both slots.
func (b *DoubleBuffer[T]) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.slots[0] = b.slots[0][:0]
	b.slots[1] = b.slots[1][:0]
	b.active = 0
}
