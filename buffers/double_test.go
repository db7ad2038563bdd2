// SPDX-License-Identifier: EPL-2.0

package buffers

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoubleBufferReadReturnsWritesInOrder(t *testing.T) {
	t.Parallel()

	b := NewDoubleBuffer[int16](8)
	for i := range 5 {
		require.True(t, b.Write(int16(i)))
	}
	assert.Equal(t, 5, b.Len())

	got := b.Read()
	assert.Equal(t, []int16{0, 1, 2, 3, 4}, got)

	// the other slot is now active and empty
	assert.Zero(t, b.Len())
	assert.Empty(t, b.Read())
}

func TestDoubleBufferOverflowDrops(t *testing.T) {
	t.Parallel()

	b := NewDoubleBuffer[int](3)
	assert.True(t, b.Write(1))
	assert.True(t, b.Write(2))
	assert.True(t, b.Write(3))
	assert.False(t, b.Write(4))

	assert.Equal(t, []int{1, 2, 3}, b.Read())
	assert.True(t, b.Write(5))
	assert.Equal(t, []int{5}, b.Read())
}

func TestDoubleBufferAlternatesSlots(t *testing.T) {
	t.Parallel()

	b := NewDoubleBuffer[int](4)
	b.Write(1)
	first := b.Read()
	b.Write(2)
	b.Write(3)

	// first stays valid until the next Read
	assert.Equal(t, []int{1}, first)

	second := b.Read()
	assert.Equal(t, []int{2, 3}, second)

	b.Write(9)
	assert.Equal(t, []int{9}, b.Read())
}

func TestDoubleBufferResetAndCap(t *testing.T) {
	t.Parallel()

	b := NewDoubleBuffer[float32](16)
	assert.Equal(t, 16, b.Cap())
	b.Write(1)
	b.Reset()
	assert.Zero(t, b.Len())
	assert.Empty(t, b.Read())
}

func TestDoubleBufferZeroSize(t *testing.T) {
	t.Parallel()

	b := NewDoubleBuffer[int](0)
	assert.False(t, b.Write(1))
	assert.Empty(t, b.Read())
}

func TestDoubleBufferConcurrentWriteRead(t *testing.T) {
	t.Parallel()

	const total = 10000
	b := NewDoubleBuffer[int](total)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := range total {
			b.Write(i)
		}
	}()

	var got []int
	for {
		select {
		case <-done:
			got = append(got, b.Read()...)
			require.Len(t, got, total)
			for i, v := range got {
				require.Equal(t, i, v)
			}
			return
		default:
			got = append(got, b.Read()...)
			runtime.Gosched()
		}
	}
}
