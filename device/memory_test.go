// SPDX-License-Identifier: EPL-2.0

package device

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDriverLifecycle(t *testing.T) {
	t.Parallel()

	d := NewMemoryDriver()
	_, err := d.Read(make([]byte, 1), 0)
	assert.ErrorIs(t, err, ErrNotInstalled)
	_, err = d.Write([]byte{1})
	assert.ErrorIs(t, err, ErrNotInstalled)
	assert.ErrorIs(t, d.Start(), ErrNotInstalled)

	cfg := testConfig(Duplex, 2)
	require.NoError(t, d.Install(cfg))
	assert.ErrorIs(t, d.Install(cfg), ErrInstalled)
	assert.Equal(t, cfg, d.Config())

	// installed but not started
	_, err = d.Write([]byte{1})
	assert.ErrorIs(t, err, ErrStopped)

	require.NoError(t, d.Start())
	n, err := d.Write([]byte{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, d.Stop())
	_, err = d.Write([]byte{1})
	assert.ErrorIs(t, err, ErrStopped)

	require.NoError(t, d.Uninstall())
	require.NoError(t, d.Uninstall())
}

func TestMemoryDriverReadTimeout(t *testing.T) {
	t.Parallel()

	d := NewMemoryDriver()
	require.NoError(t, d.Install(testConfig(Receive, 2)))
	require.NoError(t, d.Start())
	t.Cleanup(func() { _ = d.Uninstall() })

	start := time.Now()
	n, err := d.Read(make([]byte, 4), 5*time.Millisecond)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
}

func TestFIFOPutIsBounded(t *testing.T) {
	t.Parallel()

	f := newFIFO(8)
	assert.Equal(t, 8, f.put(make([]byte, 12)))
	assert.Equal(t, 8, f.len())
	assert.Zero(t, f.put([]byte{1}))

	p := make([]byte, 3)
	assert.Equal(t, 3, f.take(p))
	assert.Equal(t, 5, f.len())

	f.reset()
	assert.Zero(t, f.len())
}

func TestFIFOWriteWaitsForRoom(t *testing.T) {
	t.Parallel()

	f := newFIFO(4)
	done := make(chan struct{})
	go func() {
		defer close(done)
		n, err := f.write([]byte{1, 2, 3, 4, 5, 6})
		assert.NoError(t, err)
		assert.Equal(t, 6, n)
	}()

	got := make([]byte, 0, 6)
	p := make([]byte, 4)
	require.Eventually(t, func() bool {
		got = append(got, p[:f.take(p)]...)
		return len(got) == 6
	}, time.Second, time.Millisecond)
	<-done
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, got)
}

func TestFIFOCloseReleasesWriter(t *testing.T) {
	t.Parallel()

	f := newFIFO(2)
	done := make(chan error, 1)
	go func() {
		_, err := f.write([]byte{1, 2, 3})
		done <- err
	}()

	time.Sleep(5 * time.Millisecond)
	f.close()
	assert.ErrorIs(t, <-done, ErrStopped)

	// a closed fifo still drains
	p := make([]byte, 4)
	assert.Equal(t, 2, f.take(p))
	_, err := f.read(p, -1)
	assert.ErrorIs(t, err, ErrStopped)
}
