// SPDX-License-Identifier: EPL-2.0

package device

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSamplerProcessSampleOverrun(t *testing.T) {
	t.Parallel()

	var next int16
	s := NewSampler(8000, 4, func() int16 {
		next++
		return next
	})
	for range 6 {
		s.ProcessSample()
	}

	assert.Equal(t, []int16{1, 2, 3, 4}, s.Read())
	assert.Equal(t, uint64(2), s.Overruns())
	assert.Empty(t, s.Read())
}

func TestSamplerRuns(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	s := NewSampler(10000, 1<<16, func() int16 {
		calls.Add(1)
		return 7
	})
	require.NoError(t, s.Begin(context.Background()))
	assert.ErrorIs(t, s.Begin(context.Background()), ErrSamplerRunning)

	require.Eventually(t, func() bool { return calls.Load() >= 10 }, 2*time.Second, time.Millisecond)
	s.End()
	s.End()

	got := s.Read()
	require.NotEmpty(t, got)
	for _, v := range got {
		assert.Equal(t, int16(7), v)
	}
}

func TestSamplerStopsWithContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	s := NewSampler(1000, 16, func() int16 { return 0 })
	require.NoError(t, s.Begin(ctx))
	cancel()
	s.End()

	// it can be started again after End
	require.NoError(t, s.Begin(context.Background()))
	s.End()
}

func TestSamplerNeedsRate(t *testing.T) {
	t.Parallel()

	s := NewSampler(0, 16, func() int16 { return 0 })
	assert.ErrorIs(t, s.Begin(context.Background()), ErrMissingAudioInfo)
	s.End()
}

func TestSamplerWithRing(t *testing.T) {
	t.Parallel()

	var next int16
	s := NewSampler(8000, 4, func() int16 {
		next++
		return next
	}, WithRing())
	for range 6 {
		s.ProcessSample()
	}

	assert.Equal(t, []int16{1, 2, 3, 4}, s.Read())
	assert.Equal(t, uint64(2), s.Overruns())
	assert.Empty(t, s.Read())

	s.ProcessSample()
	assert.Equal(t, []int16{7}, s.Read())
}

func TestSamplerWithRingRuns(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	s := NewSampler(10000, 1<<16, func() int16 {
		calls.Add(1)
		return 3
	}, WithRing())
	require.NoError(t, s.Begin(context.Background()))

	var got []int16
	require.Eventually(t, func() bool {
		got = append(got, s.Read()...)
		return len(got) >= 10
	}, 2*time.Second, time.Millisecond)
	s.End()
	got = append(got, s.Read()...)

	assert.Equal(t, int(calls.Load()), len(got)+int(s.Overruns()))
	for _, v := range got {
		assert.Equal(t, int16(3), v)
	}
}
