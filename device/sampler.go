// SPDX-License-Identifier: EPL-2.0

package device

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ik5/aacpbx/buffers"
)

// sampleQueue hands readings from the sampling goroutine to the reader.
type sampleQueue interface {
	Write(v int16) bool
	Read() []int16
}

// ringQueue adapts a lock-free Ring to sampleQueue.
type ringQueue struct {
	ring *buffers.Ring[int16]
}

func (q ringQueue) Write(v int16) bool { return q.ring.Push(v) }

func (q ringQueue) Read() []int16 {
	out := make([]int16, q.ring.Len())
	return out[:q.ring.PopInto(out)]
}

type SamplerOption func(*Sampler)

// WithRing collects readings in a lock-free ring instead of a
// DoubleBuffer. Read must then be called from a single goroutine.
func WithRing() SamplerOption {
	return func(s *Sampler) {
		s.buf = ringQueue{ring: buffers.NewRing[int16](s.size)}
	}
}

// Sampler polls a read function at a fixed rate, the way a timer interrupt samples
// an ADC, and collects the values in a DoubleBuffer.
type Sampler struct {
	rate     int
	size     int
	readFunc func() int16
	buf      sampleQueue
	overruns atomic.Uint64

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSampler samples read rate times per second into slots of bufSize values.
func NewSampler(rate, bufSize int, read func() int16, opts ...SamplerOption) *Sampler {
	s := &Sampler{
		rate:     rate,
		size:     bufSize,
		readFunc: read,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.buf == nil {
		s.buf = buffers.NewDoubleBuffer[int16](bufSize)
	}
	return s
}

// Begin starts sampling until ctx is done or End is called.
func (s *Sampler) Begin(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return ErrSamplerRunning
	}
	if s.rate <= 0 {
		return ErrMissingAudioInfo
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx, s.done)
	return nil
}

func (s *Sampler) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	period := max(time.Second/time.Duration(s.rate), time.Microsecond)
	t := time.NewTicker(period)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.ProcessSample()
		}
	}
}

// ProcessSample takes one reading. A reading that does not fit in the
// active slot is dropped and counted as an overrun.
func (s *Sampler) ProcessSample() {
	if !s.buf.Write(s.readFunc()) {
		s.overruns.Add(1)
	}
}

// Read returns the samples collected since the previous Read.
func (s *Sampler) Read() []int16 {
	return s.buf.Read()
}

func (s *Sampler) Overruns() uint64 {
	return s.overruns.Load()
}

// End stops sampling and waits for the sampling goroutine to exit.
func (s *Sampler) End() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
