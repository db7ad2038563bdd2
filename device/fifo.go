// SPDX-License-Identifier: EPL-2.0

package device

import (
	"sync"
	"time"

	"github.com/smallnest/ringbuffer"
)

// fifo is a byte queue between an audio callback and a blocking caller.
// The callback side uses put and take, which never wait.
type fifo struct {
	rb *ringbuffer.RingBuffer

	mu       sync.Mutex
	readable chan struct{}
	writable chan struct{}
	done     chan struct{}
}

func newFIFO(size int) *fifo {
	return &fifo{
		rb:       ringbuffer.New(size),
		readable: make(chan struct{}, 1),
		writable: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// put stores as much of p as fits.
func (f *fifo) put(p []byte) int {
	f.mu.Lock()
	n := min(len(p), f.rb.Free())
	if n > 0 {
		n, _ = f.rb.Write(p[:n])
	}
	f.mu.Unlock()

	if n > 0 {
		signal(f.readable)
	}
	return n
}

// take removes up to len(p) bytes.
func (f *fifo) take(p []byte) int {
	f.mu.Lock()
	n := min(len(p), f.rb.Length())
	if n > 0 {
		n, _ = f.rb.Read(p[:n])
	}
	f.mu.Unlock()

	if n > 0 {
		signal(f.writable)
	}
	return n
}

func (f *fifo) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rb.Length()
}

func (f *fifo) read(p []byte, timeout time.Duration) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	var expired <-chan time.Time
	if timeout >= 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}

	done := f.doneCh()
	for {
		if n := f.take(p); n > 0 {
			return n, nil
		}
		select {
		case <-f.readable:
		case <-done:
			if n := f.take(p); n > 0 {
				return n, nil
			}
			return 0, ErrStopped
		case <-expired:
			return 0, nil
		}
	}
}

func (f *fifo) write(p []byte) (int, error) {
	done := f.doneCh()
	written := 0
	for written < len(p) {
		written += f.put(p[written:])
		if written == len(p) {
			break
		}
		select {
		case <-f.writable:
		case <-done:
			return written, ErrStopped
		}
	}
	return written, nil
}

func (f *fifo) doneCh() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done
}

// close wakes every waiter. A closed fifo can still be drained with take.
func (f *fifo) close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	select {
	case <-f.done:
	default:
		close(f.done)
	}
}

// resume makes a closed fifo block its callers again.
func (f *fifo) resume() {
	f.mu.Lock()
	defer f.mu.Unlock()
	select {
	case <-f.done:
		f.done = make(chan struct{})
	default:
	}
}

func (f *fifo) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rb.Reset()
}
