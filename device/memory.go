// SPDX-License-Identifier: EPL-2.0

package device

import (
	"sync"
	"time"
)

// MemoryDriver is a Driver without hardware. Input is injected with Capture
// and output is collected with Playback, the way an audio callback would.
type MemoryDriver struct {
	mu        sync.Mutex
	cfg       Config
	installed bool
	running   bool
	rx, tx    *fifo
}

func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{}
}

// fifoSize keeps a few buffers worth of audio queued in each direction.
func fifoSize(cfg Config) int {
	return max(cfg.BufferSize, 64) * 4
}

func (d *MemoryDriver) Install(cfg Config) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.installed {
		return ErrInstalled
	}
	d.cfg = cfg
	d.rx = newFIFO(fifoSize(cfg))
	d.tx = newFIFO(fifoSize(cfg))
	d.installed = true
	return nil
}

func (d *MemoryDriver) Uninstall() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.installed {
		return nil
	}
	d.rx.close()
	d.tx.close()
	d.installed = false
	d.running = false
	return nil
}

func (d *MemoryDriver) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.installed {
		return ErrNotInstalled
	}
	d.rx.resume()
	d.tx.resume()
	d.running = true
	return nil
}

func (d *MemoryDriver) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.installed {
		return ErrNotInstalled
	}
	d.rx.close()
	d.tx.close()
	d.running = false
	return nil
}

func (d *MemoryDriver) Read(p []byte, timeout time.Duration) (int, error) {
	d.mu.Lock()
	rx, ok := d.rx, d.installed
	d.mu.Unlock()

	if !ok {
		return 0, ErrNotInstalled
	}
	return rx.read(p, timeout)
}

func (d *MemoryDriver) Write(p []byte) (int, error) {
	d.mu.Lock()
	tx, ok, running := d.tx, d.installed, d.running
	d.mu.Unlock()

	if !ok {
		return 0, ErrNotInstalled
	}
	if !running {
		return 0, ErrStopped
	}
	return tx.write(p)
}

// Capture queues p as if it had been recorded. It never blocks and returns
// how many bytes fit.
func (d *MemoryDriver) Capture(p []byte) int {
	d.mu.Lock()
	rx := d.rx
	d.mu.Unlock()
	if rx == nil {
		return 0
	}
	return rx.put(p)
}

// Playback takes up to len(p) bytes of queued output.
func (d *MemoryDriver) Playback(p []byte) int {
	d.mu.Lock()
	tx := d.tx
	d.mu.Unlock()
	if tx == nil {
		return 0
	}
	return tx.take(p)
}

// Config returns the configuration given to Install.
func (d *MemoryDriver) Config() Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}
