// SPDX-License-Identifier: EPL-2.0

//go:build cgo

package device

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gen2brain/malgo"
)

// MalgoDriver drives the default sound card through miniaudio. Capture
// uses the configured channel count; playback is always interleaved
// stereo, which is what Stream writes.
type MalgoDriver struct {
	log *slog.Logger

	mu     sync.Mutex
	cfg    Config
	ctx    *malgo.AllocatedContext
	dev    *malgo.Device
	rx, tx *fifo
}

func NewMalgoDriver(l *slog.Logger) *MalgoDriver {
	if l == nil {
		l = slog.Default().With("component", "device.malgo")
	}
	return &MalgoDriver{log: l}
}

func (d *MalgoDriver) Install(cfg Config) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.dev != nil {
		return ErrInstalled
	}
	if cfg.BitsPerSample != 16 {
		return fmt.Errorf("%w: %d", ErrUnsupportedBits, cfg.BitsPerSample)
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(msg string) {
		d.log.Debug("miniaudio", "message", msg)
	})
	if err != nil {
		return fmt.Errorf("device: init context: %w", err)
	}

	kind := malgo.Playback
	switch {
	case cfg.Mode.Has(Receive) && cfg.Mode.Has(Transmit):
		kind = malgo.Duplex
	case cfg.Mode.Has(Receive):
		kind = malgo.Capture
	}

	devCfg := malgo.DefaultDeviceConfig(kind)
	devCfg.SampleRate = uint32(cfg.SampleRate)
	devCfg.Alsa.NoMMap = 1
	devCfg.Capture.Format = malgo.FormatS16
	devCfg.Capture.Channels = uint32(max(cfg.Channels, 1))
	devCfg.Playback.Format = malgo.FormatS16
	devCfg.Playback.Channels = 2

	rx := newFIFO(fifoSize(cfg))
	tx := newFIFO(fifoSize(cfg))
	callbacks := malgo.DeviceCallbacks{
		Data: func(out, in []byte, _ uint32) {
			if len(in) > 0 {
				if n := rx.put(in); n < len(in) {
					d.log.Debug("capture overrun", "dropped", len(in)-n)
				}
			}
			if len(out) > 0 {
				n := tx.take(out)
				clear(out[n:])
			}
		},
	}

	dev, err := malgo.InitDevice(ctx.Context, devCfg, callbacks)
	if err != nil {
		_ = ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("device: init device: %w", err)
	}

	d.cfg = cfg
	d.ctx = ctx
	d.dev = dev
	d.rx, d.tx = rx, tx
	d.log.Info("device installed",
		"sample_rate", cfg.SampleRate,
		"channels", cfg.Channels,
		"capture", cfg.Mode.Has(Receive),
		"playback", cfg.Mode.Has(Transmit))
	return nil
}

func (d *MalgoDriver) Uninstall() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.dev == nil {
		return nil
	}
	d.rx.close()
	d.tx.close()
	d.dev.Uninit()
	d.dev = nil

	err := d.ctx.Uninit()
	d.ctx.Free()
	d.ctx = nil
	if err != nil {
		return fmt.Errorf("device: uninit context: %w", err)
	}
	return nil
}

func (d *MalgoDriver) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.dev == nil {
		return ErrNotInstalled
	}
	d.rx.resume()
	d.tx.resume()
	if d.dev.IsStarted() {
		return nil
	}
	if err := d.dev.Start(); err != nil {
		return fmt.Errorf("device: start: %w", err)
	}
	return nil
}

func (d *MalgoDriver) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.dev == nil {
		return ErrNotInstalled
	}
	d.rx.close()
	d.tx.close()
	if err := d.dev.Stop(); err != nil {
		return fmt.Errorf("device: stop: %w", err)
	}
	return nil
}

func (d *MalgoDriver) Read(p []byte, timeout time.Duration) (int, error) {
	d.mu.Lock()
	rx := d.rx
	installed := d.dev != nil
	d.mu.Unlock()

	if !installed {
		return 0, ErrNotInstalled
	}
	return rx.read(p, timeout)
}

func (d *MalgoDriver) Write(p []byte) (int, error) {
	d.mu.Lock()
	tx := d.tx
	installed := d.dev != nil
	d.mu.Unlock()

	if !installed {
		return 0, ErrNotInstalled
	}
	return tx.write(p)
}
