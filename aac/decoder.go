// SPDX-License-Identifier: EPL-2.0

package aac

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/ik5/aacpbx/codec"
)

const (
	DefaultDecoderOutputSize = 4096 // samples
	DefaultChunkSize         = 256  // bytes per Fill call
	minOutputChannels        = 2
)

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithOutputBufferSize sets the PCM output buffer size in samples. It must
// hold at least one full decoded frame of all channels.
func WithOutputBufferSize(samples int) DecoderOption {
	return func(d *Decoder) {
		if samples > 0 {
			d.outSize = samples
		}
	}
}

// WithChunkSize sets how many bytes Write hands to the native decoder at once.
func WithChunkSize(n int) DecoderOption {
	return func(d *Decoder) {
		if n > 0 {
			d.chunkSize = n
		}
	}
}

// WithFrameHandler delivers decoded frames to h. It takes precedence over
// WithOutput.
func WithFrameHandler(h FrameHandler) DecoderOption {
	return func(d *Decoder) { d.frames = h }
}

func WithInfoHandler(h InfoHandler) DecoderOption {
	return func(d *Decoder) { d.infos = h }
}

// WithOutput writes decoded frames to w as interleaved little-endian int16.
func WithOutput(w io.Writer) DecoderOption {
	return func(d *Decoder) { d.out = w }
}

// WithDecoderFlags sets the flags passed with every DecodeFrame call. The
// default is codec.FlagIntr.
func WithDecoderFlags(flags codec.DecoderFlag) DecoderOption {
	return func(d *Decoder) { d.flags = flags }
}

func WithDecoderLogger(l *slog.Logger) DecoderOption {
	return func(d *Decoder) {
		if l != nil {
			d.log = l
		}
	}
}

// Decoder feeds compressed AAC bytes to a native decoder and delivers the
// decoded PCM frames.
type Decoder struct {
	open      codec.DecoderOpener
	log       *slog.Logger
	outSize   int
	chunkSize int
	flags     codec.DecoderFlag
	frames    FrameHandler
	infos     InfoHandler
	out       io.Writer

	// writeMu serializes Write and guards raw; mu guards the rest.
	writeMu sync.Mutex
	raw     []byte

	mu       sync.Mutex
	handle   codec.NativeDecoder
	pcm      []int16
	info     codec.StreamInfo
	lastRate int
}

// NewDecoder returns a closed Decoder. Call Begin before writing to it.
func NewDecoder(open codec.DecoderOpener, opts ...DecoderOption) *Decoder {
	d := &Decoder{
		open:      open,
		log:       slog.Default().With("component", "aac.decoder"),
		outSize:   DefaultDecoderOutputSize,
		chunkSize: DefaultChunkSize,
		flags:     codec.FlagIntr,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Begin opens the native decoder for transport. Calling it on an open
// Decoder does nothing. Mono streams are decoded to two channels.
func (d *Decoder) Begin(transport codec.TransportType, layers uint) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.handle != nil {
		d.log.Debug("decoder already open", "transport", transport)
		return nil
	}
	if d.open == nil {
		return ErrNilOpener
	}
	if layers == 0 {
		layers = 1
	}

	h, err := d.open(transport, layers)
	if err != nil {
		d.log.Error("open decoder", "transport", transport, "error", err)
		return fmt.Errorf("aac: open decoder (%s): %w", transport, err)
	}
	if err := h.SetParam(codec.PCMMinOutputChannels, minOutputChannels); err != nil {
		d.log.Warn("set minimum output channels", "error", err)
	}

	d.handle = h
	if d.pcm == nil {
		d.pcm = make([]int16, d.outSize)
	}
	d.lastRate = 0
	d.info = codec.StreamInfo{}
	d.log.Debug("decoder opened", "transport", transport, "layers", layers, "output_size", d.outSize)
	return nil
}

// ConfigRaw passes an AudioSpecificConfig or StreamMuxConfig to the native
// decoder. It is required for raw and out-of-band LATM transports.
func (d *Decoder) ConfigRaw(cfg []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.handle == nil {
		return ErrNotOpen
	}
	if err := d.handle.ConfigRaw(cfg); err != nil {
		d.log.Error("configure decoder", "size", len(cfg), "error", err)
		return fmt.Errorf("aac: config raw: %w", err)
	}
	return nil
}

func (d *Decoder) SetParam(param codec.DecoderParam, value int32) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.handle == nil {
		return ErrNotOpen
	}
	if err := d.handle.SetParam(param, value); err != nil {
		return fmt.Errorf("aac: set %s=%d: %w", param, value, err)
	}
	return nil
}

// Write hands p to the native decoder in chunks and decodes every complete
// frame. It returns the number of bytes the native decoder took, which is
// len(p) unless its input buffer stops accepting data. Frames the native
// decoder rejects are logged and dropped.
//
// Handlers run without the state lock held, so they may call StreamInfo,
// IsOpen or End. Calling Write from a handler deadlocks.
func (d *Decoder) Write(p []byte) (int, error) {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	pos := 0
	for pos < len(p) {
		end := min(pos+d.chunkSize, len(p))
		n, err := d.fill(p[pos:end])
		if err != nil {
			return pos, err
		}
		if n == 0 {
			return pos, ErrInputBufferFull
		}
		pos += n

		if err := d.decodeFrames(); err != nil {
			return pos, err
		}
	}
	return pos, nil
}

func (d *Decoder) fill(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.handle == nil {
		return 0, ErrNotOpen
	}
	n, err := d.handle.Fill(p)
	if err != nil {
		d.log.Error("fill decoder", "error", err)
		return 0, fmt.Errorf("aac: fill: %w", err)
	}
	return min(max(n, 0), len(p)), nil
}

// decodeFrames runs until the native decoder wants more input. Only output
// write failures and an End from a handler are returned.
func (d *Decoder) decodeFrames() error {
	for {
		pcm, info, changed, err := d.decodeFrame()
		if errors.Is(err, codec.ErrDecNotEnoughBits) {
			return nil
		}
		if errors.Is(err, ErrNotOpen) {
			return err
		}
		if err != nil {
			d.log.Error("decode frame", "error", err)
			return nil
		}
		if err := d.deliver(info, changed, pcm); err != nil {
			return err
		}
	}
}

// decodeFrame decodes one frame and records its format. changed reports a
// sample rate different from the previous frame.
func (d *Decoder) decodeFrame() (pcm []int16, info codec.StreamInfo, changed bool, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.handle == nil {
		return nil, info, false, ErrNotOpen
	}
	n, err := d.handle.DecodeFrame(d.pcm, d.flags)
	if err != nil {
		return nil, info, false, err
	}
	d.info = d.handle.StreamInfo()
	if d.info.SampleRate != d.lastRate {
		d.lastRate = d.info.SampleRate
		changed = true
	}
	return d.pcm[:min(max(n, 0), len(d.pcm))], d.info, changed, nil
}

func (d *Decoder) deliver(info codec.StreamInfo, changed bool, pcm []int16) error {
	if changed {
		d.log.Info("stream format",
			"sample_rate", info.SampleRate,
			"channels", info.Channels,
			"frame_size", info.FrameSize,
			"aot", info.AOT)
		if d.infos != nil {
			d.infos.HandleInfo(info)
		}
	}

	switch {
	case d.frames != nil:
		d.frames.HandleFrame(info, pcm)
	case d.out != nil:
		d.raw = d.raw[:0]
		for _, s := range pcm {
			d.raw = binary.LittleEndian.AppendUint16(d.raw, uint16(s))
		}
		if _, err := d.out.Write(d.raw); err != nil {
			return fmt.Errorf("aac: write pcm: %w", err)
		}
	}
	return nil
}

// StreamInfo returns the format of the last decoded frame.
func (d *Decoder) StreamInfo() codec.StreamInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.info
}

func (d *Decoder) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.handle != nil
}

// End closes the native decoder and releases the output buffer. It is safe
// to call more than once.
func (d *Decoder) End() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.handle == nil {
		return nil
	}
	err := d.handle.Close()
	d.handle = nil
	d.pcm = nil
	d.log.Debug("decoder closed")
	if err != nil {
		return fmt.Errorf("aac: close decoder: %w", err)
	}
	return nil
}

func (d *Decoder) Close() error { return d.End() }
