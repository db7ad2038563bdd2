// SPDX-License-Identifier: EPL-2.0

package fdkaac

import (
	"fmt"
	"log/slog"

	"github.com/ik5/aacpbx/codec"
)

const frameLength = 1024

// vbrBitrates is the per-channel bitrate used for VBR modes 1 to 5.
var vbrBitrates = [5]int{32000, 40000, 56000, 72000, 112000}

type encoderConfig struct {
	SampleRate int
	Channels   int
	Bitrate    int
}

// frameEncoder is the part of the library encoder the backend uses.
type frameEncoder interface {
	Encode(in, out []byte) (int, error)
	Flush(out []byte) (int, error)
	OutBytes(inLen int) int
	Close()
}

type encoderFactory func(cfg encoderConfig) (frameEncoder, error)

// Encoder implements codec.NativeEncoder. Output that does not fit the
// caller's buffer is kept and handed out by the following Encode calls.
type Encoder struct {
	create      encoderFactory
	log         *slog.Logger
	maxChannels int

	params  map[codec.EncoderParam]uint32
	raw     frameEncoder
	cfg     encoderConfig
	dirty   bool
	flushed bool
	scratch []byte
	pending []byte
}

func newEncoder(create encoderFactory, maxChannels int, log *slog.Logger) *Encoder {
	return &Encoder{
		create:      create,
		log:         log,
		maxChannels: maxChannels,
		params: map[codec.EncoderParam]uint32{
			codec.EncAOT:         uint32(codec.AOTAACLC),
			codec.EncSampleRate:  44100,
			codec.EncChannelMode: uint32(codec.Mode2),
			codec.EncTransmux:    uint32(codec.TransportADTS),
		},
	}
}

func (e *Encoder) SetParam(param codec.EncoderParam, value uint32) error {
	switch param {
	case codec.EncAOT:
		if aot := codec.AudioObjectType(value); aot != codec.AOTAACLC && aot != codec.AOTMP2AACLC {
			return codec.ErrEncUnsupportedParameter
		}
	case codec.EncTransmux:
		if codec.TransportType(value) != codec.TransportADTS {
			return codec.ErrEncUnsupportedParameter
		}
	case codec.EncChannelMode:
		if value < uint32(codec.Mode1) || value > uint32(codec.Mode1_2_2_1) || int(value) > e.maxChannels {
			return codec.ErrEncUnsupportedParameter
		}
	case codec.EncBitrateMode:
		if value > uint32(len(vbrBitrates)) {
			return codec.ErrEncUnsupportedParameter
		}
	case codec.EncSampleRate:
		if value == 0 {
			return codec.ErrEncUnsupportedParameter
		}
	case codec.EncBitrate, codec.EncChannelOrder, codec.EncAfterburner,
		codec.EncBandwidth, codec.EncSBRMode, codec.EncGranuleLength:
	default:
		return codec.ErrEncUnsupportedParameter
	}

	if old, ok := e.params[param]; !ok || old != value {
		e.params[param] = value
		e.dirty = true
	}
	return nil
}

func (e *Encoder) Param(param codec.EncoderParam) uint32 {
	return e.params[param]
}

func (e *Encoder) config() encoderConfig {
	channels := int(e.params[codec.EncChannelMode])
	cfg := encoderConfig{
		SampleRate: int(e.params[codec.EncSampleRate]),
		Channels:   channels,
		Bitrate:    int(e.params[codec.EncBitrate]),
	}
	if mode := e.params[codec.EncBitrateMode]; mode > 0 {
		cfg.Bitrate = vbrBitrates[mode-1] * channels
	}
	if cfg.Bitrate == 0 {
		cfg.Bitrate = 64000 * channels
	}
	return cfg
}

func (e *Encoder) Init() error {
	if e.raw != nil {
		e.raw.Close()
		e.raw = nil
	}

	cfg := e.config()
	raw, err := e.create(cfg)
	if err != nil {
		e.log.Error("create encoder", "sample_rate", cfg.SampleRate, "channels", cfg.Channels, "error", err)
		return fmt.Errorf("%w: %v", codec.ErrEncInitAAC, err)
	}

	e.raw = raw
	e.cfg = cfg
	e.dirty = false
	e.flushed = false
	e.pending = e.pending[:0]
	e.log.Debug("encoder ready", "sample_rate", cfg.SampleRate, "channels", cfg.Channels, "bitrate", cfg.Bitrate)
	return nil
}

func (e *Encoder) Info() (codec.EncoderInfo, error) {
	if e.raw == nil {
		return codec.EncoderInfo{}, codec.ErrEncInvalidConfig
	}
	return codec.EncoderInfo{
		MaxOutBufBytes: e.raw.OutBytes(frameLength * e.cfg.Channels * 2),
		InputChannels:  e.cfg.Channels,
		FrameLength:    frameLength,
	}, nil
}

func (e *Encoder) Encode(in, out []byte) (int, error) {
	if e.raw == nil {
		return 0, codec.ErrEncInvalidHandle
	}
	if e.dirty && len(e.pending) == 0 {
		if err := e.Init(); err != nil {
			return 0, err
		}
	}

	switch {
	case in == nil && !e.flushed:
		if err := e.run(e.raw.Flush, 4*frameLength*e.cfg.Channels*2); err != nil {
			return 0, err
		}
		e.flushed = true
	case in != nil:
		encode := func(out []byte) (int, error) { return e.raw.Encode(in, out) }
		if err := e.run(encode, len(in)); err != nil {
			return 0, err
		}
	}

	if in == nil && len(e.pending) == 0 {
		return 0, codec.ErrEncEOF
	}
	n := copy(out, e.pending)
	e.pending = e.pending[:copy(e.pending, e.pending[n:])]
	return n, nil
}

// run calls fn with a scratch buffer large enough for inLen bytes of input
// and queues what it produced.
func (e *Encoder) run(fn func(out []byte) (int, error), inLen int) error {
	size := e.raw.OutBytes(inLen)
	if cap(e.scratch) < size {
		e.scratch = make([]byte, size)
	}
	n, err := fn(e.scratch[:size])
	if err != nil {
		e.log.Error("encode", "error", err)
		return fmt.Errorf("%w: %v", codec.ErrEncEncode, err)
	}
	e.pending = append(e.pending, e.scratch[:n]...)
	return nil
}

func (e *Encoder) Close() error {
	if e.raw != nil {
		e.raw.Close()
		e.raw = nil
	}
	return nil
}
