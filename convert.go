// SPDX-License-Identifier: EPL-2.0

package aacpbx

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/ik5/aacpbx/aac"
	"github.com/ik5/aacpbx/audio"
	"github.com/ik5/aacpbx/codec"
	aacformat "github.com/ik5/aacpbx/formats/aac"
	"github.com/ik5/aacpbx/formats/aiff"
	"github.com/ik5/aacpbx/formats/mp3"
	"github.com/ik5/aacpbx/formats/vorbis"
	"github.com/ik5/aacpbx/formats/wav"
)

// maxChannels is the widest layout the encoder accepts.
const maxChannels = 6

// NewRegistry returns a registry with every supported input format. AAC
// streams are decoded with open.
func NewRegistry(open codec.DecoderOpener) *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register("aac", aacformat.Decoder{Open: open})
	reg.Register("adts", aacformat.Decoder{Open: open})
	return reg
}

type encodeConfig struct {
	bitrate int
	vbr     int
	log     *slog.Logger
}

type EncodeOption func(*encodeConfig)

// WithBitrate selects constant bitrate encoding in bits/s.
func WithBitrate(bps int) EncodeOption {
	return func(c *encodeConfig) { c.bitrate = bps }
}

// WithVBR selects variable bitrate quality 1 to 5. It is ignored when a
// constant bitrate is set.
func WithVBR(mode int) EncodeOption {
	return func(c *encodeConfig) { c.vbr = mode }
}

func WithLogger(l *slog.Logger) EncodeOption {
	return func(c *encodeConfig) { c.log = l }
}

// EncodeResult describes what EncodeSource produced.
type EncodeResult struct {
	SampleRate int
	Channels   int
	PCMBytes   int64
}

// EncodeSource encodes src to ADTS AAC written to w. Sources with more than
// six channels are mixed down to mono and sample rates an AAC stream cannot
// signal are resampled to the nearest one. src is not closed.
func EncodeSource(w io.Writer, src audio.Source, open codec.EncoderOpener, opts ...EncodeOption) (EncodeResult, error) {
	cfg := encodeConfig{log: slog.Default().With("component", "aacpbx")}
	for _, opt := range opts {
		opt(&cfg)
	}

	if src.SampleRate() <= 0 {
		return EncodeResult{}, fmt.Errorf("%w: %d", aac.ErrInvalidSampleRate, src.SampleRate())
	}
	if src.Channels() > maxChannels {
		cfg.log.Info("mixing down to mono", "channels", src.Channels())
		src = audio.NewMonoMixer(src)
	}
	if rate := codec.NearestSampleRate(src.SampleRate()); rate != src.SampleRate() {
		cfg.log.Info("resampling", "from", src.SampleRate(), "to", rate)
		src = audio.NewResampler(src, rate)
	}

	res := EncodeResult{SampleRate: src.SampleRate(), Channels: src.Channels()}
	enc := aac.NewEncoder(open, aac.WithEncoderOutput(w), aac.WithEncoderLogger(cfg.log))
	switch {
	case cfg.bitrate > 0:
		enc.SetVariableBitrateMode(0)
		enc.SetBitrate(cfg.bitrate)
	case cfg.vbr > 0:
		enc.SetVariableBitrateMode(cfg.vbr)
	}

	err := enc.BeginWith(aac.AudioInfo{SampleRate: res.SampleRate, Channels: res.Channels, BitsPerSample: 16})
	if err != nil {
		return res, err
	}
	defer func() { _ = enc.End() }()

	frame := enc.Info().FrameLength
	if frame <= 0 {
		frame = 1024
	}
	buf := make([]byte, frame*res.Channels*2)
	res.PCMBytes, err = io.CopyBuffer(enc, audio.NewPCM16Reader(src), buf)
	if err != nil {
		return res, fmt.Errorf("aacpbx: encode: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return res, err
	}
	cfg.log.Debug("encoded", "pcm_bytes", res.PCMBytes, "sample_rate", res.SampleRate, "channels", res.Channels)
	return res, enc.End()
}

// DecodeToWAV decodes the ADTS stream in r into a 16-bit WAV and returns
// the number of frames written.
func DecodeToWAV(ws io.WriteSeeker, r io.Reader, open codec.DecoderOpener) (int, error) {
	src, err := aacformat.Decoder{Open: open}.Decode(r)
	if err != nil {
		return 0, err
	}
	defer func() { _ = src.Close() }()

	return wav.WriteSource(ws, src)
}
