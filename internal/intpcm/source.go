// SPDX-License-Identifier: EPL-2.0

// Package intpcm adapts the integer PCM decoders of github.com/go-audio to
// float32 sources.
package intpcm

import (
	"errors"
	"io"

	goaudio "github.com/go-audio/audio"
)

// Reader is the part of the go-audio wav and aiff decoders a Source uses.
type Reader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source reads integer PCM from a Reader and scales it to [-1,1).
type Source struct {
	dec      Reader
	rate     int
	channels int
	scale    float32
	buf      *goaudio.IntBuffer
}

func NewSource(dec Reader, sampleRate, channels, bitDepth int) *Source {
	return &Source{
		dec:      dec,
		rate:     sampleRate,
		channels: channels,
		scale:    1 / fullScale(bitDepth),
	}
}

func fullScale(bitDepth int) float32 {
	switch bitDepth {
	case 8:
		return 128
	case 24:
		return 8388608
	case 32:
		return 2147483648
	default:
		return 32768
	}
}

func (s *Source) SampleRate() int { return s.rate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) Close() error    { return nil }

func (s *Source) BufSize() int {
	if s.buf != nil {
		return cap(s.buf.Data)
	}
	return 4096
}

// ReadSamples returns io.EOF together with a short read.
func (s *Source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.buf == nil || cap(s.buf.Data) < len(dst) {
		s.buf = &goaudio.IntBuffer{
			Data:   make([]int, len(dst)),
			Format: s.dec.Format(),
		}
	} else {
		s.buf.Data = s.buf.Data[:len(dst)]
	}

	n, err := s.dec.PCMBuffer(s.buf)
	for i, v := range s.buf.Data[:n] {
		dst[i] = float32(v) * s.scale
	}

	switch {
	case err != nil && !errors.Is(err, io.EOF):
		return n, err
	case n == 0 || n < len(dst) || err != nil:
		return n, io.EOF
	}
	return n, nil
}
