// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides deterministic PCM sources for tests. The
// sources satisfy audio.Source without importing it.
package audiotest

import (
	"errors"
	"io"
)

// Source produces frames frames whose samples come from Wave.
type Source struct {
	Rate   int
	Chans  int
	Frames int
	Wave   func(frame, channel int) float32
	// Err, when set, is returned instead of io.EOF at the end.
	Err error

	pos    int
	closed bool
}

// Ramp is a source whose sample value is frame/Frames on every channel.
func Ramp(rate, channels, frames int) *Source {
	return &Source{Rate: rate, Chans: channels, Frames: frames, Wave: func(f, _ int) float32 {
		return float32(f) / float32(frames)
	}}
}

// Constant is a source of a single value.
func Constant(rate, channels, frames int, v float32) *Source {
	return &Source{Rate: rate, Chans: channels, Frames: frames, Wave: func(int, int) float32 { return v }}
}

// PerChannel makes every sample of channel c equal values[c].
func PerChannel(rate, frames int, values ...float32) *Source {
	return &Source{Rate: rate, Chans: len(values), Frames: frames, Wave: func(_, c int) float32 { return values[c] }}
}

var ErrClosed = errors.New("audiotest: source closed")

func (s *Source) SampleRate() int { return s.Rate }
func (s *Source) Channels() int   { return s.Chans }
func (s *Source) BufSize() int    { return 4096 }
func (s *Source) Closed() bool    { return s.closed }

func (s *Source) Close() error {
	s.closed = true
	return nil
}

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	end := io.EOF
	if s.Err != nil {
		end = s.Err
	}
	if s.pos >= s.Frames {
		return 0, end
	}

	frames := min(len(dst)/s.Chans, s.Frames-s.pos)
	for f := range frames {
		for c := range s.Chans {
			dst[f*s.Chans+c] = s.Wave(s.pos+f, c)
		}
	}
	s.pos += frames

	if s.pos >= s.Frames {
		return frames * s.Chans, end
	}
	return frames * s.Chans, nil
}
