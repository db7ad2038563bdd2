// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"math"
)

// Tone is a sine wave Source of fixed length, written identically to every
// channel.
type Tone struct {
	rate      int
	channels  int
	freq      float64
	amplitude float32
	frames    int
	pos       int
}

// NewTone returns frames frames of a sine wave at freq Hz. A negative
// frames value makes the tone endless.
func NewTone(sampleRate, channels int, freq float64, amplitude float32, frames int) *Tone {
	return &Tone{
		rate:      sampleRate,
		channels:  max(channels, 1),
		freq:      freq,
		amplitude: amplitude,
		frames:    frames,
	}
}

func (t *Tone) SampleRate() int { return t.rate }
func (t *Tone) Channels() int   { return t.channels }
func (t *Tone) BufSize() int    { return 4096 }
func (t *Tone) Close() error    { return nil }

func (t *Tone) ReadSamples(dst []float32) (int, error) {
	if len(dst)%t.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	want := len(dst) / t.channels
	if t.frames >= 0 {
		want = min(want, t.frames-t.pos)
	}
	if want <= 0 {
		return 0, io.EOF
	}

	step := 2 * math.Pi * t.freq / float64(t.rate)
	for f := range want {
		v := t.amplitude * float32(math.Sin(step*float64(t.pos+f)))
		for c := range t.channels {
			dst[f*t.channels+c] = v
		}
	}
	t.pos += want

	n := want * t.channels
	if t.frames >= 0 && t.pos >= t.frames {
		return n, io.EOF
	}
	return n, nil
}
