// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/aacpbx/utils"
)

// Resampler converts src to another sample rate with cubic interpolation.
// It keeps the channel count. When downsampling, every source frame first
// passes a one-pole low-pass filter.
type Resampler struct {
	src      Source
	dstRate  int
	step     float64 // source frames per output frame
	channels int

	// win holds the frames around the read position: t-1, t, t+1, t+2.
	// real counts how many of win[1:] came from the source rather than
	// padding.
	win     [4][]float32
	real    int
	pos     float64
	primed  bool
	srcDone bool

	lowpass bool
	lpState []float32
	frame   []float32
}

const lowpassAlpha = 0.5

func NewResampler(src Source, dstRate int) *Resampler {
	ch := src.Channels()
	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		step:     float64(src.SampleRate()) / float64(dstRate),
		channels: ch,
		lpState:  make([]float32, ch),
		frame:    make([]float32, ch),
	}
	r.lowpass = r.step > 1
	for i := range r.win {
		r.win[i] = make([]float32, ch)
	}
	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("audio: close resampler source: %w", err)
	}
	return nil
}

// next reads one source frame into r.frame. It reports false once the
// source has no more whole frames.
func (r *Resampler) next(first bool) (bool, error) {
	if r.srcDone {
		return false, nil
	}
	n, err := r.src.ReadSamples(r.frame)
	if errors.Is(err, io.EOF) {
		r.srcDone = true
	} else if err != nil {
		return false, fmt.Errorf("audio: resampler source: %w", err)
	}
	if n < r.channels {
		r.srcDone = true
		return false, nil
	}

	if r.lowpass {
		if first {
			copy(r.lpState, r.frame)
		}
		for c, v := range r.frame {
			r.lpState[c] = lowpassAlpha*v + (1-lowpassAlpha)*r.lpState[c]
			r.frame[c] = r.lpState[c]
		}
	}
	return true, nil
}

// prime loads the first frame into win[0] and win[1] and looks two frames
// ahead.
func (r *Resampler) prime() error {
	ok, err := r.next(true)
	if err != nil {
		return err
	}
	if !ok {
		return io.EOF
	}
	copy(r.win[0], r.frame)
	copy(r.win[1], r.frame)
	r.real = 1

	for i := 2; i < 4; i++ {
		ok, err := r.next(false)
		if err != nil {
			return err
		}
		if ok {
			copy(r.win[i], r.frame)
			r.real++
		} else {
			copy(r.win[i], r.win[i-1])
		}
	}
	r.primed = true
	return nil
}

// advance moves the window one source frame forward.
func (r *Resampler) advance() error {
	r.win[0], r.win[1], r.win[2], r.win[3] = r.win[1], r.win[2], r.win[3], r.win[0]
	r.real--

	ok, err := r.next(false)
	if err != nil {
		return err
	}
	if ok {
		copy(r.win[3], r.frame)
		r.real++
	} else {
		copy(r.win[3], r.win[2])
	}
	return nil
}

// ReadSamples produces samples at the destination rate. len(dst) must be a
// multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	frames := len(dst) / r.channels
	for i := range frames {
		for r.pos >= 1 {
			r.pos--
			if err := r.advance(); err != nil {
				return i * r.channels, err
			}
		}
		// interpolation needs real frames on both sides unless it sits
		// exactly on the last one
		if r.real < 2 && (r.real < 1 || r.pos != 0) {
			return i * r.channels, io.EOF
		}

		t := float32(r.pos)
		out := dst[i*r.channels : (i+1)*r.channels]
		for c := range out {
			out[c] = utils.CubicInterpolate(r.win[0][c], r.win[1][c], r.win[2][c], r.win[3][c], t)
		}
		r.pos += r.step
	}
	return len(dst), nil
}
