// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/aacpbx/audio"
	"github.com/ik5/aacpbx/utils"
)

// pcmReader is the part of gomp3.Decoder the source uses.
type pcmReader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

// go-mp3 always produces interleaved stereo.
const channels = 2

type source struct {
	dec  pcmReader
	rate int
	buf  []byte
	// partial frame left over from the previous read
	carry []byte
}

func (s *source) SampleRate() int { return s.rate }
func (s *source) Channels() int   { return channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.buf) / 2 }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst)%channels != 0 {
		return 0, audio.ErrInvalidDstSize
	}
	need := len(dst) * 2
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	s.buf = s.buf[:need]

	k := copy(s.buf, s.carry)
	s.carry = s.carry[:0]
	n, err := s.dec.Read(s.buf[k:])
	n += k

	samples := n / (2 * channels) * channels
	for i := range samples {
		dst[i] = utils.Int16ToFloat32(int16(binary.LittleEndian.Uint16(s.buf[2*i:])))
	}
	s.carry = append(s.carry, s.buf[samples*2:n]...)

	if err != nil && !errors.Is(err, io.EOF) {
		return samples, fmt.Errorf("mp3: decode: %w", err)
	}
	return samples, err
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}
	return newSource(dec), nil
}

func newSource(dec pcmReader) *source {
	return &source{dec: dec, rate: dec.SampleRate(), buf: make([]byte, 8192)}
}
