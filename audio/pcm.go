// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/aacpbx/utils"
)

// PCM16Reader reads a Source as interleaved little-endian 16-bit PCM.
type PCM16Reader struct {
	src     Source
	samples []float32
	buf     []byte
	pending []byte
	err     error
}

func NewPCM16Reader(src Source) *PCM16Reader {
	size := src.BufSize()
	if size <= 0 {
		size = 4096
	}
	// whole frames only
	size = max(size/src.Channels(), 1) * src.Channels()
	return &PCM16Reader{src: src, samples: make([]float32, size)}
}

func (r *PCM16Reader) SampleRate() int { return r.src.SampleRate() }
func (r *PCM16Reader) Channels() int   { return r.src.Channels() }

func (r *PCM16Reader) Read(p []byte) (int, error) {
	for len(r.pending) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		r.fill()
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

func (r *PCM16Reader) fill() {
	n, err := r.src.ReadSamples(r.samples)
	r.buf = r.buf[:0]
	for _, s := range r.samples[:n] {
		r.buf = binary.LittleEndian.AppendUint16(r.buf, uint16(utils.Float32ToInt16(s)))
	}
	r.pending = r.buf

	switch {
	case errors.Is(err, io.EOF):
		r.err = io.EOF
	case err != nil:
		r.err = fmt.Errorf("audio: read samples: %w", err)
	}
}

func (r *PCM16Reader) Close() error {
	return r.src.Close()
}
