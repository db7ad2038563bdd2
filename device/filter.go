// SPDX-License-Identifier: EPL-2.0

package device

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ik5/aacpbx/utils"
)

// FilterWriter applies a Filter to little-endian int16 PCM before writing
// it to the wrapped writer. A trailing odd byte is held until the next
// Write.
type FilterWriter struct {
	dst    io.Writer
	filter utils.Filter
	carry  []byte
	buf    []byte
}

func NewFilterWriter(dst io.Writer, f utils.Filter) *FilterWriter {
	return &FilterWriter{dst: dst, filter: f, carry: make([]byte, 0, 1)}
}

func (w *FilterWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	in := p
	if len(w.carry) > 0 {
		w.buf = append(w.buf[:0], w.carry[0], p[0])
		in = p[1:]
	} else {
		w.buf = w.buf[:0]
	}
	even := len(in) &^ 1
	w.buf = append(w.buf, in[:even]...)

	for i := 0; i+1 < len(w.buf); i += 2 {
		s := w.filter.Apply(int16(binary.LittleEndian.Uint16(w.buf[i:])))
		binary.LittleEndian.PutUint16(w.buf[i:], uint16(s))
	}
	if len(w.buf) > 0 {
		if _, err := w.dst.Write(w.buf); err != nil {
			return 0, fmt.Errorf("filter: write: %w", err)
		}
	}

	w.carry = append(w.carry[:0], in[even:]...)
	return len(p), nil
}
