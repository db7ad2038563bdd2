// SPDX-License-Identifier: EPL-2.0

package device

import (
	"fmt"
	"io"
)

// DefaultCopyBufferSize is the buffer Copier allocates when given none.
const DefaultCopyBufferSize = 1024

// Availabler reports how many bytes can be read without blocking.
type Availabler interface {
	Available() int
}

// Copier moves audio from a source stream to a sink, one buffer per call.
// It is meant to be called from a polling loop.
type Copier struct {
	dst io.Writer
	src io.Reader
	buf []byte
}

func NewCopier(dst io.Writer, src io.Reader, bufSize int) *Copier {
	if bufSize <= 0 {
		bufSize = DefaultCopyBufferSize
	}
	return &Copier{dst: dst, src: src, buf: make([]byte, bufSize)}
}

// Copy moves at most one buffer. When the source implements Availabler
// only the bytes it reports are read, so Copy does not block on an idle
// source.
func (c *Copier) Copy() (int, error) {
	want := len(c.buf)
	if a, ok := c.src.(Availabler); ok {
		want = min(want, a.Available())
		if want <= 0 {
			return 0, nil
		}
	}

	n, err := c.src.Read(c.buf[:want])
	if n > 0 {
		w, werr := c.dst.Write(c.buf[:n])
		if werr != nil {
			return w, fmt.Errorf("device: copy write: %w", werr)
		}
		if w != n {
			return w, io.ErrShortWrite
		}
	}
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("device: copy read: %w", err)
	}
	return n, err
}

// CopyAll moves data until the source returns io.EOF or, for an
// Availabler, until nothing is left to read.
func (c *Copier) CopyAll() (int64, error) {
	var total int64
	for {
		n, err := c.Copy()
		total += int64(n)
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
		if n == 0 {
			if _, ok := c.src.(Availabler); ok {
				return total, nil
			}
		}
	}
}
