// SPDX-License-Identifier: EPL-2.0

package aac

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ik5/aacpbx/aac"
	"github.com/ik5/aacpbx/audio"
	"github.com/ik5/aacpbx/codec"
	"github.com/ik5/aacpbx/utils"
)

const readSize = 4096

var ErrNoFrames = errors.New("aac: no decodable frame in input")

// Decoder decodes ADTS streams through a native decoder opened with Open.
type Decoder struct {
	Open codec.DecoderOpener
	// Transport defaults to ADTS when zero; raw streams cannot be
	// configured through this path.
	Transport codec.TransportType
	Logger    *slog.Logger
}

// Decode reads r until the first frame is decoded so the returned source
// knows its format.
func (d Decoder) Decode(r io.Reader) (audio.Source, error) {
	transport := d.Transport
	if transport == 0 {
		transport = codec.TransportADTS
	}

	s := &source{r: r, in: make([]byte, readSize)}
	opts := []aac.DecoderOption{aac.WithFrameHandler(aac.FrameHandlerFunc(s.handleFrame))}
	if d.Logger != nil {
		opts = append(opts, aac.WithDecoderLogger(d.Logger))
	}
	s.dec = aac.NewDecoder(d.Open, opts...)
	if err := s.dec.Begin(transport, 1); err != nil {
		return nil, err
	}

	for len(s.pending) == 0 {
		if err := s.feed(); err != nil {
			_ = s.dec.End()
			if errors.Is(err, io.EOF) {
				return nil, ErrNoFrames
			}
			return nil, err
		}
	}
	return s, nil
}

type source struct {
	r        io.Reader
	dec      *aac.Decoder
	in       []byte
	info     codec.StreamInfo
	pending  []float32
	consumed int
	eof      bool
}

func (s *source) handleFrame(info codec.StreamInfo, pcm []int16) {
	if s.info.Channels == 0 {
		s.info = info
	}
	for _, v := range pcm {
		s.pending = append(s.pending, utils.Int16ToFloat32(v))
	}
}

// feed reads one block of compressed input and decodes it.
func (s *source) feed() error {
	if s.eof {
		return io.EOF
	}
	n, err := s.r.Read(s.in)
	if n > 0 {
		if _, werr := s.dec.Write(s.in[:n]); werr != nil {
			return werr
		}
	}
	if errors.Is(err, io.EOF) {
		s.eof = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("aac: read input: %w", err)
	}
	return nil
}

func (s *source) SampleRate() int { return s.info.SampleRate }
func (s *source) Channels() int   { return s.info.Channels }
func (s *source) BufSize() int    { return readSize }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst)%s.info.Channels != 0 {
		return 0, audio.ErrInvalidDstSize
	}
	for s.consumed == len(s.pending) {
		s.pending = s.pending[:0]
		s.consumed = 0
		if err := s.feed(); err != nil {
			return 0, err
		}
	}

	n := copy(dst, s.pending[s.consumed:])
	s.consumed += n
	return n, nil
}

func (s *source) Close() error {
	return s.dec.End()
}
