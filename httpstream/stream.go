// SPDX-License-Identifier: EPL-2.0

package httpstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
)

const DefaultBufferSize = 512

type Option func(*Stream)

// WithClient sets the HTTP client. The default is http.DefaultClient.
func WithClient(c *http.Client) Option {
	return func(s *Stream) {
		if c != nil {
			s.client = c
		}
	}
}

// WithBufferSize sets the size of the buffer used by ReadByte and Peek.
func WithBufferSize(n int) Option {
	return func(s *Stream) {
		if n > 0 {
			s.bufSize = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Stream) {
		if l != nil {
			s.log = l
		}
	}
}

// Stream is the body of an HTTP GET response read through a small buffer.
type Stream struct {
	client  *http.Client
	bufSize int
	log     *slog.Logger

	mu       sync.Mutex
	body     io.ReadCloser
	status   int
	size     int64
	consumed int64
	buf      []byte
	pos, end int
	err      error
}

func New(opts ...Option) *Stream {
	s := &Stream{
		client:  http.DefaultClient,
		bufSize: DefaultBufferSize,
		log:     slog.Default().With("component", "httpstream"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open requests url and keeps the response body for reading. A stream that
// is already open is closed first.
func (s *Stream) Open(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Info("open", "url", url)
	_ = s.closeBody()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("httpstream: new request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Error("request failed", "url", url, "error", err)
		return fmt.Errorf("httpstream: get %s: %w", url, err)
	}

	s.log.Info("response", "status", resp.StatusCode, "content_length", resp.ContentLength)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}

	s.body = resp.Body
	s.status = resp.StatusCode
	s.size = resp.ContentLength
	s.consumed = 0
	if s.buf == nil {
		s.buf = make([]byte, s.bufSize)
	}
	s.pos, s.end = 0, 0
	s.err = nil
	return nil
}

// fill refills the buffer once it is used up. Callers hold mu.
func (s *Stream) fill() {
	if s.pos < s.end || s.err != nil {
		return
	}
	n, err := s.body.Read(s.buf)
	s.pos, s.end = 0, n
	s.err = err
}

func (s *Stream) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.body == nil {
		return 0, ErrNotOpen
	}
	if len(p) == 0 {
		return 0, nil
	}

	if s.pos >= s.end && len(p) < len(s.buf) {
		s.fill()
	}
	if s.pos < s.end {
		n := copy(p, s.buf[s.pos:s.end])
		s.pos += n
		s.consumed += int64(n)
		return n, nil
	}
	if s.err != nil {
		return 0, s.err
	}

	// reads at least a buffer long go straight to the body
	n, err := s.body.Read(p)
	s.consumed += int64(n)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			s.log.Error("read", "error", err)
		}
		s.err = err
	}
	return n, err
}

func (s *Stream) ReadByte() (byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.peek()
	if err != nil {
		return 0, err
	}
	s.pos++
	s.consumed++
	return b, nil
}

// Peek returns the next byte without consuming it. At the end of the body
// it returns io.EOF.
func (s *Stream) Peek() (byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peek()
}

func (s *Stream) peek() (byte, error) {
	if s.body == nil {
		return 0, ErrNotOpen
	}
	for s.pos >= s.end {
		if s.err != nil {
			return 0, s.err
		}
		s.fill()
	}
	return s.buf[s.pos], nil
}

// Available is the number of bytes left in the body. When the server did
// not send a content length, or the body outgrew it, it is the number of
// buffered bytes.
func (s *Stream) Available() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.body == nil {
		return 0
	}
	if s.size < 0 {
		return s.end - s.pos
	}
	return max(int(s.size-s.consumed), s.end-s.pos)
}

// Status is the HTTP status code of the open response.
func (s *Stream) Status() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// ContentLength is -1 when unknown.
func (s *Stream) ContentLength() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

func (s *Stream) Write([]byte) (int, error) {
	s.log.Error("write not supported")
	return 0, ErrWriteUnsupported
}

func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeBody()
}

func (s *Stream) closeBody() error {
	if s.body == nil {
		return nil
	}
	err := s.body.Close()
	s.body = nil
	s.status = 0
	s.pos, s.end = 0, 0
	if err != nil {
		return fmt.Errorf("httpstream: close: %w", err)
	}
	return nil
}
