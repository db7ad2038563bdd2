// SPDX-License-Identifier: EPL-2.0

package device

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ik5/aacpbx/utils"
)

// Stream exposes a Driver as a byte stream. Reads go through a read-ahead
// buffer that is refilled only once it is exhausted. Writes are converted
// to interleaved stereo, and rescaled for a built-in DAC, whenever the
// driver cannot take the PCM as it is.
type Stream struct {
	drv Driver
	log *slog.Logger

	cfgMu sync.Mutex
	cfg   Config
	begun bool

	rmu     sync.Mutex
	readBuf []byte
	readPos int
	readEnd int

	wmu     sync.Mutex
	byteBuf []byte
	carry   []byte
	conv    []byte
}

type StreamOption func(*Stream)

func WithStreamLogger(l *slog.Logger) StreamOption {
	return func(s *Stream) {
		if l != nil {
			s.log = l
		}
	}
}

func NewStream(drv Driver, opts ...StreamOption) *Stream {
	s := &Stream{
		drv: drv,
		log: slog.Default().With("component", "device.stream"),
		cfg: DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Begin installs and starts the driver with cfg.
func (s *Stream) Begin(cfg Config) error {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()

	if s.begun {
		return ErrInstalled
	}
	if cfg.BitsPerSample != 16 {
		return fmt.Errorf("%w: %d", ErrUnsupportedBits, cfg.BitsPerSample)
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultConfig().BufferSize
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = DefaultConfig().PollTimeout
	}

	if err := s.drv.Install(cfg); err != nil {
		return fmt.Errorf("device: install: %w", err)
	}
	if err := s.drv.Start(); err != nil {
		_ = s.drv.Uninstall()
		return fmt.Errorf("device: start: %w", err)
	}

	s.cfg = cfg
	s.begun = true

	s.rmu.Lock()
	s.readBuf = make([]byte, cfg.BufferSize)
	s.readPos, s.readEnd = 0, 0
	s.rmu.Unlock()

	s.logAudioInfo(cfg)
	return nil
}

// SetAudioInfo changes the format assumed for data passed to Write.
func (s *Stream) SetAudioInfo(sampleRate, channels, bitsPerSample int) error {
	if bitsPerSample != 16 {
		return fmt.Errorf("%w: %d", ErrUnsupportedBits, bitsPerSample)
	}

	s.cfgMu.Lock()
	s.cfg.SampleRate = sampleRate
	s.cfg.Channels = channels
	s.cfg.BitsPerSample = bitsPerSample
	cfg := s.cfg
	s.cfgMu.Unlock()

	s.wmu.Lock()
	s.carry = s.carry[:0]
	s.wmu.Unlock()

	s.logAudioInfo(cfg)
	return nil
}

func (s *Stream) Config() Config {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	return s.cfg
}

func (s *Stream) logAudioInfo(cfg Config) {
	s.log.Info("audio info",
		"sample_rate", cfg.SampleRate,
		"channels", cfg.Channels,
		"bits_per_sample", cfg.BitsPerSample,
		"dac", cfg.Mode.Has(BuiltInDAC))
}

func (s *Stream) state() (Config, bool) {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	return s.cfg, s.begun
}

// needsConversion reports whether PCM has to be rewritten before the driver
// can play it.
func needsConversion(cfg Config) bool {
	return cfg.Mode.Has(BuiltInDAC) || cfg.Channels != 2
}

// Write plays interleaved little-endian 16-bit PCM. Bytes of an incomplete
// trailing frame are kept until the next Write.
func (s *Stream) Write(p []byte) (int, error) {
	cfg, ok := s.state()
	if !ok {
		return 0, ErrNotInstalled
	}
	if len(p) == 0 {
		s.log.Error("write without data")
		return 0, nil
	}

	s.wmu.Lock()
	defer s.wmu.Unlock()
	return s.write(cfg, p)
}

func (s *Stream) write(cfg Config, p []byte) (int, error) {
	if !needsConversion(cfg) {
		n, err := s.drv.Write(p)
		if n != len(p) {
			s.log.Warn("short write", "want", len(p), "written", n)
		}
		return n, err
	}

	if cfg.Channels <= 0 || cfg.SampleRate <= 0 || cfg.BitsPerSample == 0 {
		s.logAudioInfo(cfg)
		return 0, ErrMissingAudioInfo
	}

	frameBytes := 2 * cfg.Channels
	in := p
	if len(s.carry) > 0 {
		s.carry = append(s.carry, p...)
		in = s.carry
	}
	frames := len(in) / frameBytes

	s.conv = s.conv[:0]
	for f := range frames {
		frame := in[f*frameBytes:]
		left := int16(binary.LittleEndian.Uint16(frame))
		right := left
		if cfg.Channels > 1 {
			right = int16(binary.LittleEndian.Uint16(frame[2:]))
		}
		s.conv = binary.LittleEndian.AppendUint16(s.conv, scale(cfg, left))
		s.conv = binary.LittleEndian.AppendUint16(s.conv, scale(cfg, right))
	}

	rest := in[frames*frameBytes:]
	s.carry = append(s.carry[:0], rest...)

	if len(s.conv) == 0 {
		return len(p), nil
	}
	n, err := s.drv.Write(s.conv)
	if n != len(s.conv) {
		s.log.Warn("short write", "want", len(s.conv), "written", n)
		// report the input frames that made it out
		done := min(n/4*frameBytes, len(p))
		return done, err
	}
	return len(p), err
}

// scale maps a sample to what the output expects in its 16-bit slot.
func scale(cfg Config, v int16) uint16 {
	if cfg.Mode.Has(BuiltInDAC) {
		return utils.Int16ToDACSlot(v)
	}
	return uint16(v)
}

// WriteByte buffers b and writes the buffer once it is full. Prefer Write.
func (s *Stream) WriteByte(b byte) error {
	cfg, ok := s.state()
	if !ok {
		return ErrNotInstalled
	}

	s.wmu.Lock()
	defer s.wmu.Unlock()

	if s.byteBuf == nil {
		s.byteBuf = make([]byte, 0, cfg.BufferSize)
	}
	if len(s.byteBuf) == cap(s.byteBuf) {
		if err := s.flushBytes(cfg); err != nil {
			return err
		}
	}
	s.byteBuf = append(s.byteBuf, b)
	return nil
}

// Flush writes bytes buffered by WriteByte.
func (s *Stream) Flush() error {
	cfg, ok := s.state()
	if !ok {
		return ErrNotInstalled
	}
	s.wmu.Lock()
	defer s.wmu.Unlock()
	return s.flushBytes(cfg)
}

func (s *Stream) flushBytes(cfg Config) error {
	if len(s.byteBuf) == 0 {
		return nil
	}
	_, err := s.write(cfg, s.byteBuf)
	s.byteBuf = s.byteBuf[:0]
	return err
}

// refill reads from the driver once the read-ahead buffer is used up.
// Callers hold rmu.
func (s *Stream) refill(cfg Config, wait bool) error {
	if s.readPos < s.readEnd {
		return nil
	}
	timeout := cfg.PollTimeout
	if wait {
		timeout = -1
	}
	n, err := s.drv.Read(s.readBuf, timeout)
	s.readPos, s.readEnd = 0, max(n, 0)
	return err
}

// Read returns captured bytes, waiting until at least one is available.
func (s *Stream) Read(p []byte) (int, error) {
	cfg, ok := s.state()
	if !ok {
		return 0, ErrNotInstalled
	}
	if len(p) == 0 {
		return 0, nil
	}

	s.rmu.Lock()
	defer s.rmu.Unlock()

	for s.readPos >= s.readEnd {
		if err := s.refill(cfg, true); err != nil && s.readEnd == 0 {
			return 0, err
		}
	}
	n := copy(p, s.readBuf[s.readPos:s.readEnd])
	s.readPos += n
	return n, nil
}

func (s *Stream) ReadByte() (byte, error) {
	var b [1]byte
	if _, err := s.Read(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// Peek returns the next byte without consuming it. It waits at most the
// configured poll timeout and returns ErrNoData if nothing arrived.
func (s *Stream) Peek() (byte, error) {
	cfg, ok := s.state()
	if !ok {
		return 0, ErrNotInstalled
	}

	s.rmu.Lock()
	defer s.rmu.Unlock()

	if err := s.refill(cfg, false); err != nil && s.readEnd == 0 {
		return 0, err
	}
	if s.readPos >= s.readEnd {
		return 0, ErrNoData
	}
	return s.readBuf[s.readPos], nil
}

// Available is the number of bytes that can be read without waiting. An
// empty read-ahead buffer is refilled first, waiting at most the poll
// timeout.
func (s *Stream) Available() int {
	cfg, ok := s.state()
	if !ok {
		return 0
	}

	s.rmu.Lock()
	defer s.rmu.Unlock()

	if err := s.refill(cfg, false); err != nil {
		s.log.Debug("refill", "error", err)
	}
	return s.readEnd - s.readPos
}

func (s *Stream) Start() error {
	if _, ok := s.state(); !ok {
		return ErrNotInstalled
	}
	return s.drv.Start()
}

func (s *Stream) Stop() error {
	if _, ok := s.state(); !ok {
		return ErrNotInstalled
	}
	return s.drv.Stop()
}

// Close flushes buffered bytes and uninstalls the driver. It is safe to
// call more than once.
func (s *Stream) Close() error {
	cfg, ok := s.state()
	if !ok {
		return nil
	}

	s.wmu.Lock()
	flushErr := s.flushBytes(cfg)
	s.wmu.Unlock()

	s.cfgMu.Lock()
	s.begun = false
	s.cfgMu.Unlock()

	if err := s.drv.Uninstall(); err != nil {
		return fmt.Errorf("device: uninstall: %w", err)
	}
	return flushErr
}
