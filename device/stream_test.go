// SPDX-License-Identifier: EPL-2.0

package device

import (
	"encoding/binary"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(mode Mode, channels int) Config {
	return Config{
		Mode:          mode,
		SampleRate:    8000,
		Channels:      channels,
		BitsPerSample: 16,
		BufferSize:    64,
		PollTimeout:   5 * time.Millisecond,
	}
}

func newTestStream(t *testing.T, cfg Config) (*Stream, *MemoryDriver) {
	t.Helper()
	drv := NewMemoryDriver()
	s := NewStream(drv, WithStreamLogger(quietLogger()))
	require.NoError(t, s.Begin(cfg))
	t.Cleanup(func() { _ = s.Close() })
	return s, drv
}

func pcm(samples ...int16) []byte {
	b := make([]byte, 0, len(samples)*2)
	for _, v := range samples {
		b = binary.LittleEndian.AppendUint16(b, uint16(v))
	}
	return b
}

func played(t *testing.T, drv *MemoryDriver, n int) []uint16 {
	t.Helper()
	buf := make([]byte, n)
	require.Equal(t, n, drv.Playback(buf))
	out := make([]uint16, n/2)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(buf[2*i:])
	}
	return out
}

func TestStreamBeginValidates(t *testing.T) {
	t.Parallel()

	s := NewStream(NewMemoryDriver(), WithStreamLogger(quietLogger()))
	cfg := testConfig(Transmit, 2)
	cfg.BitsPerSample = 8
	assert.ErrorIs(t, s.Begin(cfg), ErrUnsupportedBits)

	cfg.BitsPerSample = 16
	require.NoError(t, s.Begin(cfg))
	assert.ErrorIs(t, s.Begin(cfg), ErrInstalled)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}

func TestStreamNotInstalled(t *testing.T) {
	t.Parallel()

	s := NewStream(NewMemoryDriver(), WithStreamLogger(quietLogger()))
	_, err := s.Write([]byte{1, 2})
	assert.ErrorIs(t, err, ErrNotInstalled)
	_, err = s.Read(make([]byte, 2))
	assert.ErrorIs(t, err, ErrNotInstalled)
	assert.ErrorIs(t, s.WriteByte(1), ErrNotInstalled)
	assert.Zero(t, s.Available())
}

func TestStreamWriteStereoPassthrough(t *testing.T) {
	t.Parallel()

	s, drv := newTestStream(t, testConfig(Transmit, 2))
	n, err := s.Write(pcm(1, -1, 300, -300))
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	assert.Equal(t, pcm(1, -1, 300, -300), pcmBytes(played(t, drv, 8)))
}

func pcmBytes(v []uint16) []byte {
	b := make([]byte, 0, len(v)*2)
	for _, x := range v {
		b = binary.LittleEndian.AppendUint16(b, x)
	}
	return b
}

func TestStreamWriteEmpty(t *testing.T) {
	t.Parallel()

	s, _ := newTestStream(t, testConfig(Transmit, 2))
	n, err := s.Write(nil)
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestStreamWriteConversion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mode     Mode
		channels int
		in       []int16
		want     []uint16
	}{
		{
			name:     "mono duplicated",
			mode:     Transmit,
			channels: 1,
			in:       []int16{1, -2},
			want:     []uint16{1, 1, 0xfffe, 0xfffe},
		},
		{
			name:     "extra channels dropped",
			mode:     Transmit,
			channels: 3,
			in:       []int16{1, 2, 3, 4, 5, 6},
			want:     []uint16{1, 2, 4, 5},
		},
		{
			name:     "dac stereo",
			mode:     Transmit | BuiltInDAC,
			channels: 2,
			in:       []int16{0, 32767, -32767, 0},
			want:     []uint16{0x7f00, 0xfe00, 0x0000, 0x7f00},
		},
		{
			name:     "dac mono",
			mode:     Transmit | BuiltInDAC,
			channels: 1,
			in:       []int16{32767},
			want:     []uint16{0xfe00, 0xfe00},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, drv := newTestStream(t, testConfig(tt.mode, tt.channels))
			in := pcm(tt.in...)
			n, err := s.Write(in)
			require.NoError(t, err)
			assert.Equal(t, len(in), n)
			assert.Equal(t, tt.want, played(t, drv, len(tt.want)*2))
		})
	}
}

func TestStreamWriteCarriesPartialFrame(t *testing.T) {
	t.Parallel()

	s, drv := newTestStream(t, testConfig(Transmit, 1))
	in := pcm(5, 6)

	n, err := s.Write(in[:3])
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []uint16{5, 5}, played(t, drv, 4))

	n, err = s.Write(in[3:])
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []uint16{6, 6}, played(t, drv, 4))
}

func TestStreamSetAudioInfo(t *testing.T) {
	t.Parallel()

	s, drv := newTestStream(t, testConfig(Transmit, 2))
	assert.ErrorIs(t, s.SetAudioInfo(8000, 2, 24), ErrUnsupportedBits)

	require.NoError(t, s.SetAudioInfo(0, 0, 16))
	_, err := s.Write(pcm(1, 2))
	assert.ErrorIs(t, err, ErrMissingAudioInfo)

	require.NoError(t, s.SetAudioInfo(8000, 1, 16))
	assert.Equal(t, 1, s.Config().Channels)
	_, err = s.Write(pcm(9))
	require.NoError(t, err)
	assert.Equal(t, []uint16{9, 9}, played(t, drv, 4))
}

func TestStreamWriteByteBuffers(t *testing.T) {
	t.Parallel()

	s, drv := newTestStream(t, testConfig(Transmit, 2))
	for i := range 65 {
		require.NoError(t, s.WriteByte(byte(i)))
	}

	// the first 64 bytes went out when the 65th arrived
	buf := make([]byte, 128)
	require.Equal(t, 64, drv.Playback(buf))
	assert.Equal(t, byte(63), buf[63])

	require.NoError(t, s.Flush())
	require.Equal(t, 1, drv.Playback(buf))
	assert.Equal(t, byte(64), buf[0])
}

func TestStreamCloseFlushes(t *testing.T) {
	t.Parallel()

	drv := NewMemoryDriver()
	s := NewStream(drv, WithStreamLogger(quietLogger()))
	require.NoError(t, s.Begin(testConfig(Transmit, 2)))
	for _, b := range []byte{1, 2, 3, 4} {
		require.NoError(t, s.WriteByte(b))
	}
	require.NoError(t, s.Close())

	buf := make([]byte, 8)
	require.Equal(t, 4, drv.Playback(buf))
	assert.Equal(t, []byte{1, 2, 3, 4}, buf[:4])
}

func TestStreamReadAhead(t *testing.T) {
	t.Parallel()

	s, drv := newTestStream(t, testConfig(Receive, 2))
	require.Equal(t, 10, drv.Capture([]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}))

	p := make([]byte, 4)
	n, err := s.Read(p)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 2, 3}, p[:n])

	assert.Equal(t, 6, s.Available())

	b, err := s.Peek()
	require.NoError(t, err)
	assert.Equal(t, byte(4), b)

	b, err = s.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(4), b)
	assert.Equal(t, 5, s.Available())
}

func TestStreamPeekWithoutData(t *testing.T) {
	t.Parallel()

	s, _ := newTestStream(t, testConfig(Receive, 2))
	_, err := s.Peek()
	assert.ErrorIs(t, err, ErrNoData)
	assert.Zero(t, s.Available())
}

func TestStreamReadAfterStop(t *testing.T) {
	t.Parallel()

	s, _ := newTestStream(t, testConfig(Receive, 2))
	require.NoError(t, s.Stop())

	_, err := s.Read(make([]byte, 4))
	assert.ErrorIs(t, err, ErrStopped)

	require.NoError(t, s.Start())
	assert.Zero(t, s.Available())
}

func TestStreamReadWaitsForCapture(t *testing.T) {
	t.Parallel()

	s, drv := newTestStream(t, testConfig(Receive, 2))
	go func() {
		time.Sleep(10 * time.Millisecond)
		drv.Capture([]byte{42})
	}()

	b, err := s.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(42), b)
}
