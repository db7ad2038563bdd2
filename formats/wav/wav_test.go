// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/aacpbx/audio"
	"github.com/ik5/aacpbx/internal/audiotest"
)

func tempFile(t *testing.T) *os.File {
	t.Helper()
	f, err := os.Create(filepath.Join(t.TempDir(), "test.wav"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func readAll(t *testing.T, src audio.Source) []float32 {
	t.Helper()
	buf := make([]float32, 256)
	var out []float32
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
	}
}

func TestWriteInt16Decode(t *testing.T) {
	t.Parallel()

	f := tempFile(t)
	samples := []int16{0, 16384, -16384, 32767, -32768, 8192}
	require.NoError(t, WriteInt16(f, 11025, 2, samples))

	_, err := f.Seek(0, io.SeekStart)
	require.NoError(t, err)
	src, err := Decoder{}.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 11025, src.SampleRate())
	assert.Equal(t, 2, src.Channels())

	got := readAll(t, src)
	require.Len(t, got, len(samples))
	for i, s := range samples {
		assert.InDelta(t, float32(s)/32768, got[i], 1e-6)
	}
}

func TestDecodeNonSeekable(t *testing.T) {
	t.Parallel()

	f := tempFile(t)
	require.NoError(t, WriteInt16(f, 8000, 1, []int16{100, 200, 300}))
	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)

	// io.MultiReader hides the Seek method
	src, err := Decoder{}.Decode(io.MultiReader(bytes.NewReader(data)))
	require.NoError(t, err)
	assert.Len(t, readAll(t, src), 3)
}

func TestDecodeRejects(t *testing.T) {
	t.Parallel()

	_, err := Decoder{}.Decode(bytes.NewReader([]byte("RIFX not really a wave file at all....")))
	assert.ErrorIs(t, err, ErrNotWavFile)

	f := tempFile(t)
	enc := wav.NewEncoder(f, 8000, 8, 1, formatPCM)
	require.NoError(t, enc.Write(&goaudio.IntBuffer{
		Format: &goaudio.Format{NumChannels: 1, SampleRate: 8000},
		Data:   []int{1, 2, 3, 4},
	}))
	require.NoError(t, enc.Close())
	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err)

	_, err = Decoder{}.Decode(f)
	assert.ErrorIs(t, err, ErrOnlyPCM16bitSupported)
}

func TestWriteSource(t *testing.T) {
	t.Parallel()

	f := tempFile(t)
	src := audiotest.PerChannel(16000, 5000, 0.5, -0.25)
	frames, err := WriteSource(f, src)
	require.NoError(t, err)
	assert.Equal(t, 5000, frames)

	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err)
	dec, err := Decoder{}.Decode(f)
	require.NoError(t, err)

	got := readAll(t, dec)
	require.Len(t, got, 10000)
	assert.InDelta(t, 0.5, got[0], 1e-4)
	assert.InDelta(t, -0.25, got[9999], 1e-4)

	_, err = WriteSource(tempFile(t), audiotest.PerChannel(8000, 1))
	assert.ErrorIs(t, err, ErrNoChannels)
}
