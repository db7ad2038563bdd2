// SPDX-License-Identifier: EPL-2.0

package aac

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/aacpbx/audio"
	"github.com/ik5/aacpbx/codec"
	"github.com/ik5/aacpbx/internal/codectest"
)

func newDecoder(f *codectest.DecoderFactory) Decoder {
	return Decoder{Open: f.Open, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestDecodeFrames(t *testing.T) {
	t.Parallel()

	f := &codectest.DecoderFactory{}
	src, err := newDecoder(f).Decode(bytes.NewReader(make([]byte, 350)))
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, 44100, src.SampleRate())
	assert.Equal(t, 2, src.Channels())
	assert.Equal(t, codec.TransportADTS, f.Last().Transport)

	var got []float32
	buf := make([]float32, 1000)
	for {
		n, err := src.ReadSamples(buf)
		got = append(got, buf[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
	}

	require.Len(t, got, 3*2048)
	assert.Zero(t, got[0])
	assert.InDelta(t, 1.0/32768, got[2048], 1e-9)
	assert.InDelta(t, 2.0/32768, got[len(got)-1], 1e-9)

	_, err = src.ReadSamples(make([]float32, 3))
	assert.ErrorIs(t, err, audio.ErrInvalidDstSize)
}

func TestDecodeNoFrames(t *testing.T) {
	t.Parallel()

	f := &codectest.DecoderFactory{}
	_, err := newDecoder(f).Decode(bytes.NewReader(make([]byte, 99)))
	require.ErrorIs(t, err, ErrNoFrames)
	assert.Equal(t, 1, f.Last().Closed())
}

func TestDecodeOpenFailure(t *testing.T) {
	t.Parallel()

	f := &codectest.DecoderFactory{Err: codec.ErrBackendUnavailable}
	_, err := newDecoder(f).Decode(bytes.NewReader(make([]byte, 100)))
	assert.ErrorIs(t, err, codec.ErrBackendUnavailable)
}

func TestDecodeThroughRegistry(t *testing.T) {
	t.Parallel()

	reg := audio.NewRegistry()
	reg.Register("aac", newDecoder(&codectest.DecoderFactory{}))

	dec, err := reg.ForFile("radio.AAC")
	require.NoError(t, err)
	src, err := dec.Decode(bytes.NewReader(make([]byte, 100)))
	require.NoError(t, err)
	assert.NoError(t, src.Close())
}
