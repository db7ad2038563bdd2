// SPDX-License-Identifier: EPL-2.0

package aac

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/aacpbx/codec"
	"github.com/ik5/aacpbx/internal/codectest"
)

func newTestEncoder(t *testing.T, f *codectest.EncoderFactory, opts ...EncoderOption) *Encoder {
	t.Helper()
	opts = append([]EncoderOption{WithEncoderLogger(quietLogger())}, opts...)
	e := NewEncoder(f.Open, opts...)
	t.Cleanup(func() { _ = e.End() })
	return e
}

func TestEncoderDefaults(t *testing.T) {
	t.Parallel()

	f := &codectest.EncoderFactory{}
	e := newTestEncoder(t, f)
	require.NoError(t, e.Begin())

	enc := f.Last()
	assert.Equal(t, codec.ModuleAAC, enc.Modules)
	assert.Equal(t, 1, enc.MaxChannels)
	assert.Equal(t, uint32(codec.AOTAACLC), enc.Param(codec.EncAOT))
	assert.Equal(t, uint32(44100), enc.Param(codec.EncSampleRate))
	assert.Equal(t, uint32(codec.Mode1), enc.Param(codec.EncChannelMode))
	assert.Equal(t, uint32(1), enc.Param(codec.EncChannelOrder))
	assert.Equal(t, uint32(1), enc.Param(codec.EncBitrateMode))
	assert.Equal(t, uint32(codec.TransportADTS), enc.Param(codec.EncTransmux))
	assert.Equal(t, uint32(0), enc.Param(codec.EncAfterburner))
	assert.False(t, enc.Has(codec.EncBitrate))
	assert.False(t, enc.Has(codec.EncSBRMode))
	assert.Equal(t, 1, enc.Inits())
}

func TestEncoderParamOrder(t *testing.T) {
	t.Parallel()

	f := &codectest.EncoderFactory{}
	e := newTestEncoder(t, f)
	e.SetAudioObjectType(codec.AOTERAACELD)
	e.SetSpectralBandReplication(true)
	e.SetVariableBitrateMode(0)
	e.SetBitrate(64000)
	require.NoError(t, e.BeginWith(AudioInfo{SampleRate: 48000, Channels: 2, BitsPerSample: 16}))

	assert.Equal(t, []codec.EncoderParam{
		codec.EncAOT,
		codec.EncSBRMode,
		codec.EncSampleRate,
		codec.EncChannelMode,
		codec.EncChannelOrder,
		codec.EncBitrate,
		codec.EncTransmux,
		codec.EncAfterburner,
	}, f.Last().Order())
	assert.Equal(t, uint32(64000), f.Last().Param(codec.EncBitrate))
}

func TestEncoderChannelModes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		channels int
		mode     codec.ChannelMode
	}{
		{1, codec.Mode1},
		{2, codec.Mode2},
		{3, codec.Mode1_2},
		{4, codec.Mode1_2_1},
		{5, codec.Mode1_2_2},
		{6, codec.Mode1_2_2_1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d channels", tt.channels), func(t *testing.T) {
			t.Parallel()

			f := &codectest.EncoderFactory{}
			e := newTestEncoder(t, f)
			require.NoError(t, e.BeginWith(AudioInfo{SampleRate: 44100, Channels: tt.channels, BitsPerSample: 16}))
			assert.Equal(t, uint32(tt.mode), f.Last().Param(codec.EncChannelMode))
			assert.Equal(t, tt.channels, f.Last().MaxChannels)
		})
	}
}

func TestEncoderUnsupportedChannels(t *testing.T) {
	t.Parallel()

	for _, channels := range []int{0, 7, 8} {
		f := &codectest.EncoderFactory{}
		e := newTestEncoder(t, f)
		err := e.BeginWith(AudioInfo{SampleRate: 44100, Channels: channels, BitsPerSample: 16})
		require.ErrorIs(t, err, ErrUnsupportedChannels)
		assert.Zero(t, f.Opened())
		assert.False(t, e.IsActive())
	}
}

func TestEncoderRejectsInvalidFormat(t *testing.T) {
	t.Parallel()

	f := &codectest.EncoderFactory{}
	e := newTestEncoder(t, f)

	err := e.BeginWith(AudioInfo{SampleRate: 44100, Channels: 2, BitsPerSample: 24})
	assert.ErrorIs(t, err, ErrUnsupportedBitsPerSample)
	err = e.BeginWith(AudioInfo{SampleRate: 0, Channels: 2, BitsPerSample: 16})
	assert.ErrorIs(t, err, ErrInvalidSampleRate)
	assert.Zero(t, f.Opened())
}

func TestEncoderReopensWhenChannelsGrow(t *testing.T) {
	t.Parallel()

	f := &codectest.EncoderFactory{}
	e := newTestEncoder(t, f)

	require.NoError(t, e.BeginWith(AudioInfo{SampleRate: 44100, Channels: 1, BitsPerSample: 16}))
	require.NoError(t, e.BeginWith(AudioInfo{SampleRate: 44100, Channels: 2, BitsPerSample: 16}))

	all := f.All()
	require.Len(t, all, 2)
	assert.Equal(t, 1, all[0].Closed())
	assert.Zero(t, all[1].Closed())
	assert.Equal(t, 2, all[1].MaxChannels)
	assert.Equal(t, uint32(codec.Mode2), all[1].Param(codec.EncChannelMode))
}

func TestEncoderKeepsHandleWhenChannelsShrink(t *testing.T) {
	t.Parallel()

	f := &codectest.EncoderFactory{}
	e := newTestEncoder(t, f)

	require.NoError(t, e.BeginWith(AudioInfo{SampleRate: 44100, Channels: 2, BitsPerSample: 16}))
	require.NoError(t, e.BeginWith(AudioInfo{SampleRate: 22050, Channels: 1, BitsPerSample: 16}))

	assert.Equal(t, 1, f.Opened())
	enc := f.Last()
	assert.Zero(t, enc.Closed())
	assert.Equal(t, uint32(22050), enc.Param(codec.EncSampleRate))
	assert.Equal(t, uint32(codec.Mode1), enc.Param(codec.EncChannelMode))
	assert.Equal(t, 1, enc.Inits())
}

func TestEncoderReopensWhenModulesChange(t *testing.T) {
	t.Parallel()

	f := &codectest.EncoderFactory{}
	e := newTestEncoder(t, f)
	require.NoError(t, e.Begin())

	e.SetEncoderModules(codec.ModuleAAC | codec.ModuleSBR)
	require.NoError(t, e.Begin())

	require.Equal(t, 2, f.Opened())
	assert.Equal(t, 1, f.All()[0].Closed())
	assert.Equal(t, codec.ModuleAAC|codec.ModuleSBR, f.Last().Modules)
}

func TestEncoderClosesHandleOnInitFailure(t *testing.T) {
	t.Parallel()

	f := &codectest.EncoderFactory{New: func() *codectest.Encoder {
		enc := codectest.NewEncoder()
		enc.InitErr = codec.ErrEncInitAAC
		return enc
	}}
	e := newTestEncoder(t, f)

	err := e.Begin()
	require.ErrorIs(t, err, codec.ErrEncInitAAC)
	assert.False(t, e.IsActive())
	assert.Equal(t, 1, f.Last().Closed())
}

func TestAutoBitrate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		aot    codec.AudioObjectType
		sce    int
		cpe    int
		rate   int
		eldSBR bool
		want   int
	}{
		{"mono lc", codec.AOTAACLC, 1, 0, 44100, false, 96 * 44100 / 44},
		{"stereo lc", codec.AOTAACLC, 0, 1, 44100, false, 128 * 44100 / 44},
		{"5.1 lc", codec.AOTAACLC, 2, 2, 48000, false, 448 * 48000 / 44},
		{"stereo he", codec.AOTSBR, 0, 1, 44100, false, 128 * 44100 / 44 / 2},
		{"stereo he v2", codec.AOTPS, 0, 1, 44100, false, 96 * 44100 / 44 / 2},
		{"mpeg-2 he", codec.AOTMP2SBR, 1, 0, 32000, false, 96 * 32000 / 44 / 2},
		{"eld sbr", codec.AOTERAACELD, 1, 0, 48000, true, 96 * 48000 / 44 / 2},
		{"eld", codec.AOTERAACELD, 1, 0, 48000, false, 96 * 48000 / 44},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, AutoBitrate(tt.aot, tt.sce, tt.cpe, tt.rate, tt.eldSBR))
		})
	}
}

func TestEncoderDerivesBitrateForCBR(t *testing.T) {
	t.Parallel()

	f := &codectest.EncoderFactory{}
	e := newTestEncoder(t, f)
	e.SetVariableBitrateMode(0)
	require.NoError(t, e.BeginWith(AudioInfo{SampleRate: 44100, Channels: 2, BitsPerSample: 16}))

	assert.Equal(t, uint32(128*44100/44), f.Last().Param(codec.EncBitrate))
	assert.False(t, f.Last().Has(codec.EncBitrateMode))

	// not persisted, so a new rate derives a new bitrate
	require.NoError(t, e.BeginWith(AudioInfo{SampleRate: 22050, Channels: 2, BitsPerSample: 16}))
	assert.Equal(t, uint32(128*22050/44), f.Last().Param(codec.EncBitrate))
}

func TestEncoderWriteForwardsPackets(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	var packets [][]byte
	f := &codectest.EncoderFactory{}
	e := newTestEncoder(t, f,
		WithEncoderOutput(&out),
		WithPacketHandler(PacketHandlerFunc(func(p []byte) {
			packets = append(packets, append([]byte(nil), p...))
		})),
	)
	require.NoError(t, e.Begin())

	pcm := make([]byte, 2048)
	for range 3 {
		n, err := e.Write(pcm)
		require.NoError(t, err)
		assert.Equal(t, len(pcm), n)
	}

	require.Len(t, packets, 3)
	assert.Equal(t, 3*64, out.Len())
	assert.Equal(t, byte(2), packets[2][0])
	assert.Equal(t, 3*2048, f.Last().Consumed())
}

func TestEncoderWriteBeforeBegin(t *testing.T) {
	t.Parallel()

	e := newTestEncoder(t, &codectest.EncoderFactory{})
	n, err := e.Write([]byte{0, 0})
	assert.Zero(t, n)
	assert.ErrorIs(t, err, ErrNotActive)
	assert.ErrorIs(t, e.Flush(), ErrNotActive)
	assert.ErrorIs(t, e.SetParam(codec.EncBandwidth, 8000), ErrNotActive)
	assert.Zero(t, e.Param(codec.EncAOT))
}

func TestEncoderWriteError(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	f := &codectest.EncoderFactory{New: func() *codectest.Encoder {
		enc := codectest.NewEncoder()
		enc.EncodeErr = codec.ErrEncEncode
		return enc
	}}
	e := newTestEncoder(t, f, WithEncoderOutput(&out))
	require.NoError(t, e.Begin())

	n, err := e.Write(make([]byte, 2048))
	assert.Zero(t, n)
	assert.ErrorIs(t, err, codec.ErrEncEncode)
	assert.Zero(t, out.Len())
}

func TestEncoderEOFIsNotAnError(t *testing.T) {
	t.Parallel()

	f := &codectest.EncoderFactory{New: func() *codectest.Encoder {
		enc := codectest.NewEncoder()
		enc.EncodeErr = codec.ErrEncEOF
		return enc
	}}
	e := newTestEncoder(t, f)
	require.NoError(t, e.Begin())

	n, err := e.Write(make([]byte, 100))
	assert.NoError(t, err)
	assert.Equal(t, 100, n)
	assert.NoError(t, e.Flush())
}

func TestEncoderFlushDrainsTail(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	f := &codectest.EncoderFactory{New: func() *codectest.Encoder {
		enc := codectest.NewEncoder()
		enc.TailPackets = 3
		return enc
	}}
	e := newTestEncoder(t, f, WithEncoderOutput(&out))
	require.NoError(t, e.Begin())

	_, err := e.Write(make([]byte, 2048))
	require.NoError(t, err)
	require.NoError(t, e.Flush())

	assert.Equal(t, 4*64, out.Len())
	assert.True(t, e.IsActive())
}

func TestEncoderOutputBufferSize(t *testing.T) {
	t.Parallel()

	f := &codectest.EncoderFactory{New: func() *codectest.Encoder {
		enc := codectest.NewEncoder()
		enc.PacketSize = 5000
		return enc
	}}
	var out bytes.Buffer
	e := newTestEncoder(t, f, WithEncoderOutput(&out), WithEncoderOutputBufferSize(4096))
	require.NoError(t, e.BeginWith(AudioInfo{SampleRate: 44100, Channels: 6, BitsPerSample: 16}))

	assert.Equal(t, 768*6, e.Info().MaxOutBufBytes)
	_, err := e.Write(make([]byte, 12))
	require.NoError(t, err)
	// capped by max(4096, 4608)
	assert.Equal(t, 4608, out.Len())
}

func TestEncoderEndTwice(t *testing.T) {
	t.Parallel()

	f := &codectest.EncoderFactory{}
	e := newTestEncoder(t, f)
	require.NoError(t, e.Begin())

	require.NoError(t, e.End())
	require.NoError(t, e.End())
	require.NoError(t, e.Close())

	assert.Equal(t, 1, f.Last().Closed())
	assert.False(t, e.IsActive())
	assert.Zero(t, e.Info().FrameLength)
}

func TestEncoderDirectParams(t *testing.T) {
	t.Parallel()

	f := &codectest.EncoderFactory{}
	e := newTestEncoder(t, f)
	require.NoError(t, e.Begin())

	require.NoError(t, e.SetParam(codec.EncBandwidth, 16000))
	assert.Equal(t, uint32(16000), e.Param(codec.EncBandwidth))
	assert.Equal(t, 1024, e.Info().FrameLength)
}

func TestEncoderPacketHandlerCanQueryEncoder(t *testing.T) {
	t.Parallel()

	var (
		e      *Encoder
		frames []int
		aots   []uint32
	)
	f := &codectest.EncoderFactory{}
	e = newTestEncoder(t, f, WithPacketHandler(PacketHandlerFunc(func([]byte) {
		frames = append(frames, e.Info().FrameLength)
		aots = append(aots, e.Param(codec.EncAOT))
		assert.True(t, e.IsActive())
	})))
	require.NoError(t, e.Begin())

	_, err := writeWithin(t, e, make([]byte, 2048))
	require.NoError(t, err)
	require.NoError(t, e.Flush())

	assert.Equal(t, []int{1024, 1024, 1024}, frames)
	assert.Equal(t, []uint32{2, 2, 2}, aots)
}

func TestEncoderEndFromPacketHandler(t *testing.T) {
	t.Parallel()

	var e *Encoder
	var out bytes.Buffer
	e = newTestEncoder(t, &codectest.EncoderFactory{},
		WithEncoderOutput(&out),
		WithPacketHandler(PacketHandlerFunc(func([]byte) { assert.NoError(t, e.End()) })),
	)
	require.NoError(t, e.Begin())

	_, err := writeWithin(t, e, make([]byte, 2048))
	require.NoError(t, err)
	assert.Equal(t, 64, out.Len())
	assert.False(t, e.IsActive())
	assert.ErrorIs(t, e.Flush(), ErrNotActive)
}
