// SPDX-License-Identifier: EPL-2.0

package aac

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/ik5/aacpbx/codec"
)

const DefaultEncoderOutputSize = 2048 // bytes

// AudioInfo describes the PCM handed to an Encoder.
type AudioInfo struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// DefaultAudioInfo is 44.1 kHz mono 16-bit.
var DefaultAudioInfo = AudioInfo{SampleRate: 44100, Channels: 1, BitsPerSample: 16}

// layout is the channel mode and element counts for a channel count.
type layout struct {
	mode     codec.ChannelMode
	sce, cpe int
}

var layouts = map[int]layout{
	1: {codec.Mode1, 1, 0},
	2: {codec.Mode2, 0, 1},
	3: {codec.Mode1_2, 1, 1},
	4: {codec.Mode1_2_1, 2, 1},
	5: {codec.Mode1_2_2, 1, 2},
	6: {codec.Mode1_2_2_1, 2, 2},
}

type EncoderOption func(*Encoder)

// WithEncoderOutput writes every encoded packet to w.
func WithEncoderOutput(w io.Writer) EncoderOption {
	return func(e *Encoder) { e.out = w }
}

// WithPacketHandler hands every encoded packet to h, before it is written to
// the output.
func WithPacketHandler(h PacketHandler) EncoderOption {
	return func(e *Encoder) { e.packets = h }
}

// WithEncoderOutputBufferSize sets the minimum packet buffer size in bytes.
// The buffer grows to what the native encoder reports as its worst case.
func WithEncoderOutputBufferSize(n int) EncoderOption {
	return func(e *Encoder) {
		if n > 0 {
			e.outSize = n
		}
	}
}

func WithEncoderLogger(l *slog.Logger) EncoderOption {
	return func(e *Encoder) {
		if l != nil {
			e.log = l
		}
	}
}

// Encoder feeds PCM to a native AAC encoder and forwards the produced
// packets. Settings changed with the Set methods take effect on the next
// Begin.
type Encoder struct {
	open    codec.EncoderOpener
	log     *slog.Logger
	out     io.Writer
	packets PacketHandler
	outSize int

	// writeMu serializes Write and Flush; mu guards the rest.
	writeMu sync.Mutex

	mu          sync.Mutex
	audio       AudioInfo
	bitrate     int
	vbr         int
	aot         codec.AudioObjectType
	afterburner bool
	eldSBR      bool
	transport   codec.TransportType
	modules     codec.EncoderModule

	handle       codec.NativeEncoder
	openChannels int
	openModules  codec.EncoderModule
	info         codec.EncoderInfo
	buf          []byte
}

// NewEncoder returns an inactive Encoder with the defaults: AAC-LC, VBR mode
// 1, ADTS, afterburner off and the AAC module only.
func NewEncoder(open codec.EncoderOpener, opts ...EncoderOption) *Encoder {
	e := &Encoder{
		open:      open,
		log:       slog.Default().With("component", "aac.encoder"),
		outSize:   DefaultEncoderOutputSize,
		audio:     DefaultAudioInfo,
		vbr:       1,
		aot:       codec.AOTAACLC,
		transport: codec.TransportADTS,
		modules:   codec.ModuleAAC,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Encoder) SetAudioInfo(info AudioInfo) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.audio = info
}

func (e *Encoder) AudioInfo() AudioInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.audio
}

// SetBitrate sets the constant bitrate in bits/s. It is only used when the
// variable bitrate mode is 0; 0 derives a bitrate from the audio format.
func (e *Encoder) SetBitrate(bitrate int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bitrate = bitrate
}

func (e *Encoder) SetAudioObjectType(aot codec.AudioObjectType) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.aot = aot
}

// SetVariableBitrateMode selects VBR quality 1 (low) to 5 (high), or 0 for
// constant bitrate.
func (e *Encoder) SetVariableBitrateMode(mode int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vbr = mode
}

func (e *Encoder) SetAfterburner(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.afterburner = on
}

// SetSpectralBandReplication enables SBR for the ELD object type.
func (e *Encoder) SetSpectralBandReplication(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.eldSBR = on
}

func (e *Encoder) SetTransport(t codec.TransportType) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.transport = t
}

// SetEncoderModules selects the native sub-libraries. Changing it on an
// active Encoder reopens the native handle on the next Begin.
func (e *Encoder) SetEncoderModules(m codec.EncoderModule) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.modules = m
}

// BeginWith sets info and calls Begin.
func (e *Encoder) BeginWith(info AudioInfo) error {
	e.SetAudioInfo(info)
	return e.Begin()
}

// Begin opens and configures the native encoder. On an active Encoder the
// parameters are applied again; the handle is only reopened when the
// channel count grew or the encoder modules changed.
func (e *Encoder) Begin() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	lay, ok := layouts[e.audio.Channels]
	if !ok {
		e.log.Error("unsupported channel count", "channels", e.audio.Channels)
		return fmt.Errorf("%w: %d", ErrUnsupportedChannels, e.audio.Channels)
	}
	if e.audio.BitsPerSample != 16 {
		return fmt.Errorf("%w: %d", ErrUnsupportedBitsPerSample, e.audio.BitsPerSample)
	}
	if e.audio.SampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, e.audio.SampleRate)
	}
	if e.open == nil {
		return ErrNilOpener
	}

	if e.handle != nil && (e.audio.Channels > e.openChannels || e.modules != e.openModules) {
		e.log.Warn("audio format changed, reopening encoder",
			"channels", e.audio.Channels,
			"open_channels", e.openChannels,
			"modules", e.modules)
		e.closeHandle()
	}

	if e.handle != nil {
		if err := e.applyParams(lay); err != nil {
			return err
		}
		return nil
	}

	h, err := e.open(e.modules, e.audio.Channels)
	if err != nil {
		e.log.Error("open encoder", "error", err)
		return fmt.Errorf("aac: open encoder: %w", err)
	}
	e.handle = h
	e.openChannels = e.audio.Channels
	e.openModules = e.modules

	if err := e.setup(lay); err != nil {
		e.closeHandle()
		return err
	}
	e.log.Debug("encoder opened",
		"sample_rate", e.audio.SampleRate,
		"channels", e.audio.Channels,
		"aot", e.aot,
		"frame_length", e.info.FrameLength,
		"out_buffer", len(e.buf))
	return nil
}

func (e *Encoder) setup(lay layout) error {
	if err := e.applyParams(lay); err != nil {
		return err
	}
	if err := e.handle.Init(); err != nil {
		e.log.Error("initialise encoder", "error", err)
		return fmt.Errorf("aac: initialise encoder: %w", err)
	}
	info, err := e.handle.Info()
	if err != nil {
		e.log.Error("encoder info", "error", err)
		return fmt.Errorf("aac: encoder info: %w", err)
	}
	e.info = info

	size := max(e.outSize, info.MaxOutBufBytes)
	if len(e.buf) < size {
		e.buf = make([]byte, size)
	}
	return nil
}

// applyParams pushes the pending settings to the native handle in the
// order the native encoder expects them.
func (e *Encoder) applyParams(lay layout) error {
	set := func(p codec.EncoderParam, v uint32) error {
		if err := e.handle.SetParam(p, v); err != nil {
			e.log.Error("set encoder parameter", "param", p, "value", v, "error", err)
			return fmt.Errorf("aac: set %s=%d: %w", p, v, err)
		}
		return nil
	}

	if err := set(codec.EncAOT, uint32(e.aot)); err != nil {
		return err
	}
	if e.aot == codec.AOTERAACELD && e.eldSBR {
		if err := set(codec.EncSBRMode, 1); err != nil {
			return err
		}
	}
	if err := set(codec.EncSampleRate, uint32(e.audio.SampleRate)); err != nil {
		return err
	}
	if err := set(codec.EncChannelMode, uint32(lay.mode)); err != nil {
		return err
	}
	if err := set(codec.EncChannelOrder, 1); err != nil {
		return err
	}

	if e.vbr != 0 {
		if err := set(codec.EncBitrateMode, uint32(e.vbr)); err != nil {
			return err
		}
	} else {
		bitrate := e.bitrate
		if bitrate <= 0 {
			bitrate = AutoBitrate(e.aot, lay.sce, lay.cpe, e.audio.SampleRate, e.eldSBR)
			e.log.Warn("derived bitrate", "bitrate", bitrate, "sample_rate", e.audio.SampleRate)
		}
		if bitrate > 0 {
			if err := set(codec.EncBitrate, uint32(bitrate)); err != nil {
				return err
			}
		}
	}

	if err := set(codec.EncTransmux, uint32(e.transport)); err != nil {
		return err
	}
	afterburner := uint32(0)
	if e.afterburner {
		afterburner = 1
	}
	return set(codec.EncAfterburner, afterburner)
}

// AutoBitrate is the constant bitrate used when none is set: 96 kbit/s per
// single channel element and 128 kbit/s per channel pair at 44 kHz, scaled
// with the sample rate and halved when SBR carries the upper band. HE-AAC v2
// always codes a single element.
func AutoBitrate(aot codec.AudioObjectType, sce, cpe, sampleRate int, eldSBR bool) int {
	if aot == codec.AOTPS {
		sce, cpe = 1, 0
	}
	bitrate := (96*sce + 128*cpe) * sampleRate / 44
	if aot.UsesSBR() || eldSBR {
		bitrate /= 2
	}
	return bitrate
}

// Write encodes one block of interleaved little-endian int16 PCM. The block
// should hold Info().FrameLength samples per channel; the native encoder
// buffers anything shorter. Packets produced by the call are forwarded
// before Write returns, without the state lock held.
func (e *Encoder) Write(pcm []byte) (int, error) {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	if len(pcm) == 0 {
		if !e.IsActive() {
			return 0, ErrNotActive
		}
		return 0, nil
	}
	p, err := e.encode(pcm)
	if err != nil && !errors.Is(err, codec.ErrEncEOF) {
		if !errors.Is(err, ErrNotActive) {
			e.log.Error("encode", "size", len(pcm), "error", err)
			err = fmt.Errorf("aac: encode: %w", err)
		}
		return 0, err
	}
	if err := e.forward(p); err != nil {
		return 0, err
	}
	return len(pcm), nil
}

// Flush signals the end of input and forwards the packets the native
// encoder still holds. The Encoder stays active.
func (e *Encoder) Flush() error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	if !e.IsActive() {
		return ErrNotActive
	}
	for {
		p, err := e.encode(nil)
		if errors.Is(err, codec.ErrEncEOF) {
			return nil
		}
		if errors.Is(err, ErrNotActive) {
			return err
		}
		if err != nil {
			e.log.Error("flush", "error", err)
			return fmt.Errorf("aac: flush: %w", err)
		}
		if len(p) == 0 {
			return nil
		}
		if err := e.forward(p); err != nil {
			return err
		}
	}
}

// encode runs one native Encode call under the state lock. The returned
// packet aliases the packet buffer, which only Write and Flush fill.
func (e *Encoder) encode(pcm []byte) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.handle == nil {
		return nil, ErrNotActive
	}
	buf := e.buf
	n, err := e.handle.Encode(pcm, buf)
	return buf[:min(max(n, 0), len(buf))], err
}

func (e *Encoder) forward(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	e.log.Debug("packet", "size", len(p))
	if e.packets != nil {
		e.packets.HandlePacket(p)
	}
	if e.out != nil {
		if _, err := e.out.Write(p); err != nil {
			return fmt.Errorf("aac: write packet: %w", err)
		}
	}
	return nil
}

// Param reads a parameter from the native encoder. It returns 0 when the
// Encoder is not active.
func (e *Encoder) Param(param codec.EncoderParam) uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.handle == nil {
		return 0
	}
	return e.handle.Param(param)
}

// SetParam sets a parameter on the native encoder directly, bypassing the
// pending settings.
func (e *Encoder) SetParam(param codec.EncoderParam, value uint32) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.handle == nil {
		return ErrNotActive
	}
	if err := e.handle.SetParam(param, value); err != nil {
		return fmt.Errorf("aac: set %s=%d: %w", param, value, err)
	}
	return nil
}

// Info returns what the native encoder reported when it was initialised.
func (e *Encoder) Info() codec.EncoderInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.info
}

func (e *Encoder) IsActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.handle != nil
}

// End closes the native encoder and releases the packet buffer. Pending
// packets are discarded; call Flush first to keep them.
func (e *Encoder) End() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.handle == nil {
		return nil
	}
	err := e.closeHandle()
	e.buf = nil
	e.info = codec.EncoderInfo{}
	if err != nil {
		return fmt.Errorf("aac: close encoder: %w", err)
	}
	return nil
}

func (e *Encoder) Close() error { return e.End() }

func (e *Encoder) closeHandle() error {
	err := e.handle.Close()
	if err != nil {
		e.log.Error("close encoder", "error", err)
	}
	e.handle = nil
	e.openChannels = 0
	e.openModules = 0
	return err
}
