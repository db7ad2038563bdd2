// SPDX-License-Identifier: EPL-2.0

package codec

// StreamInfo is what the native decoder reports about the most recently
// decoded frame.
type StreamInfo struct {
	SampleRate int // output sample rate in Hz
	Channels   int // output channels
	FrameSize  int // samples per channel in one decoded frame

	AOT                AudioObjectType
	BitRate            int // instantaneous, 0 if unknown
	NumLostAccessUnits int
}

// Samples is the number of interleaved samples one frame occupies.
func (s StreamInfo) Samples() int {
	return s.FrameSize * s.Channels
}

// EncoderInfo is what the native encoder reports after initialisation.
type EncoderInfo struct {
	MaxOutBufBytes int // worst case bytes produced by one Encode call
	MaxAncBytes    int
	InBufFillLevel int
	InputChannels  int
	FrameLength    int // samples per channel in one frame
	EncoderDelay   int
	ConfBuf        []byte // AudioSpecificConfig or StreamMuxConfig
}

// NativeDecoder is an open native decoder handle.
type NativeDecoder interface {
	// Fill copies as much of p as fits into the decoder's internal bit
	// buffer and returns the number of bytes taken.
	Fill(p []byte) (int, error)
	// DecodeFrame decodes one frame into pcm and returns the number of
	// interleaved samples written. ErrDecNotEnoughBits means more input
	// has to be filled first.
	DecodeFrame(pcm []int16, flags DecoderFlag) (int, error)
	StreamInfo() StreamInfo
	SetParam(param DecoderParam, value int32) error
	// ConfigRaw passes an AudioSpecificConfig (or StreamMuxConfig for LATM).
	ConfigRaw(cfg []byte) error
	Close() error
}

// NativeEncoder is an open native encoder handle. Parameters set with
// SetParam take effect on Init or, for an initialised handle, on the next
// Encode call.
type NativeEncoder interface {
	SetParam(param EncoderParam, value uint32) error
	Param(param EncoderParam) uint32
	Init() error
	Info() (EncoderInfo, error)
	// Encode consumes interleaved little-endian int16 PCM from in and writes
	// the produced bitstream into out. A nil in signals end of input;
	// ErrEncEOF is returned once all delayed output has been drained.
	Encode(in, out []byte) (int, error)
	Close() error
}

// DecoderOpener opens a native decoder for a transport type.
type DecoderOpener func(transport TransportType, layers uint) (NativeDecoder, error)

// EncoderOpener opens a native encoder sized for maxChannels.
type EncoderOpener func(modules EncoderModule, maxChannels int) (NativeEncoder, error)
