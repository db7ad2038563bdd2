// SPDX-License-Identifier: EPL-2.0

package fdkaac

import (
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/ik5/aacpbx/codec"
)

// InputCapacity is the size of the decoder's internal bit buffer.
const InputCapacity = 16 * 1024

// frameDecoder is the part of the library decoder the backend uses.
type frameDecoder interface {
	// Decode decodes the complete frames at the start of in into out. It
	// returns the PCM bytes written, the number of frames and the unused
	// input.
	Decode(in, out []byte) (n, frames int, rest []byte, err error)
	OutBytes() int
	Close()
}

// Decoder implements codec.NativeDecoder on top of a frameDecoder. Each
// queued frame carries the format read from its own ADTS header.
type Decoder struct {
	raw frameDecoder
	log *slog.Logger

	minChannels int
	srcChannels int
	in          []byte
	out         []byte
	queue       []decodedFrame
	info        codec.StreamInfo
	header      codec.StreamInfo
}

type decodedFrame struct {
	pcm  []int16
	info codec.StreamInfo
}

func newDecoder(raw frameDecoder, log *slog.Logger) *Decoder {
	return &Decoder{
		raw:         raw,
		log:         log,
		minChannels: 1,
		in:          make([]byte, 0, InputCapacity),
		out:         make([]byte, max(raw.OutBytes(), 2048*8*2)),
		info:        codec.StreamInfo{AOT: codec.AOTAACLC},
		header:      codec.StreamInfo{AOT: codec.AOTAACLC},
	}
}

func (d *Decoder) Fill(p []byte) (int, error) {
	n := min(len(p), cap(d.in)-len(d.in))
	d.in = append(d.in, p[:n]...)
	return n, nil
}

// DecodeFrame hands out one queued frame, decoding more input when the
// queue is empty. FlagFlush drops the buffered input and queued frames;
// FlagClrHist drops only the queued frames. FlagConceal and FlagIntr need
// no work here.
func (d *Decoder) DecodeFrame(pcm []int16, flags codec.DecoderFlag) (int, error) {
	if d.raw == nil {
		return 0, codec.ErrDecInvalidHandle
	}
	if flags&codec.FlagFlush != 0 {
		d.in = d.in[:0]
		d.queue = d.queue[:0]
		return 0, codec.ErrDecNotEnoughBits
	}
	if flags&codec.FlagClrHist != 0 {
		d.queue = d.queue[:0]
	}
	if len(d.queue) == 0 {
		if err := d.decode(); err != nil {
			return 0, err
		}
	}

	frame := d.queue[0]
	if len(pcm) < len(frame.pcm) {
		return 0, codec.ErrDecOutputBufferTooSmall
	}
	d.queue = d.queue[1:]
	d.info = frame.info
	return copy(pcm, frame.pcm), nil
}

// decode runs the library over the next ADTS frame, or over all buffered
// input when no complete frame length can be read, and queues the frames
// it produced.
func (d *Decoder) decode() error {
	if len(d.in) == 0 {
		return codec.ErrDecNotEnoughBits
	}

	in := d.in
	if size := adtsFrameLength(d.in); size > 0 {
		if size > len(d.in) {
			return codec.ErrDecNotEnoughBits
		}
		in = d.in[:size]
	}
	d.probe(in)

	n, frames, rest, err := d.raw.Decode(in, d.out)
	if err != nil {
		// the input cannot be resynchronised from here
		d.in = d.in[:0]
		return fmt.Errorf("%w: %v", codec.ErrDecDecodeFrame, err)
	}
	used := len(in) - len(rest)
	d.in = d.in[:copy(d.in, d.in[used:])]
	if n == 0 || frames == 0 {
		return codec.ErrDecNotEnoughBits
	}

	frameBytes := n / frames
	for f := range frames {
		d.queue = append(d.queue, d.toFrame(d.out[f*frameBytes:(f+1)*frameBytes]))
	}
	return nil
}

// probe reads the header at the start of p. The previous header stays in
// effect when p has none.
func (d *Decoder) probe(p []byte) {
	info, err := Probe(p)
	if err != nil {
		return
	}
	if info != d.header {
		d.log.Debug("stream probed", "sample_rate", info.SampleRate, "channels", info.Channels, "aot", info.AOT)
	}
	d.header = info
	d.srcChannels = info.Channels
}

// toFrame converts one frame of PCM bytes and upmixes mono when more
// output channels were requested.
func (d *Decoder) toFrame(raw []byte) decodedFrame {
	samples := len(raw) / 2
	info := d.header

	channels := d.srcChannels
	if channels <= 0 {
		frameSize := info.FrameSize
		if frameSize <= 0 {
			frameSize = 1024
		}
		channels = max(samples/frameSize, 1)
	}

	dup := 1
	if channels == 1 && d.minChannels >= 2 {
		dup = 2
	}

	pcm := make([]int16, 0, samples*dup)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(raw[2*i:]))
		for range dup {
			pcm = append(pcm, v)
		}
	}

	info.Channels = channels * dup
	info.FrameSize = samples / channels
	return decodedFrame{pcm: pcm, info: info}
}

func (d *Decoder) StreamInfo() codec.StreamInfo {
	return d.info
}

func (d *Decoder) SetParam(param codec.DecoderParam, value int32) error {
	switch param {
	case codec.PCMMinOutputChannels:
		if value < -1 || value > 8 {
			return codec.ErrDecSetParamFail
		}
		d.minChannels = int(value)
	case codec.TPDecClearBuffer:
		d.in = d.in[:0]
		d.queue = d.queue[:0]
	default:
		return codec.ErrDecSetParamFail
	}
	return nil
}

// ConfigRaw is not available; only ADTS streams carry their own config.
func (d *Decoder) ConfigRaw([]byte) error {
	return codec.ErrDecUnsupportedFormat
}

func (d *Decoder) Close() error {
	if d.raw != nil {
		d.raw.Close()
		d.raw = nil
	}
	return nil
}
