// SPDX-License-Identifier: EPL-2.0

// Package codectest provides scripted in-memory stand-ins for the native
// codec interfaces of package codec.
package codectest

import (
	"sync"

	"github.com/ik5/aacpbx/codec"
)

// Decoder is a fake codec.NativeDecoder. Every FrameBytes buffered input
// bytes decode into one frame of FrameSize*Channels samples whose value is
// the frame index.
type Decoder struct {
	// FillLimit caps how many bytes one Fill call accepts; 0 means no cap.
	FillLimit int
	// Capacity is the internal input buffer size; 0 means unbounded.
	Capacity   int
	FrameBytes int
	FrameSize  int
	Channels   int
	// Rates is the sample rate reported for each decoded frame. The last
	// entry sticks once the list is exhausted.
	Rates []int
	// Errors injects an error for the frame with the given index. The frame
	// bytes are consumed.
	Errors map[int]error

	Transport codec.TransportType
	Layers    uint

	mu      sync.Mutex
	pending int
	frames  int
	filled  int
	info    codec.StreamInfo
	params  map[codec.DecoderParam]int32
	config  []byte
	flags   []codec.DecoderFlag
	closed  int
}

// NewDecoder returns a fake with 100-byte frames of 1024 stereo samples at
// 44100 Hz.
func NewDecoder() *Decoder {
	return &Decoder{
		FrameBytes: 100,
		FrameSize:  1024,
		Channels:   2,
		Rates:      []int{44100},
		params:     make(map[codec.DecoderParam]int32),
	}
}

func (d *Decoder) Fill(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := len(p)
	if d.FillLimit > 0 && n > d.FillLimit {
		n = d.FillLimit
	}
	if d.Capacity > 0 && d.pending+n > d.Capacity {
		n = d.Capacity - d.pending
	}
	d.pending += n
	d.filled += n
	return n, nil
}

func (d *Decoder) DecodeFrame(pcm []int16, flags codec.DecoderFlag) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.flags = append(d.flags, flags)
	if d.FrameBytes <= 0 || d.pending < d.FrameBytes {
		return 0, codec.ErrDecNotEnoughBits
	}
	d.pending -= d.FrameBytes

	idx := d.frames
	d.frames++
	if err, ok := d.Errors[idx]; ok {
		return 0, err
	}

	rate := 0
	if len(d.Rates) > 0 {
		rate = d.Rates[min(idx, len(d.Rates)-1)]
	}
	d.info = codec.StreamInfo{
		SampleRate: rate,
		Channels:   d.Channels,
		FrameSize:  d.FrameSize,
		AOT:        codec.AOTAACLC,
	}

	n := d.FrameSize * d.Channels
	if n > len(pcm) {
		return 0, codec.ErrDecOutputBufferTooSmall
	}
	for i := range n {
		pcm[i] = int16(idx)
	}
	return n, nil
}

func (d *Decoder) StreamInfo() codec.StreamInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.info
}

func (d *Decoder) SetParam(param codec.DecoderParam, value int32) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if param == codec.TPDecClearBuffer {
		d.pending = 0
	}
	d.params[param] = value
	return nil
}

func (d *Decoder) ConfigRaw(cfg []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.config = append([]byte(nil), cfg...)
	return nil
}

func (d *Decoder) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed++
	return nil
}

// Param returns the last value set for param.
func (d *Decoder) Param(param codec.DecoderParam) (int32, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.params[param]
	return v, ok
}

// Filled is the total number of bytes accepted by Fill.
func (d *Decoder) Filled() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.filled
}

// Frames is the number of frames attempted, including failed ones.
func (d *Decoder) Frames() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frames
}

// Config returns the last raw configuration passed to ConfigRaw.
func (d *Decoder) Config() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.config
}

// Flags returns the flags of every DecodeFrame call.
func (d *Decoder) Flags() []codec.DecoderFlag {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]codec.DecoderFlag(nil), d.flags...)
}

func (d *Decoder) Closed() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// DecoderFactory counts opens and hands out decoders built by New.
type DecoderFactory struct {
	// New builds each decoder; NewDecoder is used when nil.
	New func() *Decoder
	// Err makes every open fail.
	Err error

	mu     sync.Mutex
	opened []*Decoder
}

func (f *DecoderFactory) Open(transport codec.TransportType, layers uint) (codec.NativeDecoder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	var d *Decoder
	if f.New != nil {
		d = f.New()
	} else {
		d = NewDecoder()
	}
	if d.params == nil {
		d.params = make(map[codec.DecoderParam]int32)
	}
	d.Transport = transport
	d.Layers = layers
	f.opened = append(f.opened, d)
	return d, nil
}

// Opened is the number of successful opens.
func (f *DecoderFactory) Opened() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.opened)
}

// Last returns the most recently opened decoder or nil.
func (f *DecoderFactory) Last() *Decoder {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.opened) == 0 {
		return nil
	}
	return f.opened[len(f.opened)-1]
}
