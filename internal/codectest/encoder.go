// SPDX-License-Identifier: EPL-2.0

package codectest

import (
	"sync"

	"github.com/ik5/aacpbx/codec"
)

// Encoder is a fake codec.NativeEncoder. Each Encode call with input emits
// one packet of PacketSize bytes filled with the packet index; a nil input
// emits TailPackets more packets and then codec.ErrEncEOF.
type Encoder struct {
	PacketSize  int
	TailPackets int
	FrameLength int
	// EncodeErr is returned by every Encode call when set.
	EncodeErr error
	// InitErr is returned by Init when set.
	InitErr error

	Modules     codec.EncoderModule
	MaxChannels int

	mu       sync.Mutex
	params   map[codec.EncoderParam]uint32
	order    []codec.EncoderParam
	inits    int
	packets  int
	consumed int
	tail     int
	closed   int
}

// NewEncoder returns a fake emitting 64-byte packets with two tail packets.
func NewEncoder() *Encoder {
	return &Encoder{
		PacketSize:  64,
		TailPackets: 2,
		FrameLength: 1024,
		params:      make(map[codec.EncoderParam]uint32),
	}
}

func (e *Encoder) SetParam(param codec.EncoderParam, value uint32) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.params[param] = value
	e.order = append(e.order, param)
	return nil
}

func (e *Encoder) Param(param codec.EncoderParam) uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.params[param]
}

func (e *Encoder) Init() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.InitErr != nil {
		return e.InitErr
	}
	e.inits++
	e.tail = 0
	return nil
}

func (e *Encoder) Info() (codec.EncoderInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	channels := e.MaxChannels
	if mode, ok := e.params[codec.EncChannelMode]; ok {
		channels = int(mode) // MODE_1..MODE_1_2_2_1 equal their channel count
	}
	return codec.EncoderInfo{
		MaxOutBufBytes: 768 * max(channels, 1),
		InputChannels:  channels,
		FrameLength:    e.FrameLength,
		ConfBuf:        []byte{0x12, 0x10},
	}, nil
}

func (e *Encoder) Encode(in, out []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.EncodeErr != nil {
		return 0, e.EncodeErr
	}
	if in == nil {
		if e.tail >= e.TailPackets {
			return 0, codec.ErrEncEOF
		}
		e.tail++
	} else {
		e.consumed += len(in)
	}
	return e.packet(out), nil
}

func (e *Encoder) packet(out []byte) int {
	n := min(e.PacketSize, len(out))
	for i := range n {
		out[i] = byte(e.packets)
	}
	e.packets++
	return n
}

func (e *Encoder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed++
	return nil
}

// Order returns every parameter key in the order it was set.
func (e *Encoder) Order() []codec.EncoderParam {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]codec.EncoderParam(nil), e.order...)
}

// Has reports whether param was ever set.
func (e *Encoder) Has(param codec.EncoderParam) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.params[param]
	return ok
}

func (e *Encoder) Inits() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inits
}

// Consumed is the number of PCM bytes passed to Encode.
func (e *Encoder) Consumed() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.consumed
}

func (e *Encoder) Closed() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// EncoderFactory counts opens and hands out encoders built by New.
type EncoderFactory struct {
	New func() *Encoder
	Err error

	mu     sync.Mutex
	opened []*Encoder
}

func (f *EncoderFactory) Open(modules codec.EncoderModule, maxChannels int) (codec.NativeEncoder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	var e *Encoder
	if f.New != nil {
		e = f.New()
	} else {
		e = NewEncoder()
	}
	if e.params == nil {
		e.params = make(map[codec.EncoderParam]uint32)
	}
	e.Modules = modules
	e.MaxChannels = maxChannels
	f.opened = append(f.opened, e)
	return e, nil
}

func (f *EncoderFactory) Opened() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.opened)
}

// All returns every encoder opened so far.
func (f *EncoderFactory) All() []*Encoder {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*Encoder(nil), f.opened...)
}

func (f *EncoderFactory) Last() *Encoder {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.opened) == 0 {
		return nil
	}
	return f.opened[len(f.opened)-1]
}
