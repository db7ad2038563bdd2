// SPDX-License-Identifier: EPL-2.0

package device

import "time"

// Mode selects the direction of a device.
type Mode uint8

const (
	Receive Mode = 1 << iota
	Transmit
	// BuiltInDAC sends output to an unsigned 8-bit DAC that takes the high
	// byte of every 16-bit slot.
	BuiltInDAC

	Duplex = Receive | Transmit
)

func (m Mode) Has(flag Mode) bool { return m&flag != 0 }

// Config describes the PCM format and buffering of a device.
type Config struct {
	Mode          Mode
	SampleRate    int
	Channels      int
	BitsPerSample int
	// BufferSize is the byte size of the read-ahead buffer, the single byte
	// write buffer and the driver FIFOs.
	BufferSize int
	// PollTimeout bounds how long Available and Peek wait for input.
	PollTimeout time.Duration
}

// DefaultConfig is 44.1 kHz mono 16-bit output to the built-in DAC with 512
// byte buffers.
func DefaultConfig() Config {
	return Config{
		Mode:          Transmit | BuiltInDAC,
		SampleRate:    44100,
		Channels:      1,
		BitsPerSample: 16,
		BufferSize:    512,
		PollTimeout:   5 * time.Millisecond,
	}
}

// Driver is the low-level sample transport a Stream sits on.
type Driver interface {
	Install(cfg Config) error
	Uninstall() error
	Start() error
	Stop() error
	// Read copies captured bytes into p. It waits at most timeout for the
	// first byte; a negative timeout waits until data arrives or the driver
	// stops.
	Read(p []byte, timeout time.Duration) (int, error)
	// Write queues all of p for playback, waiting for room as needed.
	Write(p []byte) (int, error)
}
