// SPDX-License-Identifier: EPL-2.0

// Package device connects PCM streams to sound hardware.
//
// A Driver moves raw sample bytes to and from a device. Stream sits on top
// of a Driver and behaves like a serial port: reads are served from a
// read-ahead buffer, single bytes can be written through a small buffer, and
// PCM written to it is turned into interleaved stereo. In BuiltInDAC mode
// every sample is also rescaled to an unsigned 8-bit value in the high byte
// of its 16-bit slot.
//
// MalgoDriver plays and records through miniaudio and needs cgo.
// MemoryDriver keeps everything in memory and is what tests use.
//
// Sampler reads a single value at a fixed rate into a double buffer, or a
// lock-free ring with WithRing, the way an ADC is sampled from a timer
// interrupt.
//
// FilterWriter applies a gain and offset to PCM on its way to a Stream.
package device
