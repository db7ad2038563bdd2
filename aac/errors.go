// SPDX-License-Identifier: EPL-2.0

package aac

import "errors"

var (
	ErrNotOpen                  = errors.New("aac: decoder is not open")
	ErrNotActive                = errors.New("aac: encoder is not active")
	ErrNilOpener                = errors.New("aac: no native codec opener")
	ErrInputBufferFull          = errors.New("aac: decoder input buffer accepted no data")
	ErrUnsupportedChannels      = errors.New("aac: unsupported number of channels")
	ErrUnsupportedBitsPerSample = errors.New("aac: only 16 bits per sample are supported")
	ErrInvalidSampleRate        = errors.New("aac: sample rate must be positive")
)
