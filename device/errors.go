// SPDX-License-Identifier: EPL-2.0

package device

import "errors"

var (
	ErrNotInstalled     = errors.New("device: driver not installed")
	ErrInstalled        = errors.New("device: driver already installed")
	ErrStopped          = errors.New("device: driver stopped")
	ErrNoData           = errors.New("device: no data available")
	ErrMissingAudioInfo = errors.New("device: audio info missing")
	ErrUnsupportedBits  = errors.New("device: only 16 bits per sample are supported")
	ErrCgoRequired      = errors.New("device: audio hardware support needs a cgo build")
	ErrSamplerRunning   = errors.New("device: sampler already running")
)
