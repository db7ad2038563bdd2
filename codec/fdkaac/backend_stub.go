// SPDX-License-Identifier: EPL-2.0

//go:build !cgo

package fdkaac

import "github.com/ik5/aacpbx/codec"

func OpenDecoder(codec.TransportType, uint) (codec.NativeDecoder, error) {
	return nil, codec.ErrBackendUnavailable
}

func OpenEncoder(codec.EncoderModule, int) (codec.NativeEncoder, error) {
	return nil, codec.ErrBackendUnavailable
}
