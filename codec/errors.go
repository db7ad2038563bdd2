// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownTransport     = errors.New("unknown transport type")
	ErrUnsupportedTransport = errors.New("transport type not supported by backend")
	ErrBackendUnavailable   = errors.New("native codec backend not available in this build")
)

// DecoderError is a native decoder status code.
type DecoderError int

const (
	ErrDecOK                       DecoderError = 0x0000
	ErrDecOutOfMemory              DecoderError = 0x0002
	ErrDecUnknown                  DecoderError = 0x0005
	ErrDecTransportSync            DecoderError = 0x0101
	ErrDecNotEnoughBits            DecoderError = 0x1002
	ErrDecInvalidHandle            DecoderError = 0x2001
	ErrDecUnsupportedAOT           DecoderError = 0x2003
	ErrDecUnsupportedFormat        DecoderError = 0x2004
	ErrDecUnsupportedERFormat      DecoderError = 0x2005
	ErrDecUnsupportedEPConfig      DecoderError = 0x2006
	ErrDecUnsupportedMultilayer    DecoderError = 0x2007
	ErrDecUnsupportedChannelConfig DecoderError = 0x2008
	ErrDecUnsupportedSampleRate    DecoderError = 0x2009
	ErrDecInvalidSBRConfig         DecoderError = 0x200A
	ErrDecSetParamFail             DecoderError = 0x200B
	ErrDecNeedToRestart            DecoderError = 0x200C
	ErrDecOutputBufferTooSmall     DecoderError = 0x200D
	ErrDecTransport                DecoderError = 0x4001
	ErrDecParse                    DecoderError = 0x4002
	ErrDecUnsupportedExtension     DecoderError = 0x4003
	ErrDecDecodeFrame              DecoderError = 0x4004
	ErrDecCRC                      DecoderError = 0x4005
	ErrDecInvalidCodeBook          DecoderError = 0x4006
	ErrDecUnsupportedPrediction    DecoderError = 0x4007
	ErrDecUnsupportedCCE           DecoderError = 0x4008
	ErrDecUnsupportedLFE           DecoderError = 0x4009
	ErrDecUnsupportedGainControl   DecoderError = 0x400A
	ErrDecUnsupportedSBA           DecoderError = 0x400B
	ErrDecTNSRead                  DecoderError = 0x400C
	ErrDecRVLC                     DecoderError = 0x400D
	ErrDecAncData                  DecoderError = 0x8001
	ErrDecTooSmallAncBuffer        DecoderError = 0x8002
	ErrDecTooManyAncElements       DecoderError = 0x8003
)

var decoderErrorText = map[DecoderError]string{
	ErrDecOK:                       "no error",
	ErrDecOutOfMemory:              "heap returned NULL pointer",
	ErrDecUnknown:                  "unknown error",
	ErrDecTransportSync:            "transport layer lost synchronisation",
	ErrDecNotEnoughBits:            "input buffer ran out of bits",
	ErrDecInvalidHandle:            "invalid decoder handle",
	ErrDecUnsupportedAOT:           "audio object type not supported",
	ErrDecUnsupportedFormat:        "bitstream format not supported",
	ErrDecUnsupportedERFormat:      "error resilience tool format not supported",
	ErrDecUnsupportedEPConfig:      "error protection format not supported",
	ErrDecUnsupportedMultilayer:    "multilayer bitstreams not supported",
	ErrDecUnsupportedChannelConfig: "channel configuration not supported",
	ErrDecUnsupportedSampleRate:    "sample rate not supported",
	ErrDecInvalidSBRConfig:         "SBR configuration not supported",
	ErrDecSetParamFail:             "parameter could not be set",
	ErrDecNeedToRestart:            "decoder needs to be restarted",
	ErrDecOutputBufferTooSmall:     "output buffer too small",
	ErrDecTransport:                "transport layer error",
	ErrDecParse:                    "bitstream parse error",
	ErrDecUnsupportedExtension:     "unsupported extension payload",
	ErrDecDecodeFrame:              "frame could not be decoded",
	ErrDecCRC:                      "CRC check failed",
	ErrDecInvalidCodeBook:          "invalid codebook",
	ErrDecUnsupportedPrediction:    "prediction not supported",
	ErrDecUnsupportedCCE:           "coupling channel elements not supported",
	ErrDecUnsupportedLFE:           "LFE channel not supported",
	ErrDecUnsupportedGainControl:   "gain control data not supported",
	ErrDecUnsupportedSBA:           "SBA not supported",
	ErrDecTNSRead:                  "TNS data could not be read",
	ErrDecRVLC:                     "RVLC decoding error",
	ErrDecAncData:                  "ancillary data error",
	ErrDecTooSmallAncBuffer:        "ancillary data buffer too small",
	ErrDecTooManyAncElements:       "too many ancillary data elements",
}

func (e DecoderError) Error() string {
	if text, ok := decoderErrorText[e]; ok {
		return fmt.Sprintf("aac decoder: %s (0x%04x)", text, int(e))
	}
	return fmt.Sprintf("aac decoder: n/a (0x%04x)", int(e))
}

// Recoverable reports whether decoding can continue with the next frame.
func (e DecoderError) Recoverable() bool {
	return e == ErrDecNotEnoughBits || e == ErrDecTransportSync || (e >= 0x4000 && e < 0x5000)
}

// EncoderError is a native encoder status code.
type EncoderError int

const (
	ErrEncOK                   EncoderError = 0x00
	ErrEncInvalidHandle        EncoderError = 0x20
	ErrEncMemory               EncoderError = 0x21
	ErrEncUnsupportedParameter EncoderError = 0x22
	ErrEncInvalidConfig        EncoderError = 0x23
	ErrEncInit                 EncoderError = 0x40
	ErrEncInitAAC              EncoderError = 0x41
	ErrEncInitSBR              EncoderError = 0x42
	ErrEncInitTP               EncoderError = 0x43
	ErrEncInitMeta             EncoderError = 0x44
	ErrEncInitMPS              EncoderError = 0x45
	ErrEncEncode               EncoderError = 0x60
	ErrEncEOF                  EncoderError = 0x80
)

var encoderErrorText = map[EncoderError]string{
	ErrEncOK:                   "no error",
	ErrEncInvalidHandle:        "handle passed to function call was invalid",
	ErrEncMemory:               "memory allocation failed",
	ErrEncUnsupportedParameter: "parameter not available",
	ErrEncInvalidConfig:        "configuration not provided",
	ErrEncInit:                 "general initialization error",
	ErrEncInitAAC:              "AAC library initialization error",
	ErrEncInitSBR:              "SBR library initialization error",
	ErrEncInitTP:               "transport library initialization error",
	ErrEncInitMeta:             "meta data library initialization error",
	ErrEncInitMPS:              "MPS library initialization error",
	ErrEncEncode:               "the encoding process was interrupted by an unexpected error",
	ErrEncEOF:                  "end of file reached",
}

func (e EncoderError) Error() string {
	if text, ok := encoderErrorText[e]; ok {
		return fmt.Sprintf("aac encoder: %s (0x%02x)", text, int(e))
	}
	return fmt.Sprintf("aac encoder: n/a (0x%02x)", int(e))
}
