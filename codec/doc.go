// SPDX-License-Identifier: EPL-2.0

// Package codec describes the surface of a native AAC codec library.
//
// Nothing in this package encodes or decodes audio. It carries the enumerated
// configuration keys, transport types and error codes of an FDK-style AAC
// library, plus the two small interfaces a backend implements:
//
//	type NativeDecoder interface {
//	    Fill(p []byte) (int, error)
//	    DecodeFrame(pcm []int16, flags DecoderFlag) (int, error)
//	    StreamInfo() StreamInfo
//	    SetParam(param DecoderParam, value int32) error
//	    ConfigRaw(cfg []byte) error
//	    Close() error
//	}
//
//	type NativeEncoder interface {
//	    SetParam(param EncoderParam, value uint32) error
//	    Param(param EncoderParam) uint32
//	    Init() error
//	    Info() (EncoderInfo, error)
//	    Encode(in, out []byte) (int, error)
//	    Close() error
//	}
//
// The stream wrappers in package aac drive these interfaces. The fdkaac
// subpackage provides a cgo backend; tests use fakes.
//
// # Error Codes
//
// Native status codes are typed integers implementing error, so they can be
// matched with errors.Is:
//
//	n, err := dec.DecodeFrame(pcm, codec.FlagIntr)
//	if errors.Is(err, codec.ErrDecNotEnoughBits) {
//	    // feed more input
//	}
//
// Two codes are steady-state conditions rather than failures:
// ErrDecNotEnoughBits (decoder wants more input) and ErrEncEOF (encoder has
// drained all delayed output).
package codec
