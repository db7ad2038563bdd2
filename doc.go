// SPDX-License-Identifier: EPL-2.0

// Package aacpbx binds an AAC codec to byte streams.
//
// The building blocks live in subpackages:
//
//   - aac wraps a native decoder and encoder behind io.Writer style
//     streaming with frame, info and packet callbacks.
//   - codec defines the native codec contract; codec/fdkaac implements
//     it with libfdk-aac.
//   - buffers holds the double buffer and lock-free ring used to hand
//     samples from a producer to a consumer.
//   - device and httpstream are the buffered stream adapters for audio
//     hardware and HTTP sources.
//   - audio and formats turn WAV, MP3, Ogg Vorbis, AIFF and AAC files
//     into float32 sources.
//
// This package ties them together for whole-file work:
//
//	src, _ := wav.Decoder{}.Decode(in)
//	res, err := aacpbx.EncodeSource(out, src, fdkaac.OpenEncoder)
//
// and the reverse:
//
//	frames, err := aacpbx.DecodeToWAV(wavFile, adtsFile, fdkaac.OpenDecoder)
//
// EncodeSource adapts the source to what the encoder accepts: more than
// six channels are mixed to mono and the sample rate is moved to the
// nearest one an AAC stream can carry.
package aacpbx
