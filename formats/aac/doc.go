// SPDX-License-Identifier: EPL-2.0

// Package aac plugs AAC streams into the audio.Source pipeline.
//
// The Decoder drives an aac.Decoder with compressed input read from the
// caller's reader and converts every decoded frame to float32:
//
//	dec := aac.Decoder{Open: fdkaac.OpenDecoder}
//	src, err := dec.Decode(f)
//
// Mono streams come out as two identical channels.
package aac
