// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files with github.com/jfreymuth/oggvorbis.
//
// Samples are produced directly as float32, so no conversion happens
// between the decoder and the audio.Source.
package vorbis
