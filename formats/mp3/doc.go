// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 files with github.com/hajimehoshi/go-mp3.
//
// The source is always stereo at the file's sample rate; pass it through
// audio.MonoMixer when mono is needed.
package mp3
