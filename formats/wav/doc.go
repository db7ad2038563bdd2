// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes 16-bit PCM WAV files with
// github.com/go-audio/wav.
//
// Decoder turns a WAV into an audio.Source. WriteSource does the
// opposite and is how decoded AAC ends up on disk:
//
//	f, _ := os.Create("out.wav")
//	frames, err := wav.WriteSource(f, src)
//
// Writing needs an io.WriteSeeker because the header sizes are patched
// after the last sample.
package wav
