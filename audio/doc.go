// SPDX-License-Identifier: EPL-2.0

// Package audio provides the PCM plumbing around the AAC codec.
//
// Everything here is built on the Source interface, a stream of
// interleaved float32 samples in [-1,1]:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Sources are chained into pipelines. A decoded file is usually converted
// to an AAC sample rate and then to the 16-bit PCM the encoder consumes:
//
//	src, _ := wav.Decoder{}.Decode(f)
//	pcm := audio.NewPCM16Reader(audio.NewResampler(src, 44100))
//	io.Copy(encoder, pcm)
//
// # Processors
//
//   - Resampler changes the sample rate with cubic interpolation and
//     low-pass filters the input when downsampling.
//   - MonoMixer averages all channels into one.
//   - PCM16Reader exposes a Source as an io.Reader of little-endian int16.
//   - Tone generates a sine wave, handy for tests and device checks.
//
// # Format Registry
//
// Registry maps format names and file extensions to decoders:
//
//	reg := audio.NewRegistry()
//	reg.Register("wav", wav.Decoder{})
//	dec, err := reg.ForFile("take1.WAV")
//
// # End of Stream
//
// ReadSamples returns io.EOF, possibly together with the last samples,
// once the stream is finished. Any other error comes from the source.
package audio
