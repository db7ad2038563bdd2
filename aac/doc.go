// SPDX-License-Identifier: EPL-2.0

// Package aac binds a native AAC codec to Go's stream interfaces.
//
// A Decoder is an io.WriteCloser: compressed bytes go in through Write and
// decoded PCM comes out either through a FrameHandler or, as interleaved
// little-endian int16 samples, through an io.Writer. An Encoder works the
// other way round: PCM bytes go in through Write, AAC packets come out
// through a PacketHandler or an io.Writer.
//
//	dec := aac.NewDecoder(fdkaac.OpenDecoder, aac.WithOutput(pcmFile))
//	if err := dec.Begin(codec.TransportADTS, 1); err != nil {
//	    return err
//	}
//	defer dec.Close()
//	_, err := io.Copy(dec, adtsStream)
//
// Neither type performs any signal processing. The native codec is reached
// only through codec.NativeDecoder and codec.NativeEncoder, so any backend
// can be plugged in with an opener function.
//
// Handlers run on the goroutine calling Write and must not call back into
// the Decoder or Encoder that invoked them.
package aac
