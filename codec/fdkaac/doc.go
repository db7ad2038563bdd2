// SPDX-License-Identifier: EPL-2.0

// Package fdkaac backs the codec interfaces with the Fraunhofer FDK AAC
// library.
//
// OpenDecoder and OpenEncoder have the signatures of codec.DecoderOpener
// and codec.EncoderOpener and can be handed straight to aac.NewDecoder and
// aac.NewEncoder:
//
//	dec := aac.NewDecoder(fdkaac.OpenDecoder, aac.WithOutput(w))
//	if err := dec.Begin(codec.TransportADTS, 1); err != nil {
//		return err
//	}
//
// Only ADTS framed AAC-LC is supported in both directions. The library is
// linked through cgo; without cgo both openers return
// codec.ErrBackendUnavailable.
//
// Probe reads the format of an ADTS stream without decoding it and works in
// every build.
package fdkaac
