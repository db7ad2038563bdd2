// SPDX-License-Identifier: EPL-2.0

// Package httpstream reads a remote resource, typically an AAC or MP3
// radio stream, as a buffered byte stream.
//
//	s := httpstream.New()
//	if err := s.Open(ctx, "http://radio.example/stream.aac"); err != nil {
//		return err
//	}
//	defer s.Close()
//	_, err := io.Copy(decoder, s)
package httpstream
