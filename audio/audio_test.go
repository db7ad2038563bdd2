// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"slices"
	"testing"
)

type stubDecoder struct{ name string }

func (stubDecoder) Decode(io.Reader) (Source, error) { return nil, nil }

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register("wav", stubDecoder{"wav"})
	r.Register("AAC", stubDecoder{"aac"})

	if d, ok := r.Get("WAV"); !ok || d.(stubDecoder).name != "wav" {
		t.Errorf("Get(WAV) = %v, %v", d, ok)
	}
	if _, ok := r.Get("flac"); ok {
		t.Error("Get(flac) found a decoder")
	}
	if got := r.Formats(); !slices.Equal(got, []string{"aac", "wav"}) {
		t.Errorf("Formats() = %v", got)
	}
}

func TestRegistryForFile(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register("aac", stubDecoder{"aac"})

	tests := []struct {
		name    string
		file    string
		wantErr bool
	}{
		{"extension", "radio/stream.aac", false},
		{"upper case", "STREAM.AAC", false},
		{"unknown", "song.flac", true},
		{"no extension", "stream", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := r.ForFile(tt.file)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ForFile(%q) error = %v, wantErr %v", tt.file, err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, ErrUnknownFormat) {
				t.Errorf("error %v is not ErrUnknownFormat", err)
			}
			var ufe *UnknownFormatError
			if !errors.As(err, &ufe) || ufe.Name != tt.file {
				t.Errorf("error %v does not carry the file name", err)
			}
		})
	}
}
