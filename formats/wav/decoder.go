// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-audio/wav"

	"github.com/ik5/aacpbx/audio"
	"github.com/ik5/aacpbx/internal/intpcm"
)

const formatPCM = 1

type Decoder struct{}

// Decode reads the header of a 16-bit PCM WAV. Readers that cannot seek
// are read into memory first.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("wav: read: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedWavLayout, err)
	}

	if dec.WavAudioFormat != formatPCM || dec.BitDepth != 16 {
		return nil, ErrOnlyPCM16bitSupported
	}
	format := dec.Format()
	if format == nil || format.NumChannels == 0 {
		return nil, ErrUnsupportedWavLayout
	}

	return intpcm.NewSource(dec, format.SampleRate, format.NumChannels, int(dec.BitDepth)), nil
}
