// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/aacpbx/audio"
	"github.com/ik5/aacpbx/utils"
)

const writeChunk = 4096

// WriteSource drains src into ws as a 16-bit PCM WAV. The header is
// patched with the final sizes once src reports io.EOF. It returns the
// number of frames written.
func WriteSource(ws io.WriteSeeker, src audio.Source) (int, error) {
	ch := src.Channels()
	if ch <= 0 {
		return 0, ErrNoChannels
	}

	enc := wav.NewEncoder(ws, src.SampleRate(), 16, ch, formatPCM)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: ch, SampleRate: src.SampleRate()},
		SourceBitDepth: 16,
	}
	samples := make([]float32, writeChunk/ch*ch)
	data := make([]int, len(samples))

	total := 0
	for {
		n, err := src.ReadSamples(samples)
		n -= n % ch
		if n > 0 {
			for i, v := range samples[:n] {
				data[i] = int(utils.Float32ToInt16(v))
			}
			buf.Data = data[:n]
			if werr := enc.Write(buf); werr != nil {
				return total, fmt.Errorf("wav: write: %w", werr)
			}
			total += n / ch
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return total, fmt.Errorf("wav: read source: %w", err)
		}
	}

	if err := enc.Close(); err != nil {
		return total, fmt.Errorf("wav: finish: %w", err)
	}
	return total, nil
}

// WriteInt16 writes interleaved 16-bit samples as a WAV.
func WriteInt16(ws io.WriteSeeker, sampleRate, channels int, samples []int16) error {
	if channels <= 0 {
		return ErrNoChannels
	}
	enc := wav.NewEncoder(ws, sampleRate, 16, channels, formatPCM)
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if len(data) > 0 {
		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("wav: write: %w", err)
		}
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wav: finish: %w", err)
	}
	return nil
}
