// SPDX-License-Identifier: EPL-2.0

//go:build cgo

package fdkaac

import (
	"fmt"
	"log/slog"

	fdk "github.com/lizc2003/audio-fdkaac"

	"github.com/ik5/aacpbx/codec"
)

type integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

func setInt[T integer](dst *T, v int) { *dst = T(v) }

// libDecoder adapts the library decoder to frameDecoder.
type libDecoder struct {
	decode   func(in, out []byte) (int, int, []byte, error)
	outBytes int
	close    func()
}

func (l *libDecoder) Decode(in, out []byte) (int, int, []byte, error) { return l.decode(in, out) }
func (l *libDecoder) OutBytes() int                                   { return l.outBytes }
func (l *libDecoder) Close()                                          { l.close() }

// OpenDecoder opens an FDK decoder. Only ADTS input is supported.
func OpenDecoder(transport codec.TransportType, _ uint) (codec.NativeDecoder, error) {
	if transport != codec.TransportADTS && transport != codec.TransportUnknown {
		return nil, fmt.Errorf("%w: %s", codec.ErrUnsupportedTransport, transport)
	}

	dec, err := fdk.CreateAacDecoder(&fdk.AacDecoderConfig{TransportFmt: fdk.TtMp4Adts})
	if err != nil {
		return nil, fmt.Errorf("fdkaac: create decoder: %w", err)
	}

	raw := &libDecoder{
		decode: func(in, out []byte) (int, int, []byte, error) {
			n, frames, rest, err := dec.Decode(in, out)
			return int(n), int(frames), rest, err
		},
		outBytes: int(dec.EstimateOutBufBytes()),
		close:    func() { dec.Close() },
	}
	return newDecoder(raw, slog.Default().With("component", "fdkaac.decoder")), nil
}

// libEncoder adapts the library encoder to frameEncoder.
type libEncoder struct {
	encode   func(in, out []byte) (int, error)
	flush    func(out []byte) (int, error)
	outBytes func(inLen int) int
	close    func()
}

func (l *libEncoder) Encode(in, out []byte) (int, error) { return l.encode(in, out) }
func (l *libEncoder) Flush(out []byte) (int, error)      { return l.flush(out) }
func (l *libEncoder) OutBytes(inLen int) int             { return l.outBytes(inLen) }
func (l *libEncoder) Close()                             { l.close() }

func createEncoder(cfg encoderConfig) (frameEncoder, error) {
	c := fdk.AacEncoderConfig{TransMux: fdk.TtMp4Adts}
	setInt(&c.SampleRate, cfg.SampleRate)
	setInt(&c.MaxChannels, cfg.Channels)
	setInt(&c.Bitrate, cfg.Bitrate)

	enc, err := fdk.CreateAacEncoder(&c)
	if err != nil {
		return nil, err
	}
	return &libEncoder{
		encode: func(in, out []byte) (int, error) {
			n, _, err := enc.Encode(in, out)
			return int(n), err
		},
		flush: func(out []byte) (int, error) {
			n, _, err := enc.Flush(out)
			return int(n), err
		},
		outBytes: func(inLen int) int { return int(enc.EstimateOutBufBytes(inLen)) },
		close:    func() { enc.Close() },
	}, nil
}

// OpenEncoder opens an AAC-LC encoder for up to maxChannels channels. The
// library is configured by Init from the parameters set before it.
func OpenEncoder(modules codec.EncoderModule, maxChannels int) (codec.NativeEncoder, error) {
	if modules&^(codec.ModuleAAC|codec.ModuleMetadata) != 0 {
		return nil, fmt.Errorf("%w: modules 0x%02x", codec.ErrEncUnsupportedParameter, uint(modules))
	}
	if maxChannels < 1 || maxChannels > 6 {
		return nil, fmt.Errorf("%w: %d channels", codec.ErrEncInvalidConfig, maxChannels)
	}
	return newEncoder(createEncoder, maxChannels, slog.Default().With("component", "fdkaac.encoder")), nil
}
