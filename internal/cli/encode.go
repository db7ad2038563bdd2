// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ik5/aacpbx"
	"github.com/ik5/aacpbx/audio"
)

func encodeCommand(app *App) *cobra.Command {
	var (
		tone     float64
		duration time.Duration
	)

	cmd := &cobra.Command{
		Use:   "encode [INPUT] OUTPUT.aac",
		Short: "Encode a WAV, MP3, Ogg Vorbis or AIFF file, or a test tone, to ADTS",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := args[len(args)-1]

			var src audio.Source
			switch {
			case len(args) == 2:
				s, closeIn, err := app.openSource(args[0])
				if err != nil {
					return err
				}
				defer closeIn()
				src = s
			case tone > 0:
				rate := app.Settings.Device.SampleRate
				src = audio.NewTone(rate, 1, tone, 0.5, int(duration.Seconds()*float64(rate)))
			default:
				return ErrNoInput
			}
			defer src.Close()

			out, err := os.Create(output)
			if err != nil {
				return err
			}
			defer out.Close()

			res, err := aacpbx.EncodeSource(out, src, app.OpenEncoder,
				aacpbx.WithBitrate(app.Settings.Encoder.Bitrate),
				aacpbx.WithVBR(app.Settings.Encoder.VBR),
				aacpbx.WithLogger(app.Log))
			if err != nil {
				return fmt.Errorf("encode %s: %w", output, err)
			}
			app.print(cmd, "%s: %d Hz, %d channels, %d PCM bytes", output, res.SampleRate, res.Channels, res.PCMBytes)
			return out.Close()
		},
	}

	cmd.Flags().Float64Var(&tone, "tone", 0, "encode a sine tone of this frequency instead of a file")
	cmd.Flags().DurationVar(&duration, "duration", time.Second, "length of the --tone")
	cmd.Flags().Int("bitrate", 0, "constant bitrate in bits/s (0 selects VBR)")
	cmd.Flags().Int("vbr", 1, "variable bitrate quality 1-5")
	bindFlag(app.viper, cmd, "bitrate", "encoder.bitrate")
	bindFlag(app.viper, cmd, "vbr", "encoder.vbr")
	return cmd
}

// openSource decodes name with the decoder registered for its extension.
func (a *App) openSource(name string) (audio.Source, func(), error) {
	dec, err := aacpbx.NewRegistry(a.OpenDecoder).ForFile(name)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, err
	}
	src, err := dec.Decode(f)
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return src, func() { _ = f.Close() }, nil
}
