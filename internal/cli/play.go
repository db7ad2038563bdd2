// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/ik5/aacpbx/aac"
	"github.com/ik5/aacpbx/codec"
	"github.com/ik5/aacpbx/device"
	"github.com/ik5/aacpbx/httpstream"
	"github.com/ik5/aacpbx/utils"
)

func playCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play URL",
		Short: "Stream ADTS audio from a URL to the sound card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.play(cmd.Context(), args[0])
		},
	}
	cmd.Flags().Int("http-buffer", 512, "read buffer size of the HTTP stream in bytes")
	cmd.Flags().Int("chunk-size", 256, "bytes handed to the decoder per fill")
	cmd.Flags().Bool("dac", false, "convert output for an 8-bit DAC")
	cmd.Flags().Float64("gain", 1, "scale applied to every output sample")
	cmd.Flags().Float64("offset", 0, "offset added to every output sample")
	bindFlag(app.viper, cmd, "http-buffer", "http.buffer_size")
	bindFlag(app.viper, cmd, "chunk-size", "decoder.chunk_size")
	bindFlag(app.viper, cmd, "dac", "device.dac")
	bindFlag(app.viper, cmd, "gain", "device.gain")
	bindFlag(app.viper, cmd, "offset", "device.offset")
	return cmd
}

// deviceConfig builds the device configuration for mode from the settings.
func (a *App) deviceConfig(mode device.Mode) device.Config {
	cfg := device.DefaultConfig()
	cfg.Mode = mode
	if a.Settings.Device.DAC && mode.Has(device.Transmit) {
		cfg.Mode |= device.BuiltInDAC
	}
	if a.Settings.Device.SampleRate > 0 {
		cfg.SampleRate = a.Settings.Device.SampleRate
	}
	if a.Settings.Device.Channels > 0 {
		cfg.Channels = a.Settings.Device.Channels
	}
	if a.Settings.Device.BufferSize > 0 {
		cfg.BufferSize = a.Settings.Device.BufferSize
	}
	return cfg
}

func (a *App) httpClient() *http.Client {
	c := a.Client
	if c == nil {
		c = http.DefaultClient
	}
	if a.Settings.HTTP.Timeout > 0 {
		cc := *c
		cc.Timeout = a.Settings.HTTP.Timeout
		c = &cc
	}
	return c
}

func (a *App) outputFilter() utils.Filter {
	return utils.Filter{
		Scale:  float32(a.Settings.Device.Gain),
		Offset: float32(a.Settings.Device.Offset),
	}
}

// play decodes url into the audio device. The device is started with the
// format of the first decoded frame.
func (a *App) play(ctx context.Context, url string) error {
	out := device.NewStream(a.NewDriver(a.Log), device.WithStreamLogger(a.Log))
	defer out.Close()

	var (
		started  bool
		startErr error
	)
	onInfo := func(info codec.StreamInfo) {
		if started {
			if err := out.SetAudioInfo(info.SampleRate, info.Channels, 16); err != nil {
				a.Log.Warn("change output format", "error", err)
			}
			return
		}
		cfg := a.deviceConfig(device.Transmit)
		cfg.SampleRate = info.SampleRate
		cfg.Channels = info.Channels
		startErr = out.Begin(cfg)
		started = startErr == nil
	}

	var sink io.Writer = out
	if f := a.outputFilter(); !f.IsIdentity() {
		a.Log.Debug("output filter", "scale", f.Scale, "offset", f.Offset)
		sink = device.NewFilterWriter(out, f)
	}

	dec := aac.NewDecoder(a.OpenDecoder,
		aac.WithOutput(sink),
		aac.WithInfoHandler(aac.InfoHandlerFunc(onInfo)),
		aac.WithChunkSize(a.Settings.Decoder.ChunkSize),
		aac.WithDecoderLogger(a.Log))
	if err := dec.Begin(codec.TransportADTS, 1); err != nil {
		return err
	}
	defer dec.End()

	in := httpstream.New(
		httpstream.WithClient(a.httpClient()),
		httpstream.WithBufferSize(a.Settings.HTTP.BufferSize),
		httpstream.WithLogger(a.Log))
	if err := in.Open(ctx, url); err != nil {
		return err
	}
	defer in.Close()

	copier := device.NewCopier(dec, in, a.Settings.HTTP.BufferSize)
	for ctx.Err() == nil {
		n, err := copier.Copy()
		if startErr != nil {
			return fmt.Errorf("start output: %w", startErr)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if n == 0 {
			// blocks until the body has more bytes
			if _, err := in.Peek(); errors.Is(err, io.EOF) {
				break
			} else if err != nil {
				return err
			}
		}
	}
	if !started {
		return ErrNothingDecoded
	}
	info := dec.StreamInfo()
	a.Log.Info("stream finished", "url", url, "sample_rate", info.SampleRate, "channels", info.Channels)
	return out.Close()
}
