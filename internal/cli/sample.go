// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"context"
	"encoding/binary"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ik5/aacpbx/device"
	"github.com/ik5/aacpbx/formats/wav"
)

const collectInterval = 50 * time.Millisecond

func sampleCommand(app *App) *cobra.Command {
	var (
		duration time.Duration
		rate     int
	)

	cmd := &cobra.Command{
		Use:   "sample OUTPUT.wav",
		Short: "Sample the capture device at a fixed rate into a mono WAV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			samples, err := app.sample(cmd.Context(), rate, duration)
			if err != nil {
				return err
			}

			out, err := os.Create(args[0])
			if err != nil {
				return err
			}
			defer out.Close()
			if err := wav.WriteInt16(out, rate, 1, samples); err != nil {
				return err
			}
			app.print(cmd, "%s: %d samples at %d Hz", args[0], len(samples), rate)
			return out.Close()
		},
	}
	cmd.Flags().DurationVar(&duration, "duration", 5*time.Second, "how long to sample")
	cmd.Flags().IntVar(&rate, "rate", 8000, "sampling rate in Hz")
	return cmd
}

// sample reads one mono sample per tick from the capture device. A tick
// with no captured data repeats the previous value.
func (a *App) sample(ctx context.Context, rate int, d time.Duration) ([]int16, error) {
	cfg := a.deviceConfig(device.Receive)
	cfg.SampleRate = rate
	cfg.Channels = 1
	// Available must return within a sampling period
	cfg.PollTimeout = max(time.Second/time.Duration(max(rate, 1))/2, time.Microsecond)

	in := device.NewStream(a.NewDriver(a.Log), device.WithStreamLogger(a.Log))
	if err := in.Begin(cfg); err != nil {
		return nil, err
	}
	defer in.Close()

	var (
		last int16
		b    [2]byte
	)
	read := func() int16 {
		if in.Available() >= 2 {
			if _, err := io.ReadFull(in, b[:]); err == nil {
				last = int16(binary.LittleEndian.Uint16(b[:]))
			}
		}
		return last
	}

	s := device.NewSampler(rate, max(rate/10, 64), read, device.WithRing())
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	if err := s.Begin(ctx); err != nil {
		return nil, err
	}

	var samples []int16
	t := time.NewTicker(collectInterval)
	defer t.Stop()
	for done := false; !done; {
		select {
		case <-ctx.Done():
			done = true
		case <-t.C:
		}
		samples = append(samples, s.Read()...)
	}
	s.End()
	samples = append(samples, s.Read()...)

	if n := s.Overruns(); n > 0 {
		a.Log.Warn("samples dropped", "overruns", n)
	}
	return samples, nil
}
