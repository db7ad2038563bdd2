// SPDX-License-Identifier: EPL-2.0

// Package cli implements the aacpbx command line.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ik5/aacpbx/codec"
	"github.com/ik5/aacpbx/codec/fdkaac"
	"github.com/ik5/aacpbx/device"
)

// App carries the configuration and the pluggable backends of a run.
type App struct {
	Settings Settings
	Log      *slog.Logger

	OpenDecoder codec.DecoderOpener
	OpenEncoder codec.EncoderOpener
	NewDriver   func(log *slog.Logger) device.Driver
	Client      *http.Client
	Stderr      io.Writer

	viper *viper.Viper
}

// NewApp returns an App using libfdk-aac and the miniaudio device.
func NewApp() *App {
	return &App{
		OpenDecoder: fdkaac.OpenDecoder,
		OpenEncoder: fdkaac.OpenEncoder,
		NewDriver:   func(l *slog.Logger) device.Driver { return device.NewMalgoDriver(l) },
		Client:      http.DefaultClient,
		Stderr:      os.Stderr,
		viper:       newViper(),
	}
}

// RootCommand builds the command tree.
func RootCommand(app *App) *cobra.Command {
	if app.viper == nil {
		app.viper = newViper()
	}
	var configFile string

	root := &cobra.Command{
		Use:           "aacpbx",
		Short:         "Encode, decode and stream AAC audio",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(app.viper, configFile)
			if err != nil {
				return err
			}
			app.Settings = s
			app.Log = newLogger(app.Stderr, s)
			slog.SetDefault(app.Log)
			app.Log.Debug("configuration loaded", "file", app.viper.ConfigFileUsed(), "command", cmd.Name())
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default ./aacpbx.yaml)")
	root.PersistentFlags().BoolP("debug", "d", false, "enable debug logging")
	root.PersistentFlags().String("log-format", "text", "log format: text or json")
	bindFlag(app.viper, root, "debug", "debug")
	bindFlag(app.viper, root, "log-format", "log_format")

	root.AddCommand(
		decodeCommand(app),
		encodeCommand(app),
		playCommand(app),
		sampleCommand(app),
	)
	return root
}

func newLogger(w io.Writer, s Settings) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if s.Debug {
		opts.Level = slog.LevelDebug
	}

	var h slog.Handler
	if s.LogFormat == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

// bindFlag ties the flag name of cmd to a configuration key. Only a flag
// set on the command line overrides the file and environment.
func bindFlag(v *viper.Viper, cmd *cobra.Command, name, key string) {
	f := cmd.Flags().Lookup(name)
	if f == nil {
		f = cmd.PersistentFlags().Lookup(name)
	}
	if err := v.BindPFlag(key, f); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", name, err))
	}
}

func (a *App) print(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
}
