// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Settings is the merged configuration of aacpbx.yaml, AACPBX_* variables
// and command line flags, in increasing order of precedence.
type Settings struct {
	Debug     bool   `mapstructure:"debug"`
	LogFormat string `mapstructure:"log_format"`

	Encoder struct {
		Bitrate int `mapstructure:"bitrate"`
		VBR     int `mapstructure:"vbr"`
	} `mapstructure:"encoder"`

	Decoder struct {
		ChunkSize int `mapstructure:"chunk_size"`
	} `mapstructure:"decoder"`

	HTTP struct {
		BufferSize int           `mapstructure:"buffer_size"`
		Timeout    time.Duration `mapstructure:"timeout"`
	} `mapstructure:"http"`

	Device struct {
		SampleRate int     `mapstructure:"sample_rate"`
		Channels   int     `mapstructure:"channels"`
		BufferSize int     `mapstructure:"buffer_size"`
		DAC        bool    `mapstructure:"dac"`
		Gain       float64 `mapstructure:"gain"`
		Offset     float64 `mapstructure:"offset"`
	} `mapstructure:"device"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("log_format", "text")
	v.SetDefault("encoder.bitrate", 0)
	v.SetDefault("encoder.vbr", 1)
	v.SetDefault("decoder.chunk_size", 256)
	v.SetDefault("http.buffer_size", 512)
	v.SetDefault("http.timeout", 0)
	v.SetDefault("device.sample_rate", 44100)
	v.SetDefault("device.channels", 2)
	v.SetDefault("device.buffer_size", 4096)
	v.SetDefault("device.dac", false)
	v.SetDefault("device.gain", 1.0)
	v.SetDefault("device.offset", 0.0)
}

// newViper returns a viper instance reading AACPBX_ variables, with dots in
// keys replaced by underscores.
func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("AACPBX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// loadSettings reads file, or aacpbx.yaml from the working directory and
// the user config directory when file is empty. A missing default file is
// not an error.
func loadSettings(v *viper.Viper, file string) (Settings, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("aacpbx")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/aacpbx")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("parse config: %w", err)
	}
	if s.Encoder.VBR < 0 || s.Encoder.VBR > 5 {
		return Settings{}, fmt.Errorf("%w: encoder.vbr %d", ErrInvalidSetting, s.Encoder.VBR)
	}
	return s, nil
}
