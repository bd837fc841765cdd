// Package config loads recorder configuration from an optional config
// file and defaults, via viper.
package config

import (
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/Explosion-Scratch/whisper-mac/internal/capture"
)

// Config holds the recorder CLI configuration.
type Config struct {
	SampleRate   float64 `mapstructure:"samplerate"`
	BufferFrames int     `mapstructure:"bufferframes"`
	Output       string  `mapstructure:"output"`
	LogLevel     string  `mapstructure:"loglevel"`
	LogFile      string  `mapstructure:"logfile"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("samplerate", float64(capture.DefaultSampleRate))
	v.SetDefault("bufferframes", capture.DefaultBufferFrames)
	v.SetDefault("output", "recording.wav")
	v.SetDefault("loglevel", "info")
	v.SetDefault("logfile", "")
}

// Load reads configuration from path. An empty path, or a missing file
// at the given path, yields the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("no usable config file, using defaults", "path", path, "err", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the capture-facing fields against the engine ranges.
func (c *Config) Validate() error {
	if c.SampleRate < capture.MinSampleRate || c.SampleRate > capture.MaxSampleRate {
		return fmt.Errorf("samplerate %g outside [%d, %d]",
			c.SampleRate, capture.MinSampleRate, capture.MaxSampleRate)
	}
	if c.BufferFrames < capture.MinBufferFrames || c.BufferFrames > capture.MaxBufferFrames {
		return fmt.Errorf("bufferframes %d outside [%d, %d]",
			c.BufferFrames, capture.MinBufferFrames, capture.MaxBufferFrames)
	}
	if c.Output == "" {
		return fmt.Errorf("output path must not be empty")
	}
	return nil
}

// CaptureOptions converts the config into engine options.
func (c *Config) CaptureOptions() capture.Options {
	return capture.Options{
		SampleRate:   c.SampleRate,
		BufferFrames: c.BufferFrames,
	}
}
