// Package config holds quietcut's tunables: defaults, an optional TOML file,
// and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/BurntSushi/toml"
	"github.com/linuxmatters/quietcut/internal/silence"
)

// Config is the full option set for a run.
type Config struct {
	// Threshold aggressiveness: the percentile of positive samples below
	// which audio counts as silent.
	Percentile int `toml:"percentile"`

	// Minimum length of a quiet run to cut, in seconds.
	MinSilence float64 `toml:"min_silence"`

	// Audio retained at each edge of a cut, in seconds.
	Margin float64 `toml:"margin"`

	// Concurrent ffmpeg clip cuts for video output.
	Workers int `toml:"workers"`

	// ffmpeg binary; bare names are looked up on $PATH.
	FFmpeg string `toml:"ffmpeg"`

	// Extra ffmpeg arguments used when re-encoding video clips.
	ClipArgs []string `toml:"clip_args"`

	// Parent directory for the temporary workspace (system default if empty).
	TempDir string `toml:"temp_dir"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		Percentile: 85,
		MinSilence: 0.4,
		Margin:     0.15,
		Workers:    runtime.NumCPU(),
		FFmpeg:     "ffmpeg",
	}
}

// Load reads a TOML file over the defaults. Keys missing from the file keep
// their default values; unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key %q in %s: %w", undecoded[0].String(), path, silence.ErrInvalidConfiguration)
	}
	return cfg, nil
}

// Params returns the detection parameters.
func (c *Config) Params() silence.Params {
	return silence.Params{
		Percentile: c.Percentile,
		MinSilence: c.MinSilence,
		Margin:     c.Margin,
	}
}

// Validate checks every field, joining all problems into one error that
// matches silence.ErrInvalidConfiguration.
func (c *Config) Validate() error {
	var errs []error
	if c.Percentile < 0 || c.Percentile > 100 {
		errs = append(errs, fmt.Errorf("percentile %d outside [0,100]", c.Percentile))
	}
	if c.MinSilence <= 0 {
		errs = append(errs, fmt.Errorf("min_silence %gs must be positive", c.MinSilence))
	}
	if c.Margin < 0 {
		errs = append(errs, fmt.Errorf("margin %gs must not be negative", c.Margin))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers %d must be at least 1", c.Workers))
	}
	if c.FFmpeg == "" {
		errs = append(errs, errors.New("ffmpeg binary must be set"))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", silence.ErrInvalidConfiguration, errors.Join(errs...))
}
