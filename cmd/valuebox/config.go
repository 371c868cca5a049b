package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/valuebox/errors"
	"github.com/wippyai/valuebox/pixel"
)

// Config is the optional TOML configuration file.
//
//	[log]
//	level = "debug"
//	development = true
//
//	[pixel]
//	threshold = 512
//	chunks = 16
type Config struct {
	Log   LogConfig     `toml:"log"`
	Pixel pixel.Options `toml:"pixel"`
}

// LogConfig selects the zap logger the tool installs.
type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

func defaultConfig() Config {
	return Config{
		Log:   LogConfig{Level: "warn"},
		Pixel: pixel.DefaultOptions(),
	}
}

// loadConfig reads path over the defaults. An empty path yields the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.IO(errors.PhaseConfig, "read "+path, err)
	}
	if err := parseConfig(string(data), &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parseConfig(data string, cfg *Config) error {
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "decode TOML")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.InvalidInput(errors.PhaseConfig, "unknown keys: "+strings.Join(keys, ", "))
	}
	return cfg.Validate()
}

// Validate checks every section.
func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, fmt.Sprintf("log level %q", c.Log.Level))
	}
	return c.Pixel.Validate()
}

// buildLogger creates the logger described by c.
func (c LogConfig) buildLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, fmt.Sprintf("log level %q", c.Level))
	}

	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}
