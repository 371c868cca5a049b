package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wippyai/valuebox/errors"
	"github.com/wippyai/valuebox/pixel"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	require.Equal(t, defaultConfig(), cfg)
	require.Equal(t, pixel.DefaultOptions(), cfg.Pixel)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "valuebox.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[log]
level = "debug"
development = true

[pixel]
chunks = 4
`), 0o600))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Log.Level)
	require.True(t, cfg.Log.Development)
	require.Equal(t, 4, cfg.Pixel.Chunks)
	require.Equal(t, pixel.DefaultThreshold, cfg.Pixel.Threshold, "unset keys keep defaults")
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	require.Equal(t, errors.KindIO, errors.KindOf(err))
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "[log\nlevel = 1"},
		{"unknown key", "[pixel]\nworkers = 3"},
		{"bad level", "[log]\nlevel = \"loud\""},
		{"zero chunks", "[pixel]\nchunks = 0"},
		{"negative threshold", "[pixel]\nthreshold = -5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			err := parseConfig(tt.data, &cfg)
			require.Error(t, err)
			require.Equal(t, errors.KindInvalidInput, errors.KindOf(err))
		})
	}
}

func TestBuildLogger(t *testing.T) {
	for _, dev := range []bool{false, true} {
		log, err := LogConfig{Level: "info", Development: dev}.buildLogger()
		require.NoError(t, err)
		require.NotNil(t, log)
	}

	_, err := LogConfig{Level: "chatty"}.buildLogger()
	require.Error(t, err)
}
