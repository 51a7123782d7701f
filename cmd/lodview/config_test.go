package main

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taigrr/lodviz/pkg/render"
)

func parse(t *testing.T, args ...string) (Config, error) {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return ParseConfig(fs, args)
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parse(t)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestParseConfigFileAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lodview.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
fps = 12
grid = 2
mode = "quality"
live_update = false
lod_bias = 2.0
`), 0o644))

	cfg, err := parse(t, "-config", path, "-grid", "6")
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.FPS, "from file")
	assert.Equal(t, "quality", cfg.Mode)
	assert.False(t, cfg.LiveUpdate)
	assert.Equal(t, 2.0, cfg.LODBias)
	assert.Equal(t, 6, cfg.Grid, "flag wins over file")
	assert.Equal(t, "30,30,40", cfg.Background, "default kept")
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad mode", []string{"-mode", "turbo"}},
		{"zero fps", []string{"-fps", "0"}},
		{"bad bias", []string{"-bias", "0"}},
		{"bad background", []string{"-bg", "red"}},
		{"missing config", []string{"-config", "/nonexistent/lodview.toml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestParseRGB(t *testing.T) {
	c, err := parseRGB(" 10,20,30 ")
	require.NoError(t, err)
	assert.Equal(t, render.RGB(10, 20, 30), c)

	_, err = parseRGB("10,20,300")
	assert.Error(t, err)
}
