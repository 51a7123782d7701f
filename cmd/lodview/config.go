package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/taigrr/lodviz/pkg/coloration"
	"github.com/taigrr/lodviz/pkg/render"
)

// Config holds the viewer options. A TOML file may set any field; flags
// given on the command line take precedence.
type Config struct {
	FPS        int     `toml:"fps"`
	Background string  `toml:"background"`
	Settings   string  `toml:"settings"`    // SQLite prefs path, empty for in-memory
	Grid       int     `toml:"grid"`        // Demo groups per axis
	Mode       string  `toml:"mode"`        // Overrides the stored mode when set
	LiveUpdate bool    `toml:"live_update"` // Regenerate on structural changes
	LODBias    float64 `toml:"lod_bias"`
	Log        string  `toml:"log"`      // Log file, empty to discard
	Snapshot   string  `toml:"snapshot"` // Render one LOD Coloration frame to this PNG and exit

	ListShaders bool `toml:"-"`
}

// DefaultConfig returns the built-in options.
func DefaultConfig() Config {
	return Config{
		FPS:        30,
		Background: "30,30,40",
		Grid:       4,
		LiveUpdate: true,
		LODBias:    1,
	}
}

// LoadConfigFile overlays the TOML file at path on cfg.
func LoadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// bindFlags registers flags writing into cfg.
func bindFlags(fs *flag.FlagSet, cfg *Config) {
	fs.IntVar(&cfg.FPS, "fps", cfg.FPS, "Target FPS")
	fs.StringVar(&cfg.Background, "bg", cfg.Background, "Background color (R,G,B)")
	fs.StringVar(&cfg.Settings, "settings", cfg.Settings, "Settings database path (default in-memory)")
	fs.IntVar(&cfg.Grid, "grid", cfg.Grid, "Demo LOD groups per axis")
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "Coloration mode: performance, quality or safe")
	fs.BoolVar(&cfg.LiveUpdate, "live", cfg.LiveUpdate, "Regenerate when the scene hierarchy changes")
	fs.Float64Var(&cfg.LODBias, "bias", cfg.LODBias, "LOD bias")
	fs.StringVar(&cfg.Log, "log", cfg.Log, "Log file")
	fs.StringVar(&cfg.Snapshot, "snapshot", cfg.Snapshot, "Write one LOD Coloration frame to a PNG and exit")
	fs.BoolVar(&cfg.ListShaders, "shaders", cfg.ListShaders, "List the available shaders and exit")
}

// ParseConfig parses args. Defaults come first, then the -config file,
// then every flag explicitly set in args.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	flags := DefaultConfig()
	bindFlags(fs, &flags)
	configPath := fs.String("config", "", "TOML config file")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := DefaultConfig()
	if *configPath != "" {
		if err := LoadConfigFile(*configPath, &cfg); err != nil {
			return Config{}, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "fps":
			cfg.FPS = flags.FPS
		case "bg":
			cfg.Background = flags.Background
		case "settings":
			cfg.Settings = flags.Settings
		case "grid":
			cfg.Grid = flags.Grid
		case "mode":
			cfg.Mode = flags.Mode
		case "live":
			cfg.LiveUpdate = flags.LiveUpdate
		case "bias":
			cfg.LODBias = flags.LODBias
		case "log":
			cfg.Log = flags.Log
		case "snapshot":
			cfg.Snapshot = flags.Snapshot
		case "shaders":
			cfg.ListShaders = flags.ListShaders
		}
	})
	return cfg, cfg.Validate()
}

// Validate checks ranges and that Mode, if set, names a mode.
func (c Config) Validate() error {
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	if c.Grid < 0 {
		return fmt.Errorf("grid must not be negative, got %d", c.Grid)
	}
	if !(c.LODBias > 0) {
		return fmt.Errorf("lod bias must be positive, got %v", c.LODBias)
	}
	if c.Mode != "" {
		if _, err := coloration.ParseMode(c.Mode); err != nil {
			return err
		}
	}
	if _, err := parseRGB(c.Background); err != nil {
		return err
	}
	return nil
}

// parseRGB parses "R,G,B".
func parseRGB(s string) (render.Color, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d,%d,%d", &r, &g, &b); err != nil {
		return render.Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return render.RGB(r, g, b), nil
}
