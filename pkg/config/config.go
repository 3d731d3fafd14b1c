// Package config loads tablemap settings from TOML.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/tablemap/config.toml
//
// Every field has a default, so a missing file at the default location is
// not an error. Command-line flags override file values.
//
//	[canvas]
//	width = 1200
//	height = 800
//
//	[layout]
//	type = "tree"
//	mode = "auto"
//
//	[simulation]
//	link_distance = 100
//	charge = -300
//	collide_radius = 30
//	center_strength = 0.05
//	max_ticks = 600
//	seed = 1
//
//	[minimap]
//	width = 200
//	height = 150
//	visible = true
//
//	[explore]
//	fps = 30
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	apperrors "github.com/matzehuels/tablemap/pkg/errors"
	"github.com/matzehuels/tablemap/pkg/force"
	"github.com/matzehuels/tablemap/pkg/layout"
	"github.com/matzehuels/tablemap/pkg/viewport"
)

// MaxMinimapSide bounds each minimap side; the heatmap grid grows with the
// minimap area.
const MaxMinimapSide = 4096.0

// Canvas is the primary view size in pixels.
type Canvas struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Layout selects the hierarchy layout.
type Layout struct {
	Type string `toml:"type"`
	Mode string `toml:"mode"`
}

// Simulation tunes the relationship graph solver.
type Simulation struct {
	LinkDistance   float64 `toml:"link_distance"`
	Charge         float64 `toml:"charge"`
	CollideRadius  float64 `toml:"collide_radius"`
	CenterStrength float64 `toml:"center_strength"`
	MaxTicks       int     `toml:"max_ticks"`
	Seed           uint64  `toml:"seed"`
}

// Minimap sizes the overview.
type Minimap struct {
	Width   float64 `toml:"width"`
	Height  float64 `toml:"height"`
	Visible bool    `toml:"visible"`
}

// Explore configures the interactive explorer.
type Explore struct {
	FPS int `toml:"fps"`
}

// Config is the full configuration.
type Config struct {
	Canvas     Canvas     `toml:"canvas"`
	Layout     Layout     `toml:"layout"`
	Simulation Simulation `toml:"simulation"`
	Minimap    Minimap    `toml:"minimap"`
	Explore    Explore    `toml:"explore"`
}

// Default returns the built-in configuration.
func Default() Config {
	sim := force.DefaultConfig()
	return Config{
		Canvas: Canvas{Width: 1200, Height: 800},
		Layout: Layout{Type: string(layout.KindTree), Mode: string(layout.ModeAuto)},
		Simulation: Simulation{
			LinkDistance:   sim.LinkDistance,
			Charge:         sim.Charge,
			CollideRadius:  sim.CollideRadius,
			CenterStrength: sim.CenterStrength,
			MaxTicks:       600,
			Seed:           sim.Seed,
		},
		Minimap: Minimap{Width: viewport.DefaultMinimapWidth, Height: viewport.DefaultMinimapHeight, Visible: true},
		Explore: Explore{FPS: 30},
	}
}

// Dir returns the XDG config directory for tablemap.
func Dir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "tablemap")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "tablemap")
}

// Path returns the default config file path.
func Path() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.toml")
}

// Load reads path, or the default path when path is empty. A missing file
// at the default path yields Default(); a missing explicit path is an error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = Path()
		if path == "" {
			return Default(), nil
		}
	}
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if explicit {
				return cfg, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "config %s", path)
			}
			return cfg, nil
		}
		return cfg, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := apperrors.ValidateDimensions(c.Canvas.Width, c.Canvas.Height); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "[canvas]")
	}
	if _, err := layout.ParseMode(c.Layout.Mode); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "[layout] mode")
	}
	if c.Simulation.MaxTicks < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "[simulation] max_ticks must be >= 0, got %d", c.Simulation.MaxTicks)
	}
	if err := c.Force().Validate(); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "[simulation]")
	}
	if err := apperrors.ValidateDimensions(c.Minimap.Width, c.Minimap.Height); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "[minimap]")
	}
	if c.Minimap.Width > MaxMinimapSide || c.Minimap.Height > MaxMinimapSide {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "[minimap] sides must be at most %g, got %gx%g",
			MaxMinimapSide, c.Minimap.Width, c.Minimap.Height)
	}
	if c.Explore.FPS <= 0 || c.Explore.FPS > 240 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "[explore] fps must be in 1..240, got %d", c.Explore.FPS)
	}
	return nil
}

// Dimensions returns the canvas as layout dimensions.
func (c Config) Dimensions() layout.Dimensions {
	return layout.Dimensions{Width: c.Canvas.Width, Height: c.Canvas.Height}
}

// Force returns the solver configuration with the file's overrides applied.
func (c Config) Force() force.Config {
	f := force.DefaultConfig()
	f.LinkDistance = c.Simulation.LinkDistance
	f.Charge = c.Simulation.Charge
	f.CollideRadius = c.Simulation.CollideRadius
	f.CenterStrength = c.Simulation.CenterStrength
	f.Seed = c.Simulation.Seed
	return f
}
