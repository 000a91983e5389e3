package config

import (
	"fmt"
	"image/color"

	"github.com/BurntSushi/toml"
)

const (
	WindowWidth  = 1280
	WindowHeight = 800

	// Audio level meter
	VisualRingSize  = 8192
	LevelWindow     = 2048
	SmoothingFactor = 0.6

	// Editor panel
	PanelX      = 0
	PanelY      = 0
	PanelWidth  = 360
	StatusY     = 12
	MeterWidth  = 120
	MeterHeight = 8

	// Slider bounds for the editor widgets
	MaxParticles     = 1000
	MaxDuration      = 30
	MaxLifetime      = 20
	MaxRadius        = 400
	MaxSize          = 10
	MaxRotation      = 360
	MaxRotationSpeed = 720
	MaxVelocity      = 500
	MaxForce         = 500
	MaxTorque        = 720

	AppName = "particle_editor"
)

// App holds the settings read from the optional TOML file given with
// -config. Fields left out of the file keep their defaults.
type App struct {
	WindowWidth  int
	WindowHeight int
	TPS          int
	PanelWidth   int

	// Background is an RGB triple, 0..255 each.
	Background [3]uint8

	// DefaultTexture is loaded for presets without a texture; empty means
	// the built-in dot.
	DefaultTexture string
}

func Default() *App {
	return &App{
		WindowWidth:  WindowWidth,
		WindowHeight: WindowHeight,
		TPS:          60,
		PanelWidth:   PanelWidth,
		Background:   [3]uint8{16, 18, 24},
	}
}

// Load parses the TOML file at path over the defaults. An empty path
// returns the defaults.
func Load(path string) (*App, error) {
	conf := Default()
	if path == "" {
		return conf, nil
	}
	if _, err := toml.DecodeFile(path, conf); err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	if conf.WindowWidth <= 0 || conf.WindowHeight <= 0 {
		return nil, fmt.Errorf("config %q: window size must be positive, got %dx%d",
			path, conf.WindowWidth, conf.WindowHeight)
	}
	if conf.TPS <= 0 {
		conf.TPS = 60
	}
	if conf.PanelWidth <= 0 || conf.PanelWidth > conf.WindowWidth {
		conf.PanelWidth = min(PanelWidth, conf.WindowWidth)
	}
	return conf, nil
}

func (a *App) BackgroundColor() color.RGBA {
	return color.RGBA{R: a.Background[0], G: a.Background[1], B: a.Background[2], A: 255}
}
