// Package config loads the scene configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Scene   SceneConfig   `yaml:"scene"`
	Debug   DebugConfig   `yaml:"debug"`
	Logging LoggingConfig `yaml:"logging"`
	Prefabs PrefabsConfig `yaml:"prefabs"`
}

type WindowConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Title     string `yaml:"title"`
	Resizable bool   `yaml:"resizable"`
}

type SceneConfig struct {
	Map        string  `yaml:"map"`
	Atlas      string  `yaml:"atlas"`
	Background Color   `yaml:"background"`
	Zoom       float64 `yaml:"zoom"`
	ShowDebug  bool    `yaml:"show_debug"`
	ShowHelp   bool    `yaml:"show_help"`
}

type DebugConfig struct {
	CollidingTileColor Color   `yaml:"colliding_tile_color"`
	FaceColor          Color   `yaml:"face_color"`
	Alpha              float64 `yaml:"alpha"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

type PrefabsConfig struct {
	Watch bool   `yaml:"watch"`
	Dir   string `yaml:"dir"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:     800,
			Height:    600,
			Title:     "topdown",
			Resizable: true,
		},
		Scene: SceneConfig{
			Map:        "map",
			Atlas:      "atlas.json",
			Background: Color{NRGBA: color.NRGBA{R: 0xaa, G: 0xaa, B: 0xaa, A: 0xff}},
			Zoom:       1,
			ShowHelp:   true,
		},
		Debug: DebugConfig{
			CollidingTileColor: Color{NRGBA: color.NRGBA{R: 243, G: 134, B: 48, A: 255}},
			FaceColor:          Color{NRGBA: color.NRGBA{R: 40, G: 39, B: 37, A: 255}},
			Alpha:              0.75,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Prefabs: PrefabsConfig{
			Dir: "prefabs",
		},
	}
}

// Load reads path and merges it over Default. Keys missing from the file keep
// their default value. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid value.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Scene.Zoom <= 0 {
		errs = append(errs, fmt.Errorf("scene zoom %v must be positive", c.Scene.Zoom))
	}
	if c.Debug.Alpha < 0 || c.Debug.Alpha > 1 {
		errs = append(errs, fmt.Errorf("debug alpha %v must be within [0, 1]", c.Debug.Alpha))
	}
	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxBackups < 0 {
		errs = append(errs, errors.New("logging rotation limits must not be negative"))
	}
	return errors.Join(errs...)
}

// Overrides holds command line values. Nil fields leave the config alone.
type Overrides struct {
	Map       *string
	ShowDebug *bool
	Watch     *bool
	LogLevel  *string
	LogFile   *string
}

func (c *Config) Apply(o Overrides) {
	if o.Map != nil {
		c.Scene.Map = *o.Map
	}
	if o.ShowDebug != nil {
		c.Scene.ShowDebug = *o.ShowDebug
	}
	if o.Watch != nil {
		c.Prefabs.Watch = *o.Watch
	}
	if o.LogLevel != nil {
		c.Logging.Level = *o.LogLevel
	}
	if o.LogFile != nil {
		c.Logging.File = *o.LogFile
	}
}

// Color is an RGBA colour written as "#rrggbb" or "#rrggbbaa" in YAML.
type Color struct {
	color.NRGBA
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("colour must be a hex string: %w", err)
	}
	parsed, err := ParseHexColor(s)
	if err != nil {
		return err
	}
	c.NRGBA = parsed
	return nil
}

func (c Color) MarshalYAML() (any, error) {
	return c.Hex(), nil
}

// Hex formats the colour as "#rrggbb", adding the alpha byte when it is not
// opaque.
func (c Color) Hex() string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ParseHexColor parses "#rrggbb" or "#rrggbbaa"; the leading '#' is optional.
func ParseHexColor(v string) (color.NRGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(v), "#")
	if len(s) != 6 && len(s) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color format: %q", v)
	}
	parse := func(start int) (uint8, error) {
		n, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(n), err
	}
	r, err := parse(0)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parse red component: %w", err)
	}
	g, err := parse(2)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parse green component: %w", err)
	}
	b, err := parse(4)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parse blue component: %w", err)
	}
	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("parse alpha component: %w", err)
		}
	}
	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}
