package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name       string
		createFile bool
		content    string
		wantErr    bool
		validate   func(t *testing.T, cfg *Config)
	}{
		{
			name:       "partial_file_keeps_defaults",
			createFile: true,
			content: `window:
  title: "home"
scene:
  map: "cave"
  background: "#102030"
logging:
  level: "debug"
`,
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Window.Title != "home" {
					t.Errorf("Window.Title = %q", cfg.Window.Title)
				}
				if cfg.Window.Width != 800 || cfg.Window.Height != 600 {
					t.Errorf("window size lost defaults: %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
				if cfg.Scene.Map != "cave" {
					t.Errorf("Scene.Map = %q", cfg.Scene.Map)
				}
				if cfg.Scene.Background.NRGBA != (color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}) {
					t.Errorf("Scene.Background = %v", cfg.Scene.Background)
				}
				if cfg.Debug.Alpha != 0.75 {
					t.Errorf("Debug.Alpha = %v", cfg.Debug.Alpha)
				}
				if cfg.Logging.Level != "debug" {
					t.Errorf("Logging.Level = %q", cfg.Logging.Level)
				}
			},
		},
		{
			name:       "empty_file_is_default",
			createFile: true,
			content:    "",
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Scene.Background.Hex() != "#aaaaaa" {
					t.Errorf("background = %s", cfg.Scene.Background.Hex())
				}
				if cfg.Debug.CollidingTileColor.Hex() != "#f38630" {
					t.Errorf("colliding tile colour = %s", cfg.Debug.CollidingTileColor.Hex())
				}
			},
		},
		{
			name:       "missing_file",
			createFile: false,
			wantErr:    true,
		},
		{
			name:       "bad_colour",
			createFile: true,
			content:    "debug:\n  face_color: \"#12\"\n",
			wantErr:    true,
		},
		{
			name:       "invalid_values",
			createFile: true,
			content:    "window:\n  width: 0\ndebug:\n  alpha: 2\n",
			wantErr:    true,
		},
		{
			name:       "bad_yaml",
			createFile: true,
			content:    "window: [",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if tt.createFile {
				if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
					t.Fatalf("write config: %v", err)
				}
			}
			cfg, err := Load(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !strings.Contains(err.Error(), "config") {
					t.Errorf("error %q is not prefixed", err)
				}
				return
			}
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestApply(t *testing.T) {
	cfg := Default()
	mapName := "forest"
	debug := true
	level := "warn"
	cfg.Apply(Overrides{Map: &mapName, ShowDebug: &debug, LogLevel: &level})

	if cfg.Scene.Map != "forest" || !cfg.Scene.ShowDebug || cfg.Logging.Level != "warn" {
		t.Fatalf("overrides not applied: %+v", cfg.Scene)
	}
	if cfg.Prefabs.Watch {
		t.Fatalf("unset override changed Prefabs.Watch")
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#aaaaaa", color.NRGBA{R: 0xaa, G: 0xaa, B: 0xaa, A: 0xff}, false},
		{"f38630", color.NRGBA{R: 243, G: 134, B: 48, A: 255}, false},
		{"#28272580", color.NRGBA{R: 40, G: 39, B: 37, A: 0x80}, false},
		{"#zz0000", color.NRGBA{}, true},
		{"#fff", color.NRGBA{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHexColor(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestColorHexRoundTrip(t *testing.T) {
	c := Color{NRGBA: color.NRGBA{R: 1, G: 2, B: 3, A: 4}}
	if c.Hex() != "#01020304" {
		t.Fatalf("Hex = %s", c.Hex())
	}
}
