// Package config loads the citescope TOML configuration. Every field has
// a working default; a missing config file is not an error, and CLI flags
// override whatever the file provides.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/citescope/citescope/pkg/errors"
)

// Config is the on-disk configuration.
type Config struct {
	Canvas CanvasConfig `toml:"canvas"`
	Layout LayoutConfig `toml:"layout"`
	Viewer ViewerConfig `toml:"viewer"`
	Theme  ThemeConfig  `toml:"theme"`
	Cache  CacheConfig  `toml:"cache"`
}

// CanvasConfig sets the world canvas the layout engine targets.
type CanvasConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	Margin float64 `toml:"margin"`
}

// LayoutConfig sets the relaxation budget.
type LayoutConfig struct {
	Iterations      int `toml:"iterations"`
	CollisionPasses int `toml:"collision_passes"`
}

// ViewerConfig sets interactive-shell behavior. MinZoom/MaxZoom are the
// usability bounds applied at the input layer; the viewport transform
// itself stays unbounded.
type ViewerConfig struct {
	ZoomStep  float64 `toml:"zoom_step"`
	MinZoom   float64 `toml:"min_zoom"`
	MaxZoom   float64 `toml:"max_zoom"`
	ExportDir string  `toml:"export_dir"`
}

// ThemeConfig overrides individual palette colors. Values are CSS-style
// hex strings (#rrggbb or #rrggbbaa); node keys are type names
// (paper, author, venue, field, reference, unknown). Empty values keep
// the built-in dark palette.
type ThemeConfig struct {
	Background string            `toml:"background"`
	Edge       string            `toml:"edge"`
	Node       map[string]string `toml:"node"`
}

// CacheConfig selects the layout cache backend.
type CacheConfig struct {
	Backend   string `toml:"backend"` // "file", "redis", or "none"
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Canvas: CanvasConfig{Width: 1280, Height: 800, Margin: 50},
		Layout: LayoutConfig{Iterations: 300, CollisionPasses: 8},
		Viewer: ViewerConfig{ZoomStep: 1.1, MinZoom: 0.05, MaxZoom: 20, ExportDir: "."},
		Cache:  CacheConfig{Backend: "file", RedisAddr: "localhost:6379"},
	}
}

// DefaultPath returns the standard config location,
// ~/.config/citescope/config.toml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "citescope", "config.toml")
}

// DefaultCacheDir returns the standard layout cache directory.
func DefaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".citescope-cache"
	}
	return filepath.Join(home, ".cache", "citescope")
}

// Load reads the config at path, falling back to [DefaultPath] when path
// is empty. A missing file yields the defaults; a malformed file is an
// INVALID_CONFIG error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return cfg, errors.New(errors.ErrCodeFileNotFound, "config file %s does not exist", path)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Default(), errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := cfg.validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case "file", "redis", "none":
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"cache backend %q is not one of file, redis, none", c.Cache.Backend)
	}
	if c.Viewer.ZoomStep <= 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "viewer zoom_step must be > 1")
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas dimensions must be positive")
	}
	return nil
}

// CacheDir returns the configured cache directory or the default.
func (c Config) CacheDir() string {
	if c.Cache.Dir != "" {
		return c.Cache.Dir
	}
	return DefaultCacheDir()
}
