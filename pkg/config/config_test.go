package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/citescope/citescope/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Canvas.Width != 1280 || cfg.Canvas.Height != 800 || cfg.Canvas.Margin != 50 {
		t.Errorf("canvas defaults = %+v", cfg.Canvas)
	}
	if cfg.Layout.Iterations != 300 || cfg.Layout.CollisionPasses != 8 {
		t.Errorf("layout defaults = %+v", cfg.Layout)
	}
	if cfg.Viewer.ZoomStep != 1.1 || cfg.Viewer.MinZoom != 0.05 || cfg.Viewer.MaxZoom != 20 {
		t.Errorf("viewer defaults = %+v", cfg.Viewer)
	}
	if cfg.Cache.Backend != "file" {
		t.Errorf("cache backend default = %q", cfg.Cache.Backend)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[canvas]
width = 1920
height = 1080

[layout]
iterations = 500

[viewer]
zoom_step = 1.25
export_dir = "/tmp/shots"

[theme]
background = "#0b0b14"

[theme.node]
paper = "#ff79c6"

[cache]
backend = "redis"
redis_addr = "cache.internal:6379"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Canvas.Width != 1920 || cfg.Canvas.Height != 1080 {
		t.Errorf("canvas = %+v", cfg.Canvas)
	}
	if cfg.Layout.Iterations != 500 {
		t.Errorf("iterations = %d", cfg.Layout.Iterations)
	}
	// Unset fields keep their defaults.
	if cfg.Layout.CollisionPasses != 8 {
		t.Errorf("collision_passes = %d, want default 8", cfg.Layout.CollisionPasses)
	}
	if cfg.Viewer.ZoomStep != 1.25 || cfg.Viewer.ExportDir != "/tmp/shots" {
		t.Errorf("viewer = %+v", cfg.Viewer)
	}
	if cfg.Theme.Background != "#0b0b14" || cfg.Theme.Node["paper"] != "#ff79c6" {
		t.Errorf("theme = %+v", cfg.Theme)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisAddr != "cache.internal:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeConfig(t, "[canvas\nwidth = ")
	_, err := Load(path)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults pass", func(c *Config) {}, false},
		{"bad backend", func(c *Config) { c.Cache.Backend = "memcached" }, true},
		{"zoom step at one", func(c *Config) { c.Viewer.ZoomStep = 1 }, true},
		{"zero width", func(c *Config) { c.Canvas.Width = 0 }, true},
		{"none backend", func(c *Config) { c.Cache.Backend = "none" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCacheDir(t *testing.T) {
	cfg := Default()
	cfg.Cache.Dir = "/custom/cache"
	if cfg.CacheDir() != "/custom/cache" {
		t.Errorf("CacheDir = %q", cfg.CacheDir())
	}
	cfg.Cache.Dir = ""
	if cfg.CacheDir() == "" {
		t.Error("CacheDir default should not be empty")
	}
}
