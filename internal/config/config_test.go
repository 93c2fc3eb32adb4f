package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Window.Height)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}

	if cfg.Map.Zoom != 16 {
		t.Errorf("expected zoom 16, got %f", cfg.Map.Zoom)
	}
	if cfg.Map.PitchDeg != 45 {
		t.Errorf("expected pitch 45, got %f", cfg.Map.PitchDeg)
	}

	if !cfg.Shadows.Enabled {
		t.Error("expected shadows enabled by default")
	}
	if cfg.Shadows.Quality != "medium" {
		t.Errorf("expected quality 'medium', got %s", cfg.Shadows.Quality)
	}
	if !cfg.Shadows.Trees || !cfg.Shadows.Buildings {
		t.Error("expected tree and building shadows enabled by default")
	}
	if cfg.Shadows.MinZoom != 14 {
		t.Errorf("expected min zoom 14, got %f", cfg.Shadows.MinZoom)
	}

	if cfg.Data.Source != "synthetic" {
		t.Errorf("expected data source 'synthetic', got %s", cfg.Data.Source)
	}
	if cfg.Data.FetchTimeout != 10*time.Second {
		t.Errorf("expected fetch timeout 10s, got %v", cfg.Data.FetchTimeout)
	}

	if cfg.Light.Mode != "now" {
		t.Errorf("expected light mode 'now', got %s", cfg.Light.Mode)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Metrics.ListenAddr != "" {
		t.Errorf("expected metrics disabled by default, got %s", cfg.Metrics.ListenAddr)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	yaml := `
window:
  width: 1920
  height: 1080
map:
  center_lon: -0.1276
  center_lat: 51.5072
  zoom: 17.5
shadows:
  quality: ultra
  buildings: false
  max_entities: 800
data:
  source: http
  base_url: https://trees.example.org
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}

	if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 {
		t.Errorf("window size not applied: %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Map.CenterLat != 51.5072 {
		t.Errorf("center lat not applied: %f", cfg.Map.CenterLat)
	}
	if cfg.Map.Zoom != 17.5 {
		t.Errorf("zoom not applied: %f", cfg.Map.Zoom)
	}
	if cfg.Shadows.Quality != "ultra" {
		t.Errorf("quality not applied: %s", cfg.Shadows.Quality)
	}
	if cfg.Shadows.Buildings {
		t.Error("buildings toggle not applied")
	}
	if cfg.Shadows.MaxEntities != 800 {
		t.Errorf("max entities not applied: %d", cfg.Shadows.MaxEntities)
	}
	if cfg.Data.Source != "http" || cfg.Data.BaseURL != "https://trees.example.org" {
		t.Errorf("data source not applied: %s %s", cfg.Data.Source, cfg.Data.BaseURL)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level not applied: %s", cfg.Logging.Level)
	}

	// Values absent from the file keep their defaults.
	if !cfg.Shadows.Trees {
		t.Error("tree toggle should keep its default")
	}
	if cfg.Data.FetchTimeout != 10*time.Second {
		t.Errorf("fetch timeout should keep its default, got %v", cfg.Data.FetchTimeout)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("shadows: [not a map"), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, path); err == nil {
		t.Error("expected error for invalid yaml")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Shadows.Quality = "high"
	cfg.Map.Zoom = 15.25

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reloading: %v", err)
	}

	if loaded.Shadows.Quality != "high" {
		t.Errorf("quality not round-tripped: %s", loaded.Shadows.Quality)
	}
	if loaded.Map.Zoom != 15.25 {
		t.Errorf("zoom not round-tripped: %f", loaded.Map.Zoom)
	}
}
