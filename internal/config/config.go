// Package config handles viewer configuration loading and management.
package config

import "time"

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Map     MapConfig     `yaml:"map"`
	Shadows ShadowsConfig `yaml:"shadows"`
	Data    DataConfig    `yaml:"data"`
	Light   LightConfig   `yaml:"light"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// MapConfig holds the starting camera pose.
type MapConfig struct {
	CenterLon  float64 `yaml:"center_lon"`
	CenterLat  float64 `yaml:"center_lat"`
	Zoom       float64 `yaml:"zoom"`
	PitchDeg   float64 `yaml:"pitch_deg"`
	BearingDeg float64 `yaml:"bearing_deg"`
}

// ShadowsConfig holds shadow pipeline settings.
type ShadowsConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Quality     string  `yaml:"quality"` // low, medium, high, ultra
	Trees       bool    `yaml:"trees"`
	Buildings   bool    `yaml:"buildings"`
	MaxEntities int     `yaml:"max_entities"` // ceiling on top of the zoom-tiered budget
	MinZoom     float64 `yaml:"min_zoom"`     // below this zoom no geometry is loaded
}

// DataConfig holds the tree/building record source settings.
type DataConfig struct {
	Source       string        `yaml:"source"` // synthetic or http
	BaseURL      string        `yaml:"base_url"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	CatalogPath  string        `yaml:"catalog_path"` // GeoJSON file for the synthetic source
}

// LightConfig holds the sun light settings.
type LightConfig struct {
	Mode             string `yaml:"mode"`               // now, fixed, timelapse
	FixedTime        string `yaml:"fixed_time"`         // RFC3339, used when mode is fixed
	TimelapseDaySecs int    `yaml:"timelapse_day_secs"` // seconds per simulated day
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	ListenAddr string `yaml:"listen_addr"` // empty disables the endpoint
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
// The default camera starts over central Berlin.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Map: MapConfig{
			CenterLon:  13.4050,
			CenterLat:  52.5200,
			Zoom:       16,
			PitchDeg:   45,
			BearingDeg: 0,
		},
		Shadows: ShadowsConfig{
			Enabled:     true,
			Quality:     "medium",
			Trees:       true,
			Buildings:   true,
			MaxEntities: 4000,
			MinZoom:     14,
		},
		Data: DataConfig{
			Source:       "synthetic",
			BaseURL:      "",
			FetchTimeout: 10 * time.Second,
			CatalogPath:  "",
		},
		Light: LightConfig{
			Mode:             "now",
			FixedTime:        "",
			TimelapseDaySecs: 60,
		},
		Metrics: MetricsConfig{
			ListenAddr: "",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
