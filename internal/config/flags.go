package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagWidth       = flag.Int("width", 0, "Window width")
	flagHeight      = flag.Int("height", 0, "Window height")
	flagFullscreen  = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWindowed    = flag.Bool("windowed", false, "Run in windowed mode")
	flagQuality     = flag.String("quality", "", "Shadow quality preset (low, medium, high, ultra)")
	flagNoShadows   = flag.Bool("no-shadows", false, "Disable the shadow layer")
	flagDataURL     = flag.String("data-url", "", "Base URL of the tree/building data service")
	flagCatalog     = flag.String("catalog", "", "GeoJSON catalog for the synthetic data source")
	flagMetrics     = flag.String("metrics", "", "Prometheus listen address (e.g. :9090)")
	flagWriteConfig = flag.Bool("write-config", false, "Write the effective config to the user config dir and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// WriteConfigRequested reports whether --write-config was passed.
func WriteConfigRequested() bool {
	return *flagWriteConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagQuality != "" {
		cfg.Shadows.Quality = *flagQuality
	}
	if *flagNoShadows {
		cfg.Shadows.Enabled = false
	}
	if *flagDataURL != "" {
		cfg.Data.Source = "http"
		cfg.Data.BaseURL = *flagDataURL
	}
	if *flagCatalog != "" {
		cfg.Data.Source = "synthetic"
		cfg.Data.CatalogPath = *flagCatalog
	}
	if *flagMetrics != "" {
		cfg.Metrics.ListenAddr = *flagMetrics
	}
}
