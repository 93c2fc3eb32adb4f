// Package main is the entry point for the shadowcast viewer.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/urbancanopy/shadowcast/internal/config"
	"github.com/urbancanopy/shadowcast/internal/logger"
	"github.com/urbancanopy/shadowcast/internal/maphost"
	"github.com/urbancanopy/shadowcast/internal/mapview"
	"github.com/urbancanopy/shadowcast/internal/metrics"
	"github.com/urbancanopy/shadowcast/internal/shadowlayer"
	"github.com/urbancanopy/shadowcast/internal/treedata"
)

func main() {
	// Optional .env for local overrides (API keys and the like).
	godotenv.Load()

	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Shadowcast Viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if config.WriteConfigRequested() {
		if err := cfg.Save(); err != nil {
			logger.Error("failed to write config", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("config written", zap.String("dir", config.ConfigDir()))
		return
	}

	if cfg.Metrics.ListenAddr != "" {
		go serveMetrics(cfg.Metrics.ListenAddr)
	}

	source, err := buildSource(cfg)
	if err != nil {
		logger.Error("failed to set up data source", zap.Error(err))
		os.Exit(1)
	}

	now, err := buildClock(cfg.Light)
	if err != nil {
		logger.Error("invalid light settings", zap.Error(err))
		os.Exit(1)
	}

	quality, err := shadowlayer.ParseQuality(cfg.Shadows.Quality)
	if err != nil {
		logger.Error("invalid shadow quality", zap.Error(err))
		os.Exit(1)
	}

	var layer maphost.Layer = shadowlayer.New(shadowlayer.Options{
		Source:      source,
		Quality:     quality,
		Trees:       cfg.Shadows.Trees,
		Buildings:   cfg.Shadows.Buildings,
		MaxEntities: cfg.Shadows.MaxEntities,
		MinZoom:     cfg.Shadows.MinZoom,
		DrawSolids:  true,
		Now:         now,
		OnEvent:     logEvent,
	})

	if !cfg.Shadows.Enabled {
		logger.Info("shadow layer disabled by configuration")
		layer = nopLayer{}
	}

	if err := mapview.Run(cfg.Window, cfg.Map, layer); err != nil {
		logger.Error("viewer failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}

// buildSource constructs the record source named in the configuration.
func buildSource(cfg *config.Config) (treedata.Source, error) {
	switch cfg.Data.Source {
	case "http":
		if cfg.Data.BaseURL == "" {
			return nil, fmt.Errorf("http source needs data.base_url")
		}
		apiKey := os.Getenv("SHADOWCAST_API_KEY")
		return treedata.NewHTTPSource(cfg.Data.BaseURL, apiKey, cfg.Data.FetchTimeout), nil

	case "synthetic", "":
		src := treedata.NewMemorySource()
		if cfg.Data.CatalogPath != "" {
			if err := src.LoadFile(cfg.Data.CatalogPath); err != nil {
				return nil, fmt.Errorf("loading catalog: %w", err)
			}
		} else {
			trees, buildings := treedata.GenerateSynthetic(
				cfg.Map.CenterLon, cfg.Map.CenterLat, 1500)
			src.AddTrees(trees)
			src.AddBuildings(buildings)
		}
		trees, buildings := src.Counts()
		logger.Info("synthetic source ready",
			zap.Int("trees", trees),
			zap.Int("buildings", buildings),
		)
		return src, nil

	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Data.Source)
	}
}

// buildClock returns the time function driving the sun position.
func buildClock(cfg config.LightConfig) (func() time.Time, error) {
	switch cfg.Mode {
	case "now", "":
		return time.Now, nil

	case "fixed":
		at, err := time.Parse(time.RFC3339, cfg.FixedTime)
		if err != nil {
			return nil, fmt.Errorf("parsing light.fixed_time: %w", err)
		}
		return func() time.Time { return at }, nil

	case "timelapse":
		daySecs := cfg.TimelapseDaySecs
		if daySecs <= 0 {
			daySecs = 60
		}
		start := time.Now()
		dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
		return func() time.Time {
			elapsed := time.Since(start).Seconds()
			frac := elapsed / float64(daySecs)
			frac -= float64(int(frac)) // wrap to one simulated day
			return dayStart.Add(time.Duration(frac * 24 * float64(time.Hour)))
		}, nil

	default:
		return nil, fmt.Errorf("unknown light mode %q", cfg.Mode)
	}
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	logger.Info("metrics endpoint listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Warn("metrics endpoint stopped", zap.Error(err))
	}
}

// nopLayer keeps the viewer usable when shadows are configured off.
type nopLayer struct{}

func (nopLayer) OnAdd(maphost.Host) error { return nil }
func (nopLayer) Render()                  {}
func (nopLayer) OnRemove()                {}

func logEvent(e shadowlayer.Event) {
	switch e.Kind {
	case shadowlayer.EventInitialized:
		logger.Info("shadow layer initialized")
	case shadowlayer.EventPerf:
		logger.Debug("shadow frame",
			zap.Float64("frame_ms", e.FrameMs),
			zap.Float64("fps", e.FPS),
			zap.Int("draw_calls", e.Stats.DrawCalls),
			zap.Int("trees", e.Stats.Trees),
			zap.Int("buildings", e.Stats.Buildings),
		)
	case shadowlayer.EventError:
		logger.Warn("shadow layer error", zap.Error(e.Err))
	case shadowlayer.EventDisabled:
		logger.Error("shadow layer disabled", zap.Error(e.Err))
	}
}
