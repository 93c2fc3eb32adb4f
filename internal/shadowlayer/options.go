package shadowlayer

import (
	"fmt"
	"strings"
	"time"

	"github.com/urbancanopy/shadowcast/internal/treedata"
)

// QualityPreset selects the shadow map resolution.
type QualityPreset string

const (
	QualityLow    QualityPreset = "low"
	QualityMedium QualityPreset = "medium"
	QualityHigh   QualityPreset = "high"
	QualityUltra  QualityPreset = "ultra"
)

// Resolution returns the shadow map edge length for the preset.
func (q QualityPreset) Resolution() int32 {
	switch q {
	case QualityLow:
		return 1024
	case QualityHigh:
		return 4096
	case QualityUltra:
		return 8192
	default:
		return 2048
	}
}

// ParseQuality maps a config string to a preset. Empty means medium.
func ParseQuality(s string) (QualityPreset, error) {
	switch QualityPreset(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return QualityMedium, nil
	case QualityLow:
		return QualityLow, nil
	case QualityMedium:
		return QualityMedium, nil
	case QualityHigh:
		return QualityHigh, nil
	case QualityUltra:
		return QualityUltra, nil
	}
	return QualityMedium, fmt.Errorf("unknown quality preset %q", s)
}

// Options configures the layer. Source is required; zero values elsewhere
// fall back to sensible defaults.
type Options struct {
	Source treedata.Source

	Quality       QualityPreset
	Trees         bool
	Buildings     bool
	MaxEntities   int
	MinZoom       float64
	ShadowOpacity float32
	DrawSolids    bool

	Debounce time.Duration

	// Now supplies the instant the sun is computed for, letting callers
	// drive fixed-time and timelapse modes. Nil means wall clock.
	Now func() time.Time

	// OnEvent receives lifecycle and performance events. May be nil.
	// Called from the render thread.
	OnEvent func(Event)
}

func (o Options) withDefaults() Options {
	if o.Quality == "" {
		o.Quality = QualityMedium
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.ShadowOpacity <= 0 {
		o.ShadowOpacity = 0.45
	}
	return o
}
