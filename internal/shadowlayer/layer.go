// Package shadowlayer is the embeddable render layer: it owns the shadow
// scene, follows the host camera and keeps the caster set current through
// the viewport manager.
package shadowlayer

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/urbancanopy/shadowcast/internal/caster"
	"github.com/urbancanopy/shadowcast/internal/engine/camera"
	"github.com/urbancanopy/shadowcast/internal/engine/debug"
	"github.com/urbancanopy/shadowcast/internal/engine/lighting"
	"github.com/urbancanopy/shadowcast/internal/engine/scene"
	"github.com/urbancanopy/shadowcast/internal/logger"
	"github.com/urbancanopy/shadowcast/internal/maphost"
	"github.com/urbancanopy/shadowcast/internal/metrics"
	"github.com/urbancanopy/shadowcast/internal/viewport"
	"github.com/urbancanopy/shadowcast/pkg/geo"
	"github.com/urbancanopy/shadowcast/pkg/solar"
)

// maxConsecutiveFailures disables the layer rather than letting a broken
// frame panic the host every repaint.
const maxConsecutiveFailures = 3

// perfEventEvery throttles EventPerf delivery.
const perfEventEvery = 120

// shadowScene is the part of scene.Scene the layer drives, narrowed so the
// GL-free tests can stand in for it.
type shadowScene interface {
	SetSolids([]caster.Solid)
	SetLight(lighting.Directional)
	SetShadowResolution(int32) error
	SetShadowOpacity(float32)
	SetDrawSolids(bool)
	Counts() (trees, buildings int)
	Render(*camera.MapCamera) scene.Stats
	Destroy()
}

// Layer implements maphost.Layer. Construct with New, hand to the host,
// and the host drives the lifecycle from there.
type Layer struct {
	opts Options

	mu      sync.Mutex
	pending *Options // queued UpdateOptions, applied on the render thread

	host    maphost.Host
	scene   shadowScene
	cam     *camera.MapCamera
	manager *viewport.Manager

	frames     uint64
	failures   int
	disabled   bool
	removed    bool
	treeCount  int
	bldgCount  int
	wireframes []float32
	lastPerfAt time.Time
	lastSunAlt float64
	lastSunAz  float64
}

// New creates a layer. Nothing touches the GL context until OnAdd.
func New(opts Options) *Layer {
	return &Layer{opts: opts.withDefaults(), cam: camera.NewMapCamera()}
}

// OnAdd implements maphost.Layer. Runs on the render thread.
func (l *Layer) OnAdd(host maphost.Host) error {
	if l.opts.Source == nil {
		return fmt.Errorf("shadow layer needs a record source")
	}
	l.host = host

	cfg := scene.DefaultConfig()
	cfg.ShadowResolution = l.opts.Quality.Resolution()
	cfg.ShadowOpacity = l.opts.ShadowOpacity
	cfg.DrawSolids = l.opts.DrawSolids

	s, err := scene.New(cfg)
	if err != nil {
		return fmt.Errorf("creating shadow scene: %w", err)
	}
	l.scene = s

	l.manager = viewport.NewManager(viewport.Options{
		Source:      wrapSource(l.opts.Source, host),
		MinZoom:     l.opts.MinZoom,
		Debounce:    l.opts.Debounce,
		MaxEntities: l.opts.MaxEntities,
		Trees:       l.opts.Trees,
		Buildings:   l.opts.Buildings,
		OnUpdate:    host.TriggerRepaint,
	})

	host.OnMoveEnd(func() {
		l.manager.CameraSettled(host.Camera())
	})
	// Seed the first fetch without waiting for a camera move.
	l.manager.CameraSettled(host.Camera())

	logger.Info("shadow layer added",
		zap.String("quality", string(l.opts.Quality)),
		zap.Int32("resolution", l.opts.Quality.Resolution()),
	)
	l.emit(Event{Kind: EventInitialized})
	return nil
}

// Render implements maphost.Layer. Runs on the render thread every frame.
func (l *Layer) Render() {
	if l.removed || l.disabled || l.scene == nil {
		return
	}
	l.guard(l.renderFrame)
}

// guard runs fn and converts a panic into an error event; repeated failures
// disable the layer.
func (l *Layer) guard(fn func()) {
	defer func() {
		r := recover()
		if r == nil {
			l.failures = 0
			return
		}

		metrics.RenderErrorsTotal.Inc()
		err := fmt.Errorf("shadow render: %v", r)
		logger.Error("render frame failed", zap.Error(err))
		l.emit(Event{Kind: EventError, Err: err})

		l.failures++
		if l.failures >= maxConsecutiveFailures {
			l.disabled = true
			logger.Error("shadow layer disabled after repeated failures",
				zap.Int("failures", l.failures))
			l.emit(Event{Kind: EventDisabled, Err: err})
		}
	}()
	fn()
}

func (l *Layer) renderFrame() {
	t0 := time.Now()

	l.applyPendingOptions()

	// Apply at most one queued caster swap per frame.
	l.manager.Drain(func(solids []caster.Solid) {
		l.scene.SetSolids(solids)
		trees, bldgs := l.scene.Counts()
		l.treeCount, l.bldgCount = trees, bldgs
		metrics.ActiveCasters.WithLabelValues("tree").Set(float64(trees))
		metrics.ActiveCasters.WithLabelValues("building").Set(float64(bldgs))

		l.wireframes = l.wireframes[:0]
		for _, s := range solids {
			l.wireframes = append(l.wireframes, debug.SolidWireframe(s.Position, s.Geometry.Bounds())...)
		}
	})

	cs := l.host.Camera()
	proj := l.manager.ProjectorFor(cs)
	center := proj.ToScene(cs.CenterLon, cs.CenterLat, 0)
	if cs.FovYDeg > 0 {
		l.cam.FovYDeg = float32(cs.FovYDeg)
	}
	l.cam.Set(
		center,
		float32(cs.MetersPerPixel()),
		float32(cs.PitchDeg),
		float32(cs.BearingDeg),
		cs.ViewportW,
		cs.ViewportH,
	)

	sun := solar.Position(cs.CenterLat, cs.CenterLon, l.opts.Now())
	l.scene.SetLight(lighting.FromSolar(sun))

	// The sun never stops moving; once it has shifted enough to matter
	// visually, ask the host for another frame.
	const sunMotionEps = 2e-4 // radians
	if abs(sun.AltitudeRad-l.lastSunAlt) > sunMotionEps || abs(sun.AzimuthRad-l.lastSunAz) > sunMotionEps {
		l.lastSunAlt = sun.AltitudeRad
		l.lastSunAz = sun.AzimuthRad
		l.host.TriggerRepaint()
	}

	stats := l.scene.Render(l.cam)

	frameMs := float64(time.Since(t0).Microseconds()) / 1000
	metrics.FramesTotal.Inc()
	metrics.FrameDurationMs.Observe(frameMs)
	metrics.DrawCalls.Set(float64(stats.DrawCalls))

	l.frames++
	if l.frames%perfEventEvery == 0 {
		now := time.Now()
		fps := 0.0
		if elapsed := now.Sub(l.lastPerfAt).Seconds(); elapsed > 0 && !l.lastPerfAt.IsZero() {
			fps = perfEventEvery / elapsed
		}
		l.lastPerfAt = now
		l.emit(Event{Kind: EventPerf, Stats: stats, FrameMs: frameMs, FPS: fps})
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func (l *Layer) applyPendingOptions() {
	l.mu.Lock()
	next := l.pending
	l.pending = nil
	l.mu.Unlock()
	if next == nil {
		return
	}

	opts := next.withDefaults()
	if opts.Quality != l.opts.Quality {
		if err := l.scene.SetShadowResolution(opts.Quality.Resolution()); err != nil {
			logger.Warn("quality change failed", zap.Error(err))
			l.emit(Event{Kind: EventError, Err: err})
			// Keep the old preset on record so a retry of the same one
			// is not skipped as a no-change.
			opts.Quality = l.opts.Quality
		} else {
			logger.Info("shadow quality changed",
				zap.String("quality", string(opts.Quality)),
				zap.Int32("resolution", opts.Quality.Resolution()),
			)
		}
	}
	l.scene.SetShadowOpacity(opts.ShadowOpacity)
	l.scene.SetDrawSolids(opts.DrawSolids)

	// Kind toggles and the entity ceiling refresh the viewport immediately.
	if opts.Trees != l.opts.Trees || opts.Buildings != l.opts.Buildings ||
		opts.MaxEntities != l.opts.MaxEntities {
		l.manager.Configure(opts.Trees, opts.Buildings, opts.MaxEntities)
		l.manager.CameraSettled(l.host.Camera())
	}

	// Keep the live source and callbacks; everything else may change after
	// construction.
	opts.Source = l.opts.Source
	opts.OnEvent = l.opts.OnEvent
	l.opts = opts

	l.host.TriggerRepaint()
}

// UpdateOptions queues an options change; it takes effect on the next
// rendered frame. Safe to call from any goroutine.
func (l *Layer) UpdateOptions(opts Options) {
	l.mu.Lock()
	l.pending = &opts
	l.mu.Unlock()
	if l.host != nil {
		l.host.TriggerRepaint()
	}
}

// OnRemove implements maphost.Layer. Idempotent; runs on the render thread.
func (l *Layer) OnRemove() {
	if l.removed {
		return
	}
	l.removed = true

	if l.manager != nil {
		l.manager.Close()
	}
	if l.scene != nil {
		l.scene.Destroy()
		l.scene = nil
	}
	metrics.ActiveCasters.WithLabelValues("tree").Set(0)
	metrics.ActiveCasters.WithLabelValues("building").Set(0)
	logger.Info("shadow layer removed")
}

// SceneProjector returns the projector the layer renders with for the
// given camera, so a host can place overlays in the same scene frame.
// Render thread only.
func (l *Layer) SceneProjector(cs maphost.CameraState) *geo.Projector {
	if l.manager == nil {
		return geo.NewProjector(cs.CenterLon, cs.CenterLat)
	}
	return l.manager.ProjectorFor(cs)
}

// DebugWireframes returns line vertices outlining the current casters, in
// the layer's scene frame. Render thread only.
func (l *Layer) DebugWireframes() []float32 {
	return l.wireframes
}

func (l *Layer) emit(e Event) {
	if l.opts.OnEvent != nil {
		l.opts.OnEvent(e)
	}
}
