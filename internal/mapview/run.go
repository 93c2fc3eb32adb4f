package mapview

import (
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/urbancanopy/shadowcast/internal/config"
	"github.com/urbancanopy/shadowcast/internal/engine/camera"
	"github.com/urbancanopy/shadowcast/internal/engine/debug"
	"github.com/urbancanopy/shadowcast/internal/engine/input"
	"github.com/urbancanopy/shadowcast/internal/engine/window"
	"github.com/urbancanopy/shadowcast/internal/logger"
	"github.com/urbancanopy/shadowcast/internal/maphost"
	"github.com/urbancanopy/shadowcast/pkg/geo"
)

var (
	gridColor      = [4]float32{0.55, 0.58, 0.55, 1}
	wireframeColor = [4]float32{0.95, 0.55, 0.15, 1}
)

// sceneSource is the optional surface a layer exposes so the viewer can
// draw overlays in the layer's scene frame.
type sceneSource interface {
	SceneProjector(maphost.CameraState) *geo.Projector
	DebugWireframes() []float32
}

// Run opens the viewer window, attaches the layer and drives the frame
// loop until quit. Must be called from the main goroutine.
func Run(winCfg config.WindowConfig, mapCfg config.MapConfig, layer maphost.Layer) error {
	win, err := window.New(window.Config{
		Title:      "shadowcast viewer",
		Width:      winCfg.Width,
		Height:     winCfg.Height,
		Fullscreen: winCfg.Fullscreen,
		VSync:      winCfg.VSync,
	})
	if err != nil {
		return err
	}
	defer win.Close()

	if err := gl.Init(); err != nil {
		return err
	}
	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	view := New(
		mapCfg.CenterLon, mapCfg.CenterLat,
		mapCfg.Zoom, mapCfg.PitchDeg, mapCfg.BearingDeg,
		winCfg.Width, winCfg.Height,
	)

	lines, err := NewLineRenderer()
	if err != nil {
		return err
	}
	defer lines.Destroy()

	if err := layer.OnAdd(view); err != nil {
		return err
	}
	defer layer.OnRemove()

	overlay, hasOverlay := layer.(sceneSource)
	fallback := geo.NewProjector(mapCfg.CenterLon, mapCfg.CenterLat)

	in := input.New()
	cam := camera.NewMapCamera()
	shots := debug.NewScreenshotCapture("screenshots", "shadowview")

	dragging := false
	showWireframes := false

	for {
		quit := in.Update()
		for _, e := range in.Events() {
			switch e.Type {
			case input.EventWindowResize:
				view.Resize(e.Width, e.Height)
			case input.EventMouseDown:
				if e.Button == sdl.BUTTON_LEFT {
					dragging = true
				}
			case input.EventMouseUp:
				if e.Button == sdl.BUTTON_LEFT {
					dragging = false
				}
			case input.EventMouseMove:
				if dragging {
					view.Pan(float64(e.RelX), float64(e.RelY))
				}
			case input.EventMouseWheel:
				view.Zoom(float64(e.WheelY))
			case input.EventKeyDown:
				switch e.Key {
				case sdl.SCANCODE_ESCAPE:
					quit = true
				case sdl.SCANCODE_Q:
					view.Rotate(-10)
				case sdl.SCANCODE_E:
					view.Rotate(10)
				case sdl.SCANCODE_R:
					view.Tilt(5)
				case sdl.SCANCODE_F:
					view.Tilt(-5)
				case sdl.SCANCODE_B:
					showWireframes = !showWireframes
				case sdl.SCANCODE_F12:
					captureScreenshot(win, shots)
				}
			}
		}
		if quit {
			return nil
		}

		view.Update(time.Now())
		view.ConsumeRepaint()

		cs := view.Camera()
		proj := fallback
		if hasOverlay {
			proj = overlay.SceneProjector(cs)
		} else if proj.NeedsReanchor(cs.CenterLon, cs.CenterLat) {
			fallback = geo.NewProjector(cs.CenterLon, cs.CenterLat)
			proj = fallback
		}

		center := proj.ToScene(cs.CenterLon, cs.CenterLat, 0)
		cam.Set(
			center,
			float32(cs.MetersPerPixel()),
			float32(cs.PitchDeg),
			float32(cs.BearingDeg),
			cs.ViewportW,
			cs.ViewportH,
		)
		viewProj := cam.ViewProjection()

		dw, dh := win.GetDrawableSize()
		gl.Viewport(0, 0, int32(dw), int32(dh))
		gl.ClearColor(0.92, 0.93, 0.90, 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		gl.Enable(gl.DEPTH_TEST)

		// Reference grid in place of a tile basemap.
		halfW, halfD := cam.GroundHalfExtents()
		spacing := gridSpacing(cs.MetersPerPixel())
		lines.SetLines(debug.GenerateGroundGrid(
			center.X-halfW, center.X+halfW,
			center.Z-halfD, center.Z+halfD,
			spacing, 0,
		))
		lines.Render(viewProj, gridColor)

		layer.Render()

		if showWireframes && hasOverlay {
			lines.SetLines(overlay.DebugWireframes())
			lines.Render(viewProj, wireframeColor)
		}

		win.SwapBuffers()
		if !winCfg.VSync {
			sdl.Delay(15)
		}
	}
}

// gridSpacing picks a line spacing in meters that stays readable at the
// current ground resolution.
func gridSpacing(mpp float64) float32 {
	s := 10.0
	for s < mpp*40 {
		s *= 2
	}
	return float32(s)
}

func captureScreenshot(win *window.Window, shots *debug.ScreenshotCapture) {
	w, h := win.GetDrawableSize()
	pixels := make([]byte, w*h*4)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))

	name, err := shots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("file", name))
}
