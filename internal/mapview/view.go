// Package mapview is a standalone SDL2 map host for the shadow layer: a
// slippy-style camera over a flat reference basemap. It stands in for a
// full tile renderer while exposing the same host surface a real one would.
package mapview

import (
	"math"
	"sync"
	"time"

	"github.com/urbancanopy/shadowcast/internal/maphost"
	"github.com/urbancanopy/shadowcast/pkg/geo"
)

// settleDelay is how long the camera must rest before move-end fires.
const settleDelay = 200 * time.Millisecond

const (
	minZoom  = 3.0
	maxZoom  = 20.0
	maxPitch = 85.0
)

// View holds the camera and implements maphost.Host. Camera mutation
// happens on the render thread; Camera and TriggerRepaint are safe from
// any goroutine.
type View struct {
	mu  sync.Mutex
	cam maphost.CameraState

	moveEnd   []func()
	repaint   chan struct{}
	moving    bool
	lastInput time.Time
}

// New creates a view centered on the given position.
func New(lon, lat, zoom, pitchDeg, bearingDeg float64, viewportW, viewportH int) *View {
	return &View{
		cam: maphost.CameraState{
			CenterLon:  lon,
			CenterLat:  lat,
			Zoom:       clamp(zoom, minZoom, maxZoom),
			PitchDeg:   clamp(pitchDeg, 0, maxPitch),
			BearingDeg: bearingDeg,
			ViewportW:  viewportW,
			ViewportH:  viewportH,
		},
		repaint: make(chan struct{}, 1),
	}
}

// Camera implements maphost.Host.
func (v *View) Camera() maphost.CameraState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cam
}

// OnMoveEnd implements maphost.Host.
func (v *View) OnMoveEnd(fn func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.moveEnd = append(v.moveEnd, fn)
}

// TriggerRepaint implements maphost.Host.
func (v *View) TriggerRepaint() {
	select {
	case v.repaint <- struct{}{}:
	default:
	}
}

// ConsumeRepaint reports and clears a queued repaint request.
func (v *View) ConsumeRepaint() bool {
	select {
	case <-v.repaint:
		return true
	default:
		return false
	}
}

// Pan moves the center against a pixel drag, honoring the bearing so the
// map follows the cursor regardless of rotation.
func (v *View) Pan(dxPx, dyPx float64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	mpp := v.cam.MetersPerPixel()
	eastM, northM := rotateScreenDelta(-dxPx*mpp, dyPx*mpp, v.cam.BearingDeg)

	p := geo.NewProjector(v.cam.CenterLon, v.cam.CenterLat)
	v.cam.CenterLon, v.cam.CenterLat = p.ToGeo(float32(eastM), float32(-northM))
	v.markMoving()
}

// Zoom adjusts the zoom level by wheel steps.
func (v *View) Zoom(steps float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cam.Zoom = clamp(v.cam.Zoom+steps*0.25, minZoom, maxZoom)
	v.markMoving()
}

// Rotate adds to the bearing in degrees.
func (v *View) Rotate(deg float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cam.BearingDeg += deg
	for v.cam.BearingDeg < 0 {
		v.cam.BearingDeg += 360
	}
	for v.cam.BearingDeg >= 360 {
		v.cam.BearingDeg -= 360
	}
	v.markMoving()
}

// Tilt adds to the pitch in degrees.
func (v *View) Tilt(deg float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cam.PitchDeg = clamp(v.cam.PitchDeg+deg, 0, maxPitch)
	v.markMoving()
}

// Resize updates the viewport dimensions.
func (v *View) Resize(w, h int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cam.ViewportW = w
	v.cam.ViewportH = h
	v.markMoving()
}

// markMoving is called with the lock held.
func (v *View) markMoving() {
	v.moving = true
	v.lastInput = time.Now()
	select {
	case v.repaint <- struct{}{}:
	default:
	}
}

// Update fires move-end callbacks once the camera has rested long enough.
// Called every frame on the render thread.
func (v *View) Update(now time.Time) {
	v.mu.Lock()
	if !v.moving || now.Sub(v.lastInput) < settleDelay {
		v.mu.Unlock()
		return
	}
	v.moving = false
	callbacks := make([]func(), len(v.moveEnd))
	copy(callbacks, v.moveEnd)
	v.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}

// rotateScreenDelta maps a screen-space displacement (right, up) in meters
// to world east/north, accounting for the camera bearing.
func rotateScreenDelta(rightM, upM, bearingDeg float64) (eastM, northM float64) {
	b := bearingDeg * math.Pi / 180
	sin, cos := math.Sin(b), math.Cos(b)
	eastM = rightM*cos + upM*sin
	northM = -rightM*sin + upM*cos
	return eastM, northM
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
