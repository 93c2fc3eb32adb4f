// Package maphost defines the contract between a map renderer and the
// layers it embeds. The shadow layer only ever talks to these interfaces,
// so any host that exposes its camera and a repaint hook can carry it.
package maphost

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/urbancanopy/shadowcast/internal/treedata"
	"github.com/urbancanopy/shadowcast/pkg/geo"
)

// CameraState is the host camera at one instant.
type CameraState struct {
	CenterLon  float64
	CenterLat  float64
	Zoom       float64
	PitchDeg   float64
	BearingDeg float64

	// FovYDeg is the vertical field of view. Zero means the host does not
	// report one and the layer falls back to its default.
	FovYDeg float64

	ViewportW int
	ViewportH int
}

// MetersPerPixel returns the ground resolution at the camera center.
func (c CameraState) MetersPerPixel() float64 {
	return geo.MetersPerPixel(c.CenterLat, c.Zoom)
}

// Host is the surface a map renderer offers to its layers. Camera and
// TriggerRepaint must be safe to call from any goroutine; OnMoveEnd
// callbacks fire after the camera settles following pans and zooms.
type Host interface {
	Camera() CameraState
	OnMoveEnd(fn func())
	TriggerRepaint()
}

// Layer is a custom render layer. OnAdd and OnRemove run on the render
// thread with the GL context current, as does Render every frame between
// them. OnRemove must be idempotent.
type Layer interface {
	OnAdd(host Host) error
	Render()
	OnRemove()
}

// FeatureQuerier is optionally implemented by hosts that can report the
// building footprints they have already rendered, so layers can reuse them
// instead of fetching from a service.
type FeatureQuerier interface {
	QueryBuildingFeatures(bound orb.Bound, limit int) []treedata.Building
}

// pitchStretchCap bounds how much a tilted camera widens the fetch area.
const pitchStretchCap = 3.0

// VisibleBound returns the geographic rectangle the camera can see,
// padded by padM meters on every side. Pitch deepens the visible ground
// along the view direction; the stretch is capped so near-horizontal views
// stay bounded.
func VisibleBound(c CameraState, padM float64) orb.Bound {
	mpp := c.MetersPerPixel()
	halfW := float64(c.ViewportW) / 2 * mpp
	halfH := float64(c.ViewportH) / 2 * mpp

	stretch := 1 / math.Cos(c.PitchDeg*math.Pi/180)
	if stretch > pitchStretchCap || stretch < 0 {
		stretch = pitchStretchCap
	}
	halfH *= stretch

	return geo.BoundAround(c.CenterLon, c.CenterLat, halfW+padM, halfH+padM)
}
