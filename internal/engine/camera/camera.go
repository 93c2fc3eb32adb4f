// Package camera derives view and projection matrices from map camera
// state: a look-at point on the ground plus zoom, pitch and bearing.
package camera

import (
	"github.com/chewxy/math32"

	vmath "github.com/urbancanopy/shadowcast/pkg/math"
)

// MapCamera mirrors a slippy-map camera in scene space. The camera orbits
// the center point: pitch 0 looks straight down, bearing rotates the view
// clockwise from north. North is -z in the scene frame.
type MapCamera struct {
	Center         vmath.Vec3
	MetersPerPixel float32
	PitchDeg       float32
	BearingDeg     float32

	ViewportW int
	ViewportH int

	FovYDeg float32
}

// NewMapCamera creates a camera with the default vertical field of view.
func NewMapCamera() *MapCamera {
	return &MapCamera{FovYDeg: 45}
}

// Set updates the camera from host state in one call.
func (c *MapCamera) Set(center vmath.Vec3, metersPerPixel, pitchDeg, bearingDeg float32, viewportW, viewportH int) {
	c.Center = center
	c.MetersPerPixel = metersPerPixel
	c.PitchDeg = pitchDeg
	c.BearingDeg = bearingDeg
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Distance returns the eye distance from the center, chosen so one screen
// pixel covers MetersPerPixel meters at the center point.
func (c *MapCamera) Distance() float32 {
	h := float32(c.ViewportH)
	if h <= 0 {
		h = 1080
	}
	mpp := c.MetersPerPixel
	if mpp <= 0 {
		mpp = 1
	}
	halfFov := c.FovYDeg * math32.Pi / 180 / 2
	return h / 2 * mpp / math32.Tan(halfFov)
}

// orientation composes the bearing spin around the up axis with the pitch
// tilt around east.
func (c *MapCamera) orientation() vmath.Quat {
	bearing := c.BearingDeg * math32.Pi / 180
	pitch := c.PitchDeg * math32.Pi / 180
	yaw := vmath.QuatFromAxisAngle(vmath.Vec3{X: 0, Y: 1, Z: 0}, -bearing)
	tilt := vmath.QuatFromAxisAngle(vmath.Vec3{X: 1, Y: 0, Z: 0}, pitch)
	return yaw.Mul(tilt)
}

// Position returns the eye position in scene space.
func (c *MapCamera) Position() vmath.Vec3 {
	q := c.orientation()
	offset := q.Rotate(vmath.Vec3{X: 0, Y: 1, Z: 0}).Scale(c.Distance())
	return c.Center.Add(offset)
}

// ViewMatrix returns the look-at matrix for the current state. The up
// vector tracks the tilt so a top-down view keeps north at the screen top.
func (c *MapCamera) ViewMatrix() vmath.Mat4 {
	q := c.orientation()
	up := q.Rotate(vmath.Vec3{X: 0, Y: 0, Z: -1})
	return vmath.LookAt(c.Position(), c.Center, up)
}

// ProjectionMatrix returns the perspective projection. Near and far planes
// scale with the eye distance so depth precision follows the zoom level.
func (c *MapCamera) ProjectionMatrix() vmath.Mat4 {
	w, h := float32(c.ViewportW), float32(c.ViewportH)
	if w <= 0 || h <= 0 {
		w, h = 16, 9
	}
	d := c.Distance()
	near := d * 0.02
	if near < 0.1 {
		near = 0.1
	}
	far := d * 20
	return vmath.Perspective(c.FovYDeg*math32.Pi/180, w/h, near, far)
}

// ViewProjection returns projection * view.
func (c *MapCamera) ViewProjection() vmath.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}

// GroundHalfExtents estimates the half-width and half-depth of the ground
// rectangle the view covers, used to size fetch bounds and the light
// frustum. Pitch widens the far edge, so the depth grows with tilt.
func (c *MapCamera) GroundHalfExtents() (halfWidth, halfDepth float32) {
	mpp := c.MetersPerPixel
	if mpp <= 0 {
		mpp = 1
	}
	halfWidth = float32(c.ViewportW) / 2 * mpp
	halfDepth = float32(c.ViewportH) / 2 * mpp

	// A tilted view reaches further along the view direction. Cap the
	// stretch so near-horizontal pitches do not blow the bounds up.
	pitch := c.PitchDeg * math32.Pi / 180
	stretch := 1 / math32.Max(math32.Cos(pitch), 0.35)
	halfDepth *= stretch
	return halfWidth, halfDepth
}
