package shadow

import (
	"github.com/chewxy/math32"

	"github.com/urbancanopy/shadowcast/internal/engine/mesh"
	vmath "github.com/urbancanopy/shadowcast/pkg/math"
)

// boundsCenter returns the center point of an AABB.
func boundsCenter(b mesh.AABB) vmath.Vec3 {
	return vmath.Vec3{
		X: (b.Min[0] + b.Max[0]) / 2,
		Y: (b.Min[1] + b.Max[1]) / 2,
		Z: (b.Min[2] + b.Max[2]) / 2,
	}
}

// boundsRadius returns the half-diagonal of an AABB.
func boundsRadius(b mesh.AABB) float32 {
	dx := (b.Max[0] - b.Min[0]) / 2
	dy := (b.Max[1] - b.Min[1]) / 2
	dz := (b.Max[2] - b.Min[2]) / 2
	return math32.Sqrt(dx*dx + dy*dy + dz*dz)
}

// FitBounds computes the directional light view-projection enclosing an
// AABB. lightDir is the normalized direction TO the sun; the orthographic
// box is sized from the bounds' bounding sphere with padding against edge
// clipping.
func FitBounds(lightDir vmath.Vec3, bounds mesh.AABB) vmath.Mat4 {
	center := boundsCenter(bounds)
	radius := boundsRadius(bounds)
	if radius <= 0 {
		radius = 1
	}

	lightDistance := radius * 2

	lightPos := vmath.Vec3{
		X: center.X + lightDir.X*lightDistance,
		Y: center.Y + lightDir.Y*lightDistance,
		Z: center.Z + lightDir.Z*lightDistance,
	}

	// Near-vertical sun needs a different up vector for LookAt.
	up := vmath.Vec3{X: 0, Y: 1, Z: 0}
	if math32.Abs(lightDir.Y) > 0.99 {
		up = vmath.Vec3{X: 0, Y: 0, Z: 1}
	}

	view := vmath.LookAt(lightPos, center, up)

	padding := radius * 0.1
	halfSize := radius + padding
	near := float32(0.1)
	far := lightDistance + radius + padding

	proj := vmath.Ortho(-halfSize, halfSize, -halfSize, halfSize, near, far)

	return proj.Mul(view)
}

// FitViewport computes the light matrix for the visible map area: a ground
// rectangle centered on the view, extruded up to the tallest caster. Long
// shadows at low sun need the footprint padded along the shadow direction,
// which the extra groundPad covers.
func FitViewport(lightDir vmath.Vec3, center vmath.Vec3, halfWidth, halfDepth, maxCasterHeight, groundPad float32) vmath.Mat4 {
	if maxCasterHeight < 1 {
		maxCasterHeight = 1
	}
	return FitBounds(lightDir, mesh.AABB{
		Min: [3]float32{center.X - halfWidth - groundPad, center.Y, center.Z - halfDepth - groundPad},
		Max: [3]float32{center.X + halfWidth + groundPad, center.Y + maxCasterHeight, center.Z + halfDepth + groundPad},
	})
}
