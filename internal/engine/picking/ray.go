// Package picking unprojects screen positions into scene-space rays. The
// viewer host uses it to find the ground rectangle a camera can see.
package picking

import (
	"github.com/chewxy/math32"

	vmath "github.com/urbancanopy/shadowcast/pkg/math"
)

// Ray is an origin plus a normalized direction.
type Ray struct {
	Origin    vmath.Vec3
	Direction vmath.Vec3
}

// ScreenToRay converts pixel coordinates to a scene-space ray. invViewProj
// is the inverse of the camera's view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj vmath.Mat4) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH

	near := unproject(invViewProj, vmath.Vec4{ndcX, ndcY, -1, 1})
	far := unproject(invViewProj, vmath.Vec4{ndcX, ndcY, 1, 1})

	dir := far.Sub(near)
	if l := dir.Length(); l > 0 {
		dir = dir.Scale(1 / l)
	}
	return Ray{Origin: near, Direction: dir}
}

func unproject(inv vmath.Mat4, clip vmath.Vec4) vmath.Vec3 {
	w := inv.MulVec4(clip)
	if w[3] != 0 {
		return vmath.Vec3{X: w[0] / w[3], Y: w[1] / w[3], Z: w[2] / w[3]}
	}
	return vmath.Vec3{X: w[0], Y: w[1], Z: w[2]}
}

// IntersectPlaneY intersects the ray with the horizontal plane at planeY.
// ok is false for rays parallel to or pointing away from the plane.
func (r Ray) IntersectPlaneY(planeY float32) (x, z float32, ok bool) {
	if math32.Abs(r.Direction.Y) < 0.001 {
		return 0, 0, false
	}

	t := (planeY - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return 0, 0, false
	}

	return r.Origin.X + t*r.Direction.X, r.Origin.Z + t*r.Direction.Z, true
}

// GroundRect is the scene-space rectangle the viewport projects onto the
// ground plane.
type GroundRect struct {
	MinX, MaxX float32
	MinZ, MaxZ float32
}

// Center returns the rectangle's midpoint on the ground.
func (g GroundRect) Center() vmath.Vec3 {
	return vmath.Vec3{X: (g.MinX + g.MaxX) / 2, Y: 0, Z: (g.MinZ + g.MaxZ) / 2}
}

// HalfExtents returns half the width and depth.
func (g GroundRect) HalfExtents() (halfWidth, halfDepth float32) {
	return (g.MaxX - g.MinX) / 2, (g.MaxZ - g.MinZ) / 2
}

// VisibleGround casts rays through the four viewport corners and bounds
// their ground hits. Corners that miss the ground (a tilted view looking at
// the sky) fall back to maxReach meters along the ray from its origin, so
// the rectangle stays finite at extreme pitches.
func VisibleGround(viewportW, viewportH float32, invViewProj vmath.Mat4, maxReach float32) GroundRect {
	corners := [4][2]float32{
		{0, 0},
		{viewportW, 0},
		{0, viewportH},
		{viewportW, viewportH},
	}

	rect := GroundRect{
		MinX: math32.Inf(1), MaxX: math32.Inf(-1),
		MinZ: math32.Inf(1), MaxZ: math32.Inf(-1),
	}
	for _, c := range corners {
		ray := ScreenToRay(c[0], c[1], viewportW, viewportH, invViewProj)
		x, z, ok := ray.IntersectPlaneY(0)
		if !ok {
			x = ray.Origin.X + ray.Direction.X*maxReach
			z = ray.Origin.Z + ray.Direction.Z*maxReach
		}
		rect.MinX = math32.Min(rect.MinX, x)
		rect.MaxX = math32.Max(rect.MaxX, x)
		rect.MinZ = math32.Min(rect.MinZ, z)
		rect.MaxZ = math32.Max(rect.MaxZ, z)
	}
	return rect
}
