package shadow

import (
	"testing"

	"github.com/urbancanopy/shadowcast/internal/engine/mesh"
	vmath "github.com/urbancanopy/shadowcast/pkg/math"
)

func corners(b mesh.AABB) []vmath.Vec3 {
	var out []vmath.Vec3
	for _, x := range []float32{b.Min[0], b.Max[0]} {
		for _, y := range []float32{b.Min[1], b.Max[1]} {
			for _, z := range []float32{b.Min[2], b.Max[2]} {
				out = append(out, vmath.Vec3{X: x, Y: y, Z: z})
			}
		}
	}
	return out
}

func inClip(m vmath.Mat4, p vmath.Vec3) bool {
	c := m.MulVec4(vmath.Vec4{p.X, p.Y, p.Z, 1})
	// Orthographic projection keeps w = 1.
	return c[0] >= -1.001 && c[0] <= 1.001 &&
		c[1] >= -1.001 && c[1] <= 1.001 &&
		c[2] >= -1.001 && c[2] <= 1.001
}

func TestFitBoundsEnclosesBox(t *testing.T) {
	bounds := mesh.AABB{Min: [3]float32{-200, 0, -150}, Max: [3]float32{200, 40, 150}}
	dirs := []vmath.Vec3{
		vmath.Vec3{X: 0.3, Y: 0.8, Z: 0.5}.Normalize(),
		vmath.Vec3{X: -0.7, Y: 0.2, Z: 0.1}.Normalize(),
		{X: 0, Y: 1, Z: 0}, // vertical sun exercises the alternate up vector
	}

	for i, dir := range dirs {
		m := FitBounds(dir, bounds)
		for _, c := range corners(bounds) {
			if !inClip(m, c) {
				t.Errorf("dir %d: corner %+v falls outside the light frustum", i, c)
			}
		}
	}
}

func TestFitViewportCoversTallCaster(t *testing.T) {
	dir := vmath.Vec3{X: 0.4, Y: 0.5, Z: 0.2}.Normalize()
	center := vmath.Vec3{X: 10, Y: 0, Z: -5}
	m := FitViewport(dir, center, 300, 200, 80, 50)

	// A caster top at the viewport edge must stay inside the frustum.
	p := vmath.Vec3{X: center.X + 300, Y: 80, Z: center.Z - 200}
	if !inClip(m, p) {
		t.Errorf("tall caster at viewport edge is outside the light frustum")
	}
}

func TestFitBoundsDegenerate(t *testing.T) {
	m := FitBounds(vmath.Vec3{X: 0, Y: 1, Z: 0}, mesh.AABB{})
	if !inClip(m, vmath.Vec3{}) {
		t.Error("degenerate bounds should still produce a usable matrix around the origin")
	}
}
