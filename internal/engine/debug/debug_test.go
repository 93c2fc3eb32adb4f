package debug

import (
	"testing"

	"github.com/urbancanopy/shadowcast/internal/engine/mesh"
	vmath "github.com/urbancanopy/shadowcast/pkg/math"
)

func TestBBoxWireframeVertexCount(t *testing.T) {
	verts := GenerateBBoxWireframeVertices(0, 0, 0, 1, 2, 3)
	if len(verts) != BBoxWireframeVertexCount*3 {
		t.Errorf("got %d floats, want %d", len(verts), BBoxWireframeVertexCount*3)
	}
}

func TestSolidWireframeOffset(t *testing.T) {
	verts := SolidWireframe(vmath.Vec3{X: 10, Y: 0, Z: -5}, mesh.AABB{
		Min: [3]float32{-1, 0, -1},
		Max: [3]float32{1, 4, 1},
	})

	// Every x must land in [9, 11], every y in [0, 4], every z in [-6, -4].
	for i := 0; i+2 < len(verts); i += 3 {
		if verts[i] < 9 || verts[i] > 11 {
			t.Fatalf("x out of range: %f", verts[i])
		}
		if verts[i+1] < 0 || verts[i+1] > 4 {
			t.Fatalf("y out of range: %f", verts[i+1])
		}
		if verts[i+2] < -6 || verts[i+2] > -4 {
			t.Fatalf("z out of range: %f", verts[i+2])
		}
	}
}

func TestGenerateGroundGridLines(t *testing.T) {
	verts := GenerateGroundGrid(-100, 100, -50, 50, 50, 0)
	if len(verts)%6 != 0 {
		t.Fatalf("vertex count %d is not whole lines", len(verts))
	}
	// 5 vertical lines (-100..100 step 50) + 3 horizontal (-50..50).
	if lines := len(verts) / 6; lines != 8 {
		t.Errorf("got %d lines, want 8", lines)
	}
}

func TestGenerateGroundGridDegenerate(t *testing.T) {
	if v := GenerateGroundGrid(10, -10, 0, 5, 1, 0); v != nil {
		t.Error("inverted bounds should produce nothing")
	}
	if v := GenerateGroundGrid(-10, 10, 0, 5, 0, 0); v != nil {
		t.Error("zero spacing should produce nothing")
	}
}
