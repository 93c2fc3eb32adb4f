// Package debug provides debug visualization helpers for the viewer.
package debug

import (
	"github.com/urbancanopy/shadowcast/internal/engine/mesh"
	vmath "github.com/urbancanopy/shadowcast/pkg/math"
)

// BBoxWireframeVertexCount is the number of vertices for a bbox wireframe
// (12 edges, 2 endpoints each).
const BBoxWireframeVertexCount = 24

// GenerateBBoxWireframeVertices creates line vertices for a wireframe box,
// [x y z] per vertex.
func GenerateBBoxWireframeVertices(minX, minY, minZ, maxX, maxY, maxZ float32) []float32 {
	return []float32{
		// Bottom face
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical edges
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}

// SolidWireframe builds wireframe vertices around a caster solid's local
// bounds placed at position.
func SolidWireframe(position vmath.Vec3, bounds mesh.AABB) []float32 {
	return GenerateBBoxWireframeVertices(
		bounds.Min[0]+position.X, bounds.Min[1]+position.Y, bounds.Min[2]+position.Z,
		bounds.Max[0]+position.X, bounds.Max[1]+position.Y, bounds.Max[2]+position.Z,
	)
}
